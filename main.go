// Package main is the entry point for the synthci CLI.
package main

import "github.com/synthci/synthci/cmd"

func main() {
	cmd.Execute()
}
