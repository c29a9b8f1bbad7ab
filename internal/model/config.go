// Package model defines the data structures shared by the synthci packages.
package model

import "time"

// RunConfig describes which Synthetic tests to run and how to interpret
// their results. It is resolved once per invocation and never mutated.
type RunConfig struct {
	APIKey      string
	AppKey      string
	DatadogSite string
	Subdomain   string

	PublicIDs       []string
	TestSearchQuery string
	Files           []string

	// Variables and Locations override every triggered test.
	Variables map[string]string
	Locations []string

	BatchTimeout    time.Duration
	PollingInterval time.Duration

	FailOnCriticalErrors bool
	FailOnMissingTests   bool
	FailOnTimeout        bool
}

// TestSelection reports which source the tests to run are taken from.
type TestSelection string

const (
	// SelectPublicIDs selects tests listed explicitly by public ID.
	SelectPublicIDs TestSelection = "public_ids"
	// SelectSearchQuery selects tests matching a search query.
	SelectSearchQuery TestSelection = "test_search_query"
	// SelectFiles selects tests declared in test files.
	SelectFiles TestSelection = "files"
)

// Selection returns the test source, by precedence: public IDs, then the
// search query, then test files.
func (c RunConfig) Selection() TestSelection {
	if len(c.PublicIDs) > 0 {
		return SelectPublicIDs
	}

	if c.TestSearchQuery != "" {
		return SelectSearchQuery
	}

	return SelectFiles
}
