package adapter

import (
	"os"
	"strings"
)

// CIMetadata describes the pipeline that triggered a batch. It is attached to
// the trigger request so results can be linked back to the CI run.
type CIMetadata struct {
	CI         *CIInfo  `json:"ci,omitempty"`
	Git        *GitInfo `json:"git,omitempty"`
	TriggerApp string   `json:"trigger_app,omitempty"`
}

// CIInfo describes the CI provider, pipeline and job.
type CIInfo struct {
	Provider CIProvider `json:"provider"`
	Pipeline CIPipeline `json:"pipeline"`
	Job      CIJob      `json:"job"`
}

// CIProvider names the CI provider.
type CIProvider struct {
	Name string `json:"name"`
}

// CIPipeline identifies a pipeline run.
type CIPipeline struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Number string `json:"number,omitempty"`
	URL    string `json:"url,omitempty"`
}

// CIJob identifies the job inside a pipeline.
type CIJob struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// GitInfo describes the commit under test.
type GitInfo struct {
	RepositoryURL string    `json:"repository_url,omitempty"`
	Branch        string    `json:"branch,omitempty"`
	Tag           string    `json:"tag,omitempty"`
	Commit        GitCommit `json:"commit"`
}

// GitCommit identifies a commit.
type GitCommit struct {
	SHA string `json:"sha,omitempty"`
}

// DetectCIMetadata builds CIMetadata from the environment of a GitHub
// Actions job. Outside GitHub Actions only the trigger app is set.
func DetectCIMetadata(triggerApp string) *CIMetadata {
	return detectCIMetadata(os.Getenv, triggerApp)
}

func detectCIMetadata(getenv func(string) string, triggerApp string) *CIMetadata {
	metadata := &CIMetadata{TriggerApp: triggerApp}

	if getenv("GITHUB_ACTIONS") != "true" {
		return metadata
	}

	server := strings.TrimSuffix(getenv("GITHUB_SERVER_URL"), "/")
	repository := getenv("GITHUB_REPOSITORY")
	runID := getenv("GITHUB_RUN_ID")

	pipelineURL := ""
	if server != "" && repository != "" && runID != "" {
		pipelineURL = server + "/" + repository + "/actions/runs/" + runID
		if attempt := getenv("GITHUB_RUN_ATTEMPT"); attempt != "" {
			pipelineURL += "/attempts/" + attempt
		}
	}

	metadata.CI = &CIInfo{
		Provider: CIProvider{Name: "github"},
		Pipeline: CIPipeline{
			ID:     runID,
			Name:   getenv("GITHUB_WORKFLOW"),
			Number: getenv("GITHUB_RUN_NUMBER"),
			URL:    pipelineURL,
		},
		Job: CIJob{
			Name: getenv("GITHUB_JOB"),
			URL:  pipelineURL,
		},
	}

	git := &GitInfo{Commit: GitCommit{SHA: getenv("GITHUB_SHA")}}
	if server != "" && repository != "" {
		git.RepositoryURL = server + "/" + repository + ".git"
	}

	ref := getenv("GITHUB_HEAD_REF")
	if ref == "" {
		ref = getenv("GITHUB_REF")
	}

	switch {
	case strings.HasPrefix(ref, "refs/tags/"):
		git.Tag = strings.TrimPrefix(ref, "refs/tags/")
	default:
		git.Branch = strings.TrimPrefix(ref, "refs/heads/")
	}

	metadata.Git = git

	return metadata
}
