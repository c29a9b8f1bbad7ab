package model

import "net/url"

// AppBaseURL returns the Datadog web app URL for the configured site and
// subdomain, always with a trailing slash.
func AppBaseURL(cfg RunConfig) string {
	return "https://" + cfg.Subdomain + "." + cfg.DatadogSite + "/"
}

// BatchURL returns the CI results explorer URL of a batch.
func BatchURL(baseURL, batchID string) string {
	return baseURL + "synthetics/explorer/ci?batchResultId=" + url.QueryEscape(batchID)
}

// ResultURL returns the details page of a single test result.
func ResultURL(baseURL, batchID string, result Result) string {
	return baseURL + "synthetics/details/" + url.PathEscape(result.Test.PublicID) +
		"/result/" + url.PathEscape(result.ResultID) +
		"?batch_id=" + url.QueryEscape(batchID) + "&from_ci=true"
}

// TestURL returns the details page of a test.
func TestURL(baseURL, publicID string) string {
	return baseURL + "synthetics/details/" + url.PathEscape(publicID)
}
