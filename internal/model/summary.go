package model

// Summary counts the test outcomes of a run.
type Summary struct {
	BatchID           string
	CriticalErrors    int
	Passed            int
	FailedNonBlocking int
	Failed            int
	Skipped           int
	// TestsNotFound holds the public IDs that could not be found.
	TestsNotFound map[string]struct{}
	TimedOut      int
}

// NewSummary returns an empty Summary ready to be filled.
func NewSummary() Summary {
	return Summary{TestsNotFound: map[string]struct{}{}}
}

// AddNotFound records a public ID that could not be found.
func (s *Summary) AddNotFound(publicID string) {
	if s.TestsNotFound == nil {
		s.TestsNotFound = map[string]struct{}{}
	}

	s.TestsNotFound[publicID] = struct{}{}
}

// NotFoundCount returns the number of distinct tests that were not found.
func (s Summary) NotFoundCount() int {
	return len(s.TestsNotFound)
}
