package model

import "time"

// RunReport summarises one pipeline run.
type RunReport struct {
	Listed   int
	Selected int
	// CacheHits and Fetched count problem details; submissions are not included.
	CacheHits  int
	Fetched    int
	Skipped    []string
	Cards      int
	OutputFile string
	Duration   time.Duration
}
