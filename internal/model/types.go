// Package model defines shared data structures.
package model

// StatsRecord is one language entry of the weekly breakdown.
type StatsRecord struct {
	Name         string
	DurationText string
	Percent      float64
}

// StatsSummary is the decoded stats payload used by the runner.
type StatsSummary struct {
	Range     string
	Languages []StatsRecord
}

// PublishResult reports what the snippet service stored.
type PublishResult struct {
	StatusCode int
	Filename   string
	Content    string
}
