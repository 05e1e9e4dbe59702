package model

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the terminal state of a navigation run.
type Outcome int

const (
	// OutcomeFailed means navigation could not produce a snapshot.
	OutcomeFailed Outcome = iota

	// OutcomeFound means a date element matching the target was observed.
	OutcomeFound

	// OutcomeExhausted means no further navigation affordance was available.
	// This is a normal stop, not an error.
	OutcomeExhausted
)

// String returns a lower-case name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SeedRun is the working state of one seed as it moves through the pipeline.
// Each pipeline step reads and updates it.
type SeedRun struct {
	// Seed is the input site entry.
	Seed Seed

	// Target is the run's target date.
	Target Date

	// Outcome is how navigation stopped.
	Outcome Outcome

	// NavigationSteps counts pages fetched, scrolls, or clicks performed.
	NavigationSteps int

	// Snapshot is the document navigation stopped on. Cleared after link collection.
	Snapshot *Snapshot

	// Links are the deduplicated absolute links collected from Snapshot.
	Links []string

	// Reason explains an exhausted outcome (e.g. step limit reached). May be nil.
	Reason error

	// Err is the failure that stopped this seed, if any.
	Err error

	// PerformedSteps lists the pipeline steps that completed, in order.
	PerformedSteps []string

	// StartedAt and Duration measure the seed's pipeline.
	StartedAt time.Time
	Duration  time.Duration
}

// NewSeedRun creates a SeedRun for seed and target.
func NewSeedRun(seed Seed, target Date) *SeedRun {
	return &SeedRun{
		Seed:           seed,
		Target:         target,
		Outcome:        OutcomeFailed,
		PerformedSteps: make([]string, 0),
	}
}

// Failed reports whether the seed contributed nothing because of an error.
func (r *SeedRun) Failed() bool {
	return r.Err != nil
}

// ErrorMessage returns the failure message, or "" when the seed did not fail.
func (r *SeedRun) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// RunSummary describes a completed crawl run.
type RunSummary struct {
	ID          uuid.UUID
	Target      Date
	Seeds       int
	FailedSeeds int
	Links       int
	Records     int
	StartedAt   time.Time
	FinishedAt  time.Time
	OutputPath  string

	// SeedRuns holds per-seed results for reporting. Not persisted.
	SeedRuns []*SeedRun
}

// NewRunSummary starts a summary for a run targeting target.
func NewRunSummary(target Date, startedAt time.Time) *RunSummary {
	return &RunSummary{
		ID:        uuid.New(),
		Target:    target,
		StartedAt: startedAt,
	}
}

// Elapsed returns the run duration, or zero if the run has not finished.
func (s *RunSummary) Elapsed() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
