package article

import (
	"time"
)

// Candidate kinds map to the backend post types.

type Kind string

const (
	KindNews  Kind = "NEWS"
	KindEvent Kind = "EVENT"
)

// Candidate is a scraped article as handed over by a crawler source.
// It is immutable once created; the pipeline consumes it exactly once.
type Candidate struct {
	Title       string
	Content     string
	Source      string
	URL         string
	PublishedAt *time.Time
	Kind        Kind
}

type Verdict string

const (
	VerdictAccept Verdict = "ACCEPT"
	VerdictReject Verdict = "REJECT"
)

// Classification is the relevance decision for a candidate. Derived
// deterministically from title and content text, never persisted.
type Classification struct {
	Verdict  Verdict
	Summary  string
	Keywords []string
	Reason   string
}

func (c Classification) Accepted() bool {
	return c.Verdict == VerdictAccept
}
