package application

import "time"

// Decision is one reviewer verdict.
type Decision struct {
	Approved   bool      `json:"approved"`
	Timestamp  time.Time `json:"timestamp"`
	Note       string    `json:"note,omitempty"`
	ReviewerID string    `json:"reviewer_id,omitempty"`
}

type Track string

const (
	TrackAdvisor Track = "advisor"
	TrackSks     Track = "sks"
)

// Ledger is the append-only decision history of an application lineage.
// There is deliberately no way to remove an entry.
type Ledger struct {
	AdvisorDecisions []Decision `json:"advisor_decisions"`
	SksDecisions     []Decision `json:"sks_decisions"`
}

// Append adds d to track unless an entry with the same timestamp already
// exists there. It reports whether the ledger grew.
func (l *Ledger) Append(track Track, d Decision) bool {
	entries := l.track(track)
	if entries == nil {
		return false
	}
	for _, e := range *entries {
		if e.Timestamp.Equal(d.Timestamp) {
			return false
		}
	}
	*entries = append(*entries, d)
	return true
}

// Has reports whether track already holds an entry stamped ts.
func (l Ledger) Has(track Track, ts time.Time) bool {
	for _, e := range l.Entries(track) {
		if e.Timestamp.Equal(ts) {
			return true
		}
	}
	return false
}

// CarryForward returns an independent copy for a forked revision.
func (l Ledger) CarryForward() Ledger {
	out := Ledger{
		AdvisorDecisions: make([]Decision, len(l.AdvisorDecisions)),
		SksDecisions:     make([]Decision, len(l.SksDecisions)),
	}
	copy(out.AdvisorDecisions, l.AdvisorDecisions)
	copy(out.SksDecisions, l.SksDecisions)
	return out
}

// Entries returns the decisions recorded on track, oldest first.
func (l Ledger) Entries(track Track) []Decision {
	switch track {
	case TrackAdvisor:
		return l.AdvisorDecisions
	case TrackSks:
		return l.SksDecisions
	}
	return nil
}

// HasPrefix reports whether every track of prefix is a prefix of the
// matching track in l.
func (l Ledger) HasPrefix(prefix Ledger) bool {
	return decisionsHavePrefix(l.AdvisorDecisions, prefix.AdvisorDecisions) &&
		decisionsHavePrefix(l.SksDecisions, prefix.SksDecisions)
}

func (l *Ledger) track(track Track) *[]Decision {
	switch track {
	case TrackAdvisor:
		return &l.AdvisorDecisions
	case TrackSks:
		return &l.SksDecisions
	}
	return nil
}

func decisionsHavePrefix(all, prefix []Decision) bool {
	if len(prefix) > len(all) {
		return false
	}
	for i := range prefix {
		a, p := all[i], prefix[i]
		if a.Approved != p.Approved || !a.Timestamp.Equal(p.Timestamp) || a.Note != p.Note || a.ReviewerID != p.ReviewerID {
			return false
		}
	}
	return true
}
