// Package metrics computes read-side totals from a plan's current item set.
// Everything here is pure: no persistence, no side effects, recomputed on
// demand from whatever aggregate state the caller holds.
package metrics

import "github.com/raghavn86/TaskBuddy/internal/domain"

// OwnerTotals aggregates the tasks attributed to one collaborator (or to
// nobody, for the unassigned group).
type OwnerTotals struct {
	Owner          string
	TaskCount      int
	CompletedCount int
	TotalMin       int
	RemainingMin   int
	TotalHours     float64
	RemainingHours float64
}

// Summary partitions a plan's tasks between the two collaborators and the
// unassigned pool.
type Summary struct {
	OwnerA     OwnerTotals
	OwnerB     OwnerTotals
	Unassigned OwnerTotals
}

// Project folds the given tasks into per-owner totals. Tasks assigned to an
// identifier that is neither ownerA nor ownerB count as unassigned; the
// engine treats collaborator identifiers as opaque strings and a stale
// assignee has no better home. Sections must not be passed in.
func Project(tasks []*domain.Item, ownerA, ownerB string) *Summary {
	s := &Summary{
		OwnerA: OwnerTotals{Owner: ownerA},
		OwnerB: OwnerTotals{Owner: ownerB},
	}
	for _, t := range tasks {
		var g *OwnerTotals
		switch {
		case ownerA != "" && t.Assignee == ownerA:
			g = &s.OwnerA
		case ownerB != "" && t.Assignee == ownerB:
			g = &s.OwnerB
		default:
			g = &s.Unassigned
		}
		g.TaskCount++
		g.TotalMin += t.DurationMin
		if t.Done {
			g.CompletedCount++
		} else {
			g.RemainingMin += t.DurationMin
		}
	}
	for _, g := range []*OwnerTotals{&s.OwnerA, &s.OwnerB, &s.Unassigned} {
		g.TotalHours = float64(g.TotalMin) / 60
		g.RemainingHours = float64(g.RemainingMin) / 60
	}
	return s
}
