// Package stageflow implements the stage-tracking pattern shared by
// order-like entities across the platform: an entity is always in exactly one
// current stage, every stage change is recorded in an append-only trail, and
// legal changes are described by a static transition table.
//
// The package is deliberately tiny. Entities embed a Track and supply their
// own stage vocabulary and Transitions table.
package stageflow

import (
	"fmt"
	"time"
)

// Entry is one row of the audit trail.
type Entry[S ~string] struct {
	Stage     S
	EnteredAt time.Time
	Actor     string
	Note      string
	Current   bool
}

// Transitions maps each stage to the stages it may advance to.
type Transitions[S ~string] map[S][]S

// Allowed reports whether from→to is a legal advance.
func (t Transitions[S]) Allowed(from, to S) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Track is the ordered trail of stage entries. The zero value is an empty
// track with no current stage.
type Track[S ~string] struct {
	Entries []Entry[S]
}

// Start returns a track whose first and current entry is the given stage.
func Start[S ~string](stage S, at time.Time, actor, note string) Track[S] {
	return Track[S]{Entries: []Entry[S]{{
		Stage:     stage,
		EnteredAt: at,
		Actor:     actor,
		Note:      note,
		Current:   true,
	}}}
}

// Current returns the current stage, if any.
func (t Track[S]) Current() (S, bool) {
	for i := len(t.Entries) - 1; i >= 0; i-- {
		if t.Entries[i].Current {
			return t.Entries[i].Stage, true
		}
	}
	var zero S
	return zero, false
}

// Advance validates the change against the transition table and returns the
// new track plus the appended entry. The receiver is not mutated; entries are
// copied so tracks can be shared safely.
func (t Track[S]) Advance(allowed Transitions[S], stage S, at time.Time, actor, note string) (Track[S], Entry[S], error) {
	cur, ok := t.Current()
	if !ok {
		return Track[S]{}, Entry[S]{}, fmt.Errorf("advance to %q: track has no current stage", string(stage))
	}
	if !allowed.Allowed(cur, stage) {
		return Track[S]{}, Entry[S]{}, fmt.Errorf("illegal stage transition %q -> %q", string(cur), string(stage))
	}

	out := Track[S]{Entries: make([]Entry[S], 0, len(t.Entries)+1)}
	for _, e := range t.Entries {
		e.Current = false
		out.Entries = append(out.Entries, e)
	}
	entry := Entry[S]{Stage: stage, EnteredAt: at, Actor: actor, Note: note, Current: true}
	out.Entries = append(out.Entries, entry)
	return out, entry, nil
}
