package domain

import (
	"slices"
	"time"
)

// JournalEntry is a single sobriety check-in: the mood of the day, the
// situational triggers in play, and free-form notes.
type JournalEntry struct {
	Tracked
	// OwnerID is the user the entry belongs to. Immutable after creation.
	OwnerID string `json:"owner_id"`
	// OccurredAt is the instant the entry pertains to. Defaults to creation
	// time but is user-editable (backdating a missed check-in is fine).
	OccurredAt time.Time `json:"occurred_at"`
	Mood       Mood      `json:"mood"`
	Triggers   []string  `json:"triggers,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

// HasTrigger reports whether the entry carries the given trigger.
func (e *JournalEntry) HasTrigger(trigger string) bool {
	return slices.Contains(e.Triggers, trigger)
}

// ToggleTrigger adds the trigger if absent and removes it if present.
// Triggers behave as a set: toggling twice restores the original state.
func (e *JournalEntry) ToggleTrigger(trigger string) {
	if i := slices.Index(e.Triggers, trigger); i >= 0 {
		e.Triggers = slices.Delete(e.Triggers, i, i+1)
		return
	}
	e.Triggers = append(e.Triggers, trigger)
}

// Clone returns a deep copy of the entry. The triggers slice is copied so
// draft edits never leak into the stored record.
func (e *JournalEntry) Clone() *JournalEntry {
	clone := *e
	clone.Triggers = slices.Clone(e.Triggers)
	if e.DeletedAt != nil {
		deletedAt := *e.DeletedAt
		clone.DeletedAt = &deletedAt
	}
	return &clone
}

// EntryPatch carries a partial update for an existing entry. Nil fields are
// left unchanged; OwnerID and ID are never patchable.
type EntryPatch struct {
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
	Mood       *Mood      `json:"mood,omitempty"`
	Triggers   *[]string  `json:"triggers,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

// Apply writes the non-nil patch fields onto the entry and bumps UpdatedAt.
func (p EntryPatch) Apply(e *JournalEntry) {
	if p.OccurredAt != nil {
		e.OccurredAt = *p.OccurredAt
	}
	if p.Mood != nil {
		e.Mood = *p.Mood
	}
	if p.Triggers != nil {
		e.Triggers = slices.Clone(*p.Triggers)
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	e.Touch()
}
