package journal

import (
	"context"
	"time"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
	domainerrors "github.com/OnelioViera/drinking-app-v1/internal/errors"
)

// Mode is the form's editing state.
type Mode int

const (
	// ModeCreating composes a brand new entry.
	ModeCreating Mode = iota
	// ModeEditing edits an existing entry, identified by its view index.
	ModeEditing
)

// Draft holds the in-progress form fields.
type Draft struct {
	OccurredAt time.Time
	Mood       domain.Mood
	Triggers   []string
	Notes      string
}

// Form drives the entry composer: select a mood, toggle triggers, type
// notes, save. BeginEdit switches it onto an existing entry; a failed save
// keeps both the mode and the draft so nothing the user typed is lost.
type Form struct {
	client *Client

	mode      Mode
	editIndex int
	editID    string
	draft     Draft

	// onEditBegin fires when editing starts, so the UI can scroll the form
	// into view.
	onEditBegin func(index int)
}

// NewForm creates a form bound to the client. The edit callback may be nil.
func NewForm(client *Client, onEditBegin func(index int)) *Form {
	return &Form{client: client, onEditBegin: onEditBegin}
}

// Mode returns the current editing state.
func (f *Form) Mode() Mode {
	return f.mode
}

// EditIndex returns the view index being edited, or -1 when creating.
func (f *Form) EditIndex() int {
	if f.mode != ModeEditing {
		return -1
	}
	return f.editIndex
}

// Draft returns a copy of the current draft.
func (f *Form) Draft() Draft {
	d := f.draft
	d.Triggers = append([]string(nil), f.draft.Triggers...)
	return d
}

// SelectMood sets the draft's mood.
func (f *Form) SelectMood(mood domain.Mood) {
	f.draft.Mood = mood
}

// ToggleTrigger flips a trigger in the draft. Toggling twice is a no-op.
func (f *Form) ToggleTrigger(trigger string) {
	scratch := domain.JournalEntry{Triggers: f.draft.Triggers}
	scratch.ToggleTrigger(trigger)
	f.draft.Triggers = scratch.Triggers
}

// SetNotes sets the draft's notes.
func (f *Form) SetNotes(notes string) {
	f.draft.Notes = notes
}

// SetOccurredAt backdates or re-dates the draft.
func (f *Form) SetOccurredAt(t time.Time) {
	f.draft.OccurredAt = t
}

// BeginEdit loads the entry at the given view index into the draft and
// switches to editing mode. Out-of-range indexes are rejected.
func (f *Form) BeginEdit(index int) error {
	entry := f.client.Entry(index)
	if entry == nil {
		return domainerrors.NotFoundf("no entry at index %d", index)
	}

	f.mode = ModeEditing
	f.editIndex = index
	f.editID = entry.ID
	f.draft = Draft{
		OccurredAt: entry.OccurredAt,
		Mood:       entry.Mood,
		Triggers:   entry.Triggers,
		Notes:      entry.Notes,
	}

	if f.onEditBegin != nil {
		f.onEditBegin(index)
	}
	return nil
}

// CancelEdit drops the draft and returns to creating a fresh entry.
func (f *Form) CancelEdit() {
	f.mode = ModeCreating
	f.editIndex = 0
	f.editID = ""
	f.draft = Draft{}
}

// Save validates the draft and pushes it through the client. On success the
// form resets to a blank creating state; on failure both the mode and the
// draft are left exactly as they were.
func (f *Form) Save(ctx context.Context) (*domain.JournalEntry, error) {
	if !f.draft.Mood.Valid() {
		return nil, domainerrors.Validation("select a mood before saving")
	}

	occurredAt := f.draft.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	entry := &domain.JournalEntry{
		OccurredAt: occurredAt,
		Mood:       f.draft.Mood,
		Triggers:   append([]string(nil), f.draft.Triggers...),
		Notes:      f.draft.Notes,
	}

	var (
		saved *domain.JournalEntry
		err   error
	)
	if f.mode == ModeEditing {
		entry.ID = f.editID
		saved, err = f.client.Update(ctx, entry)
	} else {
		saved, err = f.client.Create(ctx, entry)
	}
	if err != nil {
		return nil, err
	}

	f.CancelEdit()
	return saved, nil
}
