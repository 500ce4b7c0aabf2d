// Package search provides full-text search over journal entries using Bleve.
// Notes are matched with English stemming and typo tolerance; triggers and
// moods are exact-match filters.
package search

import (
	"github.com/OnelioViera/drinking-app-v1/internal/domain"
)

// EntryDocument is the index representation of a journal entry. Only live
// entries are indexed; soft-deleted entries are removed from the index so
// they can never surface in results.
type EntryDocument struct {
	ID       string   `json:"id"`
	OwnerID  string   `json:"owner_id"`
	Mood     string   `json:"mood"`
	Notes    string   `json:"notes,omitempty"`
	Triggers []string `json:"triggers,omitempty"`

	// Unix millis, for range filters and recency sorting.
	OccurredAt int64 `json:"occurred_at"`
	UpdatedAt  int64 `json:"updated_at"`
}

// FromEntry converts a journal entry to its index document.
func FromEntry(entry *domain.JournalEntry) *EntryDocument {
	return &EntryDocument{
		ID:         entry.ID,
		OwnerID:    entry.OwnerID,
		Mood:       string(entry.Mood),
		Notes:      entry.Notes,
		Triggers:   append([]string(nil), entry.Triggers...),
		OccurredAt: entry.OccurredAt.UnixMilli(),
		UpdatedAt:  entry.UpdatedAt.UnixMilli(),
	}
}

// ToMap converts the document to a map with lowercase field names. Bleve
// indexes Go struct field names verbatim, and the mapping uses lowercase
// names, so the conversion is explicit.
func (d *EntryDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":          d.ID,
		"owner_id":    d.OwnerID,
		"mood":        d.Mood,
		"occurred_at": d.OccurredAt,
		"updated_at":  d.UpdatedAt,
	}

	if d.Notes != "" {
		m["notes"] = d.Notes
	}
	if len(d.Triggers) > 0 {
		m["triggers"] = d.Triggers
	}

	return m
}
