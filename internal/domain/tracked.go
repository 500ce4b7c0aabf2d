package domain

import "time"

// Tracked provides common identity and lifecycle fields for stored records.
// Soft deletion is modeled as a timestamp: a nil DeletedAt means the record
// is live, a non-nil one means it is hidden from standard listings but still
// fetchable by ID.
type Tracked struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the underlying record changes.
func (t *Tracked) Touch() {
	t.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new record.
func (t *Tracked) InitTimestamps() {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
}

// IsDeleted returns true if this record has been soft-deleted.
func (t *Tracked) IsDeleted() bool {
	return t.DeletedAt != nil
}

// MarkDeleted soft-deletes the record by setting DeletedAt to now.
// UpdatedAt is bumped too so the deletion is visible to delta readers.
func (t *Tracked) MarkDeleted() {
	now := time.Now()
	t.DeletedAt = &now
	t.UpdatedAt = now
}
