package domain

import "time"

// SobrietyPeriod is the single per-user record of when the current sobriety
// streak began. It is replaced whole on reset, never partially updated.
type SobrietyPeriod struct {
	OwnerID   string    `json:"owner_id"`
	StartedAt time.Time `json:"started_at"`
	// ResetCount tracks how many times the period was overwritten.
	ResetCount int       `json:"reset_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewSobrietyPeriod creates a period starting at the given instant.
func NewSobrietyPeriod(ownerID string, startedAt time.Time) *SobrietyPeriod {
	now := time.Now()
	return &SobrietyPeriod{
		OwnerID:   ownerID,
		StartedAt: startedAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Reset replaces the start instant wholesale and bumps the reset count.
func (p *SobrietyPeriod) Reset(startedAt time.Time) {
	p.StartedAt = startedAt
	p.ResetCount++
	p.UpdatedAt = time.Now()
}
