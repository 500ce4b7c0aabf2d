package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
	"github.com/OnelioViera/drinking-app-v1/internal/store"
)

// PeriodNotifier is told when a user's sobriety period changes, so
// connected clients can refresh their counters.
type PeriodNotifier interface {
	PeriodChanged(ownerID string)
}

// PeriodService manages each user's single sobriety period.
type PeriodService struct {
	store    *store.Store
	notifier PeriodNotifier
	logger   *slog.Logger
}

// NewPeriodService creates a new period service.
func NewPeriodService(st *store.Store, logger *slog.Logger) *PeriodService {
	return &PeriodService{store: st, logger: logger}
}

// SetNotifier wires change notifications. Optional.
func (s *PeriodService) SetNotifier(n PeriodNotifier) {
	s.notifier = n
}

func (s *PeriodService) notifyChanged(ownerID string) {
	if s.notifier != nil {
		s.notifier.PeriodChanged(ownerID)
	}
}

// StartRequest contains the optional start instant for a sobriety period.
// A zero StartedAt means "now".
type StartRequest struct {
	StartedAt time.Time `json:"started_at"`
}

// Get returns the user's sobriety period, or store.ErrPeriodNotFound if
// tracking has not started.
func (s *PeriodService) Get(ctx context.Context, ownerID string) (*domain.SobrietyPeriod, error) {
	return s.store.GetPeriod(ctx, ownerID)
}

// Start begins tracking for the user. Starting when a period already exists
// overwrites the start instant but keeps the reset count, so repeated starts
// are not a way to hide resets.
func (s *PeriodService) Start(ctx context.Context, ownerID string, req StartRequest) (*domain.SobrietyPeriod, error) {
	startedAt := req.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	period, err := s.store.GetPeriod(ctx, ownerID)
	if err != nil {
		period = domain.NewSobrietyPeriod(ownerID, startedAt)
	} else {
		period.StartedAt = startedAt
		period.UpdatedAt = time.Now()
	}

	if err := s.store.SetPeriod(ctx, period); err != nil {
		return nil, fmt.Errorf("set period: %w", err)
	}

	s.notifyChanged(ownerID)

	if s.logger != nil {
		s.logger.Info("Sobriety period started", "user_id", ownerID, "started_at", period.StartedAt)
	}

	return period, nil
}

// Reset restarts the period from the given instant (or now) and increments
// the reset count. Resetting before tracking started begins a fresh period.
func (s *PeriodService) Reset(ctx context.Context, ownerID string, req StartRequest) (*domain.SobrietyPeriod, error) {
	startedAt := req.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	period, err := s.store.GetPeriod(ctx, ownerID)
	if err != nil {
		period = domain.NewSobrietyPeriod(ownerID, startedAt)
	} else {
		period.Reset(startedAt)
	}

	if err := s.store.SetPeriod(ctx, period); err != nil {
		return nil, fmt.Errorf("set period: %w", err)
	}

	s.notifyChanged(ownerID)

	if s.logger != nil {
		s.logger.Info("Sobriety period reset", "user_id", ownerID, "reset_count", period.ResetCount)
	}

	return period, nil
}
