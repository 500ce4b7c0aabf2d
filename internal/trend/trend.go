// Package trend turns a set of journal entries into chartable series:
// mood ordinals and per-trigger presence over a day, week, or month window.
package trend

import (
	"fmt"
	"slices"

	"time"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
	domainerrors "github.com/OnelioViera/drinking-app-v1/internal/errors"
)

// Window selects how far back the aggregation looks.
type Window string

const (
	// WindowDay covers the current local calendar date.
	WindowDay Window = "day"
	// WindowWeek covers the last 7 days, rolling.
	WindowWeek Window = "week"
	// WindowMonth covers the last 30 days, rolling.
	WindowMonth Window = "month"
)

// ParseWindow validates a window string. Empty defaults to WindowWeek.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case "":
		return WindowWeek, nil
	case WindowDay, WindowWeek, WindowMonth:
		return Window(s), nil
	default:
		return "", domainerrors.Validationf("window must be one of day, week, month")
	}
}

// Series holds positionally aligned chart data: Labels[i], Mood[i], and every
// Triggers[name][i] describe the same entry. Trigger series are binary, one
// per distinct trigger observed in the window.
type Series struct {
	Labels   []string         `json:"labels"`
	Mood     []int            `json:"mood"`
	Triggers map[string][]int `json:"triggers"`
}

// FilterByWindow returns the entries falling inside the window relative to
// now. Day means the same local calendar date as now; week and month are
// rolling 7x24h and 30x24h cutoffs. Soft-deleted entries are excluded.
func FilterByWindow(entries []*domain.JournalEntry, window Window, now time.Time) []*domain.JournalEntry {
	var keep func(t time.Time) bool
	switch window {
	case WindowDay:
		y, m, d := now.Date()
		keep = func(t time.Time) bool {
			ty, tm, td := t.In(now.Location()).Date()
			return ty == y && tm == m && td == d
		}
	case WindowMonth:
		cutoff := now.Add(-30 * 24 * time.Hour)
		keep = func(t time.Time) bool { return !t.Before(cutoff) }
	default: // WindowWeek
		cutoff := now.Add(-7 * 24 * time.Hour)
		keep = func(t time.Time) bool { return !t.Before(cutoff) }
	}

	filtered := make([]*domain.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDeleted() {
			continue
		}
		if keep(e.OccurredAt) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Project sorts the entries ascending by OccurredAt and builds the aligned
// series. Charts read left to right, oldest first.
func Project(entries []*domain.JournalEntry) *Series {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b *domain.JournalEntry) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})

	series := &Series{
		Labels:   make([]string, 0, len(sorted)),
		Mood:     make([]int, 0, len(sorted)),
		Triggers: make(map[string][]int),
	}

	// Collect the distinct triggers first so every series spans all entries.
	for _, e := range sorted {
		for _, trigger := range e.Triggers {
			if _, ok := series.Triggers[trigger]; !ok {
				series.Triggers[trigger] = make([]int, 0, len(sorted))
			}
		}
	}

	for _, e := range sorted {
		series.Labels = append(series.Labels, formatLabel(e.OccurredAt))
		series.Mood = append(series.Mood, e.Mood.Ordinal())

		for trigger := range series.Triggers {
			present := 0
			if e.HasTrigger(trigger) {
				present = 1
			}
			series.Triggers[trigger] = append(series.Triggers[trigger], present)
		}
	}

	return series
}

// Aggregate filters and projects in one step.
func Aggregate(entries []*domain.JournalEntry, window Window, now time.Time) *Series {
	return Project(FilterByWindow(entries, window, now))
}

func formatLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", t.Month().String()[:3], t.Day())
}
