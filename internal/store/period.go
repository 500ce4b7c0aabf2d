package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
)

const periodPrefix = "period:"

func periodKey(ownerID string) []byte {
	return []byte(periodPrefix + ownerID)
}

// GetPeriod returns the owner's sobriety period, or ErrPeriodNotFound if
// tracking was never started.
func (s *Store) GetPeriod(ctx context.Context, ownerID string) (*domain.SobrietyPeriod, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var period domain.SobrietyPeriod
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(periodKey(ownerID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrPeriodNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &period)
		})
	})
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// SetPeriod writes the owner's sobriety period. Each owner has exactly one,
// so writes always overwrite.
func (s *Store) SetPeriod(ctx context.Context, period *domain.SobrietyPeriod) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(period)
	if err != nil {
		return fmt.Errorf("marshal period: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(periodKey(period.OwnerID), data)
	})
}
