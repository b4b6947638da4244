package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/stakeline/stakeline/pkg/types"
)

// MemoryStore is an in-memory Store with the same semantics as JSONStore.
// Used in tests and as a building block for callers that bring their own
// persistence.
type MemoryStore struct {
	mu     sync.RWMutex
	seq    int64
	stakes map[string]*types.Stake

	// FailNext, when set, makes the next mutating call fail with the given
	// error. Lets tests exercise storage-failure paths.
	FailNext error
}

// NewMemoryStore creates an empty in-memory stake store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{stakes: make(map[string]*types.Stake)}
}

func (s *MemoryStore) takeFailure() error {
	err := s.FailNext
	s.FailNext = nil
	return err
}

// Create persists a new stake and assigns the next id in sequence.
func (s *MemoryStore) Create(_ context.Context, stake *types.Stake) (*types.Stake, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	s.seq++
	stored := stake.Clone()
	stored.ID = fmt.Sprintf("stk-%06d", s.seq)
	s.stakes[stored.ID] = stored
	return stored.Clone(), nil
}

// GetByID returns the stake with the given id, or ErrNotFound.
func (s *MemoryStore) GetByID(_ context.Context, id string) (*types.Stake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stake, ok := s.stakes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return stake.Clone(), nil
}

// GetByUser returns all stakes owned by the user, oldest first.
func (s *MemoryStore) GetByUser(_ context.Context, userID int64) ([]*types.Stake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*types.Stake
	for _, stake := range s.stakes {
		if stake.UserID == userID {
			out = append(out, stake.Clone())
		}
	}
	sortByID(out)
	return out, nil
}

// ListActive returns all active stakes, oldest first.
func (s *MemoryStore) ListActive(_ context.Context) ([]*types.Stake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*types.Stake
	for _, stake := range s.stakes {
		if stake.Status == types.StakeStatusActive {
			out = append(out, stake.Clone())
		}
	}
	sortByID(out)
	return out, nil
}

// UpdateStatus transitions the stake with compare-and-set semantics.
func (s *MemoryStore) UpdateStatus(_ context.Context, id string, from, to types.StakeStatus, accrued decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}

	stake, ok := s.stakes[id]
	if !ok {
		return ErrNotFound
	}
	if stake.Status != from {
		return ErrStatusConflict
	}

	stake.Status = to
	stake.AccruedReward = accrued
	return nil
}
