package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/stakeline/stakeline/pkg/types"
)

// jsonFile is the on-disk layout of the stake store.
type jsonFile struct {
	Seq    int64                   `json:"seq"`
	Stakes map[string]*types.Stake `json:"stakes"`
}

// JSONStore persists stake records to a single JSON file. Every mutation is
// written to a temp file and renamed into place so a crash mid-write never
// leaves a torn store behind.
type JSONStore struct {
	mu       sync.RWMutex
	filePath string
	seq      int64
	stakes   map[string]*types.Stake
}

// NewJSONStore opens or creates the stake store at filePath.
func NewJSONStore(filePath string) (*JSONStore, error) {
	s := &JSONStore{
		filePath: filePath,
		stakes:   make(map[string]*types.Stake),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read stake store: %w", err)
	}

	var file jsonFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse stake store: %w", err)
	}

	s.seq = file.Seq
	if file.Stakes != nil {
		s.stakes = file.Stakes
	}
	return nil
}

func (s *JSONStore) saveLocked() error {
	data, err := json.MarshalIndent(jsonFile{Seq: s.seq, Stakes: s.stakes}, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath)
}

// Create persists a new stake and assigns the next id in sequence.
func (s *JSONStore) Create(_ context.Context, stake *types.Stake) (*types.Stake, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	stored := stake.Clone()
	stored.ID = fmt.Sprintf("stk-%06d", s.seq)
	s.stakes[stored.ID] = stored

	if err := s.saveLocked(); err != nil {
		// Roll back the in-memory view so it matches the last persisted state.
		delete(s.stakes, stored.ID)
		s.seq--
		return nil, err
	}
	return stored.Clone(), nil
}

// GetByID returns the stake with the given id, or ErrNotFound.
func (s *JSONStore) GetByID(_ context.Context, id string) (*types.Stake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stake, ok := s.stakes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return stake.Clone(), nil
}

// GetByUser returns all stakes owned by the user, oldest first.
func (s *JSONStore) GetByUser(_ context.Context, userID int64) ([]*types.Stake, error) {
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
func (s *JSONStore) ListActive(_ context.Context) ([]*types.Stake, error) {
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

// UpdateStatus transitions the stake with compare-and-set semantics and
// persists the accrued reward in the same write.
func (s *JSONStore) UpdateStatus(_ context.Context, id string, from, to types.StakeStatus, accrued decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stake, ok := s.stakes[id]
	if !ok {
		return ErrNotFound
	}
	if stake.Status != from {
		return ErrStatusConflict
	}

	prevStatus, prevReward := stake.Status, stake.AccruedReward
	stake.Status = to
	stake.AccruedReward = accrued

	if err := s.saveLocked(); err != nil {
		stake.Status = prevStatus
		stake.AccruedReward = prevReward
		return err
	}
	return nil
}

// sortByID orders stakes by their sequential id, which is creation order.
func sortByID(stakes []*types.Stake) {
	sort.Slice(stakes, func(i, j int) bool { return stakes[i].ID < stakes[j].ID })
}
