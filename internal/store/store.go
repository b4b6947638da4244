// Package store provides durable keyed storage for stake records.
package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/stakeline/stakeline/pkg/types"
)

// Common errors
var (
	// ErrNotFound is returned when a stake id does not exist
	ErrNotFound = errors.New("stake not found")
	// ErrStatusConflict is returned when a compare-and-set status update
	// observes a stored status different from the expected one
	ErrStatusConflict = errors.New("stake status conflict")
)

// Store is durable keyed storage for stake records. Implementations must
// assign process-unique ids at creation and enforce compare-and-set
// semantics on status updates: the transition succeeds only if the stored
// status still equals the expected prior status.
type Store interface {
	// Create persists a new stake, assigns its id and returns the stored copy.
	Create(ctx context.Context, stake *types.Stake) (*types.Stake, error)

	// GetByID returns the stake with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*types.Stake, error)

	// GetByUser returns all stakes owned by the user, any status.
	GetByUser(ctx context.Context, userID int64) ([]*types.Stake, error)

	// ListActive returns all stakes currently in the active status.
	ListActive(ctx context.Context) ([]*types.Stake, error)

	// UpdateStatus transitions the stake from the expected prior status to
	// the new status and persists the accrued reward in the same write.
	// Returns ErrStatusConflict if the stored status differs from `from`.
	UpdateStatus(ctx context.Context, id string, from, to types.StakeStatus, accrued decimal.Decimal) error
}
