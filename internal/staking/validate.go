package staking

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stakeline/stakeline/internal/metrics"
	"github.com/stakeline/stakeline/internal/oracle"
	"github.com/stakeline/stakeline/internal/store"
	"github.com/stakeline/stakeline/pkg/types"
)

// CreateRequest describes a proposed stake creation.
type CreateRequest struct {
	UserID        int64
	WalletAddress string
	Network       string
	Asset         string
	Amount        decimal.Decimal
	PeriodKey     string
}

// Validator decides, before any mutation, whether a proposed stake creation
// is allowed. All checks are side-effect-free; the first failure wins.
type Validator struct {
	periods       []types.StakingPeriod
	limits        types.StakeLimits
	store         store.Store
	oracle        oracle.BalanceOracle
	oracleTimeout time.Duration
	metrics       *metrics.Registry
}

// NewValidator creates a validator over an immutable period table and limit
// set. oracleTimeout bounds every balance oracle call.
func NewValidator(periods []types.StakingPeriod, limits types.StakeLimits, st store.Store, bo oracle.BalanceOracle, oracleTimeout time.Duration, reg *metrics.Registry) *Validator {
	if oracleTimeout <= 0 {
		oracleTimeout = 10 * time.Second
	}
	return &Validator{
		periods:       periods,
		limits:        limits,
		store:         st,
		oracle:        bo,
		oracleTimeout: oracleTimeout,
		metrics:       reg,
	}
}

// ValidateCreate runs the eligibility checks in order and returns the chosen
// period on success. Checks:
//
//  1. period key names a configured period
//  2. amount meets the asset minimum
//  3. user is under the active-stake limit
//  4. amount fits the balance still available after subtracting principal
//     already committed to active stakes on the same wallet+asset
//  5. no active stake already exists on the same wallet+asset
func (v *Validator) ValidateCreate(ctx context.Context, req CreateRequest) (types.StakingPeriod, error) {
	period, ok := types.FindStakingPeriod(v.periods, req.PeriodKey)
	if !ok {
		v.metrics.RecordValidationFailure("invalid_period")
		return types.StakingPeriod{}, InvalidPeriodError{Key: req.PeriodKey}
	}

	min := v.limits.MinAmount(req.Asset)
	if req.Amount.LessThan(min) {
		v.metrics.RecordValidationFailure("below_minimum")
		return types.StakingPeriod{}, BelowMinimumError{Asset: req.Asset, Minimum: min}
	}

	stakes, err := v.store.GetByUser(ctx, req.UserID)
	if err != nil {
		return types.StakingPeriod{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	committed := decimal.Zero
	activeCount := 0
	for _, s := range stakes {
		if s.Status != types.StakeStatusActive {
			continue
		}
		activeCount++
		if s.WalletAddress == req.WalletAddress && s.Asset == req.Asset {
			committed = committed.Add(s.Principal)
		}
	}

	if activeCount >= v.limits.MaxActiveStakesPerUser {
		v.metrics.RecordValidationFailure("limit_reached")
		return types.StakingPeriod{}, LimitReachedError{Limit: v.limits.MaxActiveStakesPerUser}
	}

	available, err := v.availableBalance(ctx, req, committed)
	if err != nil {
		return types.StakingPeriod{}, err
	}
	if req.Amount.GreaterThan(available) {
		v.metrics.RecordValidationFailure("insufficient_funds")
		return types.StakingPeriod{}, InsufficientFundsError{Asset: req.Asset, Available: available}
	}

	if committed.GreaterThan(decimal.Zero) {
		// The anti-double-count rule: one active stake per wallet+asset.
		v.metrics.RecordValidationFailure("duplicate_stake")
		return types.StakingPeriod{}, DuplicateStakeError{WalletAddress: req.WalletAddress, Asset: req.Asset}
	}

	return period, nil
}

// availableBalance asks the oracle for the raw chain balance and subtracts
// the principal already committed to active stakes on the same wallet+asset.
// The oracle reports the on-chain ledger balance, which knows nothing about
// funds locked in other stakes.
func (v *Validator) availableBalance(ctx context.Context, req CreateRequest, committed decimal.Decimal) (decimal.Decimal, error) {
	oracleCtx, cancel := context.WithTimeout(ctx, v.oracleTimeout)
	defer cancel()

	start := time.Now()
	balance, err := v.oracle.GetBalance(oracleCtx, req.WalletAddress, req.Network, req.Asset)
	v.metrics.RecordOracleRequest(req.Network, time.Since(start), err)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}

	return balance.Sub(committed), nil
}
