package staking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"

	"github.com/stakeline/stakeline/internal/logging"
	"github.com/stakeline/stakeline/internal/metrics"
	"github.com/stakeline/stakeline/internal/oracle"
	"github.com/stakeline/stakeline/internal/store"
	"github.com/stakeline/stakeline/pkg/types"
)

// CreateResult is returned from a successful stake creation.
type CreateResult struct {
	Stake *types.Stake
	// ExpectedReward is the full-term reward projected at creation time.
	ExpectedReward decimal.Decimal
}

// WithdrawalResult is returned from a successful early withdrawal. The
// gross (pre-penalty) reward is what gets persisted so the penalty amount
// stays auditable; the payout is derived, not stored.
type WithdrawalResult struct {
	Principal   decimal.Decimal
	GrossReward decimal.Decimal
	Penalty     decimal.Decimal
	Payout      decimal.Decimal
}

// StakeView is a live-annotated read-side snapshot of one stake.
type StakeView struct {
	Stake          *types.Stake
	CurrentReward  decimal.Decimal
	DaysRemaining  int
	PenaltyPreview decimal.Decimal
}

// UserSummary aggregates a user's active stakes.
type UserSummary struct {
	ActiveStakes    int
	TotalPrincipal  decimal.Decimal
	TotalReward     decimal.Decimal
	MaxActiveStakes int
}

// ManagerOption configures optional manager collaborators.
type ManagerOption func(*Manager)

// WithNotifier sets the lifecycle event notifier.
func WithNotifier(n Notifier) ManagerOption {
	return func(m *Manager) { m.notifier = n }
}

// WithMetrics sets the metrics registry.
func WithMetrics(r *metrics.Registry) ManagerOption {
	return func(m *Manager) { m.metrics = r }
}

// WithClock sets the clock; tests use a mock to control time.
func WithClock(c clock.Clock) ManagerOption {
	return func(m *Manager) { m.clk = c }
}

// Manager owns the stake lifecycle state machine:
//
//	Active -> Completed       (natural maturity, via sweep)
//	Active -> EarlyWithdrawn  (user-initiated before maturity)
//
// Both terminal states are absorbing. The store is the single source of
// truth; the manager never caches mutable stake state across calls.
type Manager struct {
	periods   []types.StakingPeriod
	limits    types.StakeLimits
	store     store.Store
	validator *Validator
	clk       clock.Clock
	notifier  Notifier
	metrics   *metrics.Registry
	locks     *userLocks
}

// NewManager creates a staking manager over an immutable configuration.
// The period table and limits are copied at construction; later changes to
// the caller's values never affect the engine.
func NewManager(periods []types.StakingPeriod, limits types.StakeLimits, st store.Store, bo oracle.BalanceOracle, oracleTimeout time.Duration, opts ...ManagerOption) *Manager {
	m := &Manager{
		periods:  append([]types.StakingPeriod(nil), periods...),
		limits:   limits,
		store:    st,
		clk:      clock.New(),
		notifier: NopNotifier{},
		locks:    newUserLocks(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.validator = NewValidator(m.periods, m.limits, st, bo, oracleTimeout, m.metrics)
	return m
}

// StakingPeriods returns a copy of the static period table.
func (m *Manager) StakingPeriods() []types.StakingPeriod {
	return append([]types.StakingPeriod(nil), m.periods...)
}

// Limits returns the configured stake limits.
func (m *Manager) Limits() types.StakeLimits {
	return m.limits
}

// CreateStake validates the request and persists a new active stake.
// Creation is serialized per user so two concurrent creates cannot both
// pass validation against a balance that can only cover one.
func (m *Manager) CreateStake(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	unlock := m.locks.lock(req.UserID)
	defer unlock()

	period, err := m.validator.ValidateCreate(ctx, req)
	if err != nil {
		return nil, err
	}

	now := m.clk.Now()
	stake := &types.Stake{
		UserID:            req.UserID,
		WalletAddress:     req.WalletAddress,
		Network:           req.Network,
		Asset:             req.Asset,
		Principal:         req.Amount,
		AnnualRatePercent: period.AnnualRatePercent,
		StartTime:         now,
		EndTime:           now.AddDate(0, 0, period.Days),
		Status:            types.StakeStatusActive,
		AccruedReward:     decimal.Zero,
	}

	stored, err := m.store.Create(ctx, stake)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	m.metrics.RecordStakeCreated(stored.Asset)
	m.notifier.StakeCreated(stored.Clone())

	return &CreateResult{
		Stake:          stored,
		ExpectedReward: Reward(stored.Principal, stored.AnnualRatePercent, period.Days),
	}, nil
}

// EarlyWithdraw terminates an active stake before maturity. The accrued
// reward is computed up to now (clamped to the full term), the configured
// penalty fraction is taken from the reward only - never the principal -
// and the pre-penalty reward is persisted with the transition.
func (m *Manager) EarlyWithdraw(ctx context.Context, userID int64, stakeID string) (*WithdrawalResult, error) {
	unlock := m.locks.lock(userID)
	defer unlock()

	stake, err := m.store.GetByID(ctx, stakeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrStakeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if stake.UserID != userID {
		// Do not leak other users' stake ids.
		return nil, ErrStakeNotFound
	}
	if stake.Status != types.StakeStatusActive {
		return nil, ErrStakeNotActive
	}

	gross := m.currentReward(stake, m.clk.Now())
	penalty := gross.Mul(m.limits.EarlyWithdrawalPenalty)
	payout := gross.Sub(penalty)

	err = m.store.UpdateStatus(ctx, stake.ID, types.StakeStatusActive, types.StakeStatusEarlyWithdrawn, gross)
	if errors.Is(err, store.ErrStatusConflict) {
		return nil, ErrStakeNotActive
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	result := &WithdrawalResult{
		Principal:   stake.Principal,
		GrossReward: gross,
		Penalty:     penalty,
		Payout:      payout,
	}

	stake.Status = types.StakeStatusEarlyWithdrawn
	stake.AccruedReward = gross
	m.metrics.RecordEarlyWithdrawal(stake.Asset)
	m.notifier.StakeEarlyWithdrawn(stake, result)

	return result, nil
}

// RunExpirationSweep promotes every active stake past its end date to
// Completed in a single pass and returns the number transitioned. The
// compare-and-set transition makes the sweep idempotent: a stake already
// completed by a concurrent run or withdrawal is skipped, never re-credited.
func (m *Manager) RunExpirationSweep(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() { m.metrics.RecordSweep(time.Since(start)) }()

	active, err := m.store.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	now := m.clk.Now()
	completed := 0
	for _, stake := range active {
		if stake.EndTime.After(now) {
			continue
		}

		final := Reward(stake.Principal, stake.AnnualRatePercent, stake.TotalDays())
		err := m.store.UpdateStatus(ctx, stake.ID, types.StakeStatusActive, types.StakeStatusCompleted, final)
		if errors.Is(err, store.ErrStatusConflict) {
			// Lost the race to a withdrawal or another sweep.
			continue
		}
		if err != nil {
			return completed, fmt.Errorf("%w: %v", ErrStorage, err)
		}

		completed++
		stake.Status = types.StakeStatusCompleted
		stake.AccruedReward = final
		m.metrics.RecordStakeCompleted(stake.Asset)
		m.notifier.StakeCompleted(stake)
	}

	m.metrics.SetActiveStakes(len(active) - completed)
	if completed > 0 {
		logging.Debug("expiration sweep transitioned stakes", "completed", completed)
	}
	return completed, nil
}

// GetUserStakes returns live-annotated views of all the user's stakes.
// For an active stake the current reward is recomputed on demand; for a
// terminal stake the persisted accrued reward is authoritative.
func (m *Manager) GetUserStakes(ctx context.Context, userID int64) ([]StakeView, error) {
	stakes, err := m.store.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	now := m.clk.Now()
	views := make([]StakeView, 0, len(stakes))
	for _, stake := range stakes {
		views = append(views, m.view(stake, now))
	}
	return views, nil
}

// UserSummary aggregates the user's active stakes: count, total principal
// and total current (unrealized) reward. Pure read composition.
func (m *Manager) UserSummary(ctx context.Context, userID int64) (*UserSummary, error) {
	stakes, err := m.store.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	now := m.clk.Now()
	summary := &UserSummary{
		TotalPrincipal:  decimal.Zero,
		TotalReward:     decimal.Zero,
		MaxActiveStakes: m.limits.MaxActiveStakesPerUser,
	}
	for _, stake := range stakes {
		if stake.Status != types.StakeStatusActive {
			continue
		}
		summary.ActiveStakes++
		summary.TotalPrincipal = summary.TotalPrincipal.Add(stake.Principal)
		summary.TotalReward = summary.TotalReward.Add(m.currentReward(stake, now))
	}
	return summary, nil
}

func (m *Manager) view(stake *types.Stake, now time.Time) StakeView {
	if stake.Status.Terminal() {
		return StakeView{
			Stake:          stake,
			CurrentReward:  stake.AccruedReward,
			DaysRemaining:  0,
			PenaltyPreview: decimal.Zero,
		}
	}

	current := m.currentReward(stake, now)
	return StakeView{
		Stake:          stake,
		CurrentReward:  current,
		DaysRemaining:  elapsedDays(now, stake.EndTime),
		PenaltyPreview: current.Mul(m.limits.EarlyWithdrawalPenalty),
	}
}

// currentReward computes the reward accrued by an active stake up to now,
// clamped to the stake's full term.
func (m *Manager) currentReward(stake *types.Stake, now time.Time) decimal.Decimal {
	days := clampDays(elapsedDays(stake.StartTime, now), stake.TotalDays())
	return Reward(stake.Principal, stake.AnnualRatePercent, days)
}
