package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// StakeStatus is the lifecycle state of a stake. Transitions happen only
// through the staking manager; Completed and EarlyWithdrawn are terminal.
type StakeStatus string

const (
	// StakeStatusActive - stake is accruing reward
	StakeStatusActive StakeStatus = "active"
	// StakeStatusCompleted - stake reached its natural end date
	StakeStatusCompleted StakeStatus = "completed"
	// StakeStatusEarlyWithdrawn - stake was terminated before maturity
	StakeStatusEarlyWithdrawn StakeStatus = "early_withdrawn"
)

// IsValid checks if the stake status is valid
func (s StakeStatus) IsValid() bool {
	switch s {
	case StakeStatusActive, StakeStatusCompleted, StakeStatusEarlyWithdrawn:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status is absorbing (no further transitions).
func (s StakeStatus) Terminal() bool {
	return s == StakeStatusCompleted || s == StakeStatusEarlyWithdrawn
}

// StakingPeriod defines one fixed staking term. The table is immutable for
// the process lifetime; stakes copy the rate at creation so later config
// changes never alter existing positions.
type StakingPeriod struct {
	Key               string          `yaml:"key" json:"key"`
	Months            int             `yaml:"months" json:"months"`
	AnnualRatePercent decimal.Decimal `yaml:"-" json:"annual_rate_percent"`
	Days              int             `yaml:"days" json:"days"`
}

// DefaultStakingPeriods returns the canonical period table:
// 1/3/6/9 months at 16/18/20/22% annual simple interest.
func DefaultStakingPeriods() []StakingPeriod {
	return []StakingPeriod{
		{Key: "1_month", Months: 1, AnnualRatePercent: decimal.NewFromInt(16), Days: 30},
		{Key: "3_months", Months: 3, AnnualRatePercent: decimal.NewFromInt(18), Days: 90},
		{Key: "6_months", Months: 6, AnnualRatePercent: decimal.NewFromInt(20), Days: 180},
		{Key: "9_months", Months: 9, AnnualRatePercent: decimal.NewFromInt(22), Days: 270},
	}
}

// FindStakingPeriod looks up a period by key in the given table.
func FindStakingPeriod(periods []StakingPeriod, key string) (StakingPeriod, bool) {
	for _, p := range periods {
		if p.Key == key {
			return p, true
		}
	}
	return StakingPeriod{}, false
}

// StakeLimits defines process-wide eligibility limits for stake creation.
type StakeLimits struct {
	// MinAmountByAsset overrides the default minimum per asset symbol.
	MinAmountByAsset map[string]decimal.Decimal `json:"min_amount_by_asset"`
	// DefaultMinAmount applies to assets without an explicit minimum.
	DefaultMinAmount decimal.Decimal `json:"default_min_amount"`
	// MaxActiveStakesPerUser caps concurrent active stakes per user.
	MaxActiveStakesPerUser int `json:"max_active_stakes_per_user"`
	// EarlyWithdrawalPenalty is the fraction of the accrued reward (never
	// the principal) forfeited on early withdrawal. Must be in [0, 1].
	EarlyWithdrawalPenalty decimal.Decimal `json:"early_withdrawal_penalty"`
}

// DefaultStakeLimits returns the default limits: 0.01 minimum (1.0 for USDT),
// 10 active stakes per user, 50% penalty on accrued reward.
func DefaultStakeLimits() StakeLimits {
	return StakeLimits{
		MinAmountByAsset: map[string]decimal.Decimal{
			"USDT": decimal.NewFromInt(1),
		},
		DefaultMinAmount:       decimal.NewFromFloat(0.01),
		MaxActiveStakesPerUser: 10,
		EarlyWithdrawalPenalty: decimal.NewFromFloat(0.5),
	}
}

// MinAmount returns the minimum stake amount for the given asset.
func (l StakeLimits) MinAmount(asset string) decimal.Decimal {
	if min, ok := l.MinAmountByAsset[asset]; ok {
		return min
	}
	return l.DefaultMinAmount
}

// Stake is a user's time-bounded, interest-bearing position in one asset.
// The record is created by the staking manager after validation and is never
// physically deleted; terminal stakes remain as an audit trail.
type Stake struct {
	ID            string          `json:"id"`
	UserID        int64           `json:"user_id"`
	WalletAddress string          `json:"wallet_address"`
	Network       string          `json:"network"`
	Asset         string          `json:"asset"`
	Principal     decimal.Decimal `json:"principal"`
	// AnnualRatePercent is copied from the chosen period at creation time.
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	StartTime         time.Time       `json:"start_time"`
	EndTime           time.Time       `json:"end_time"`
	Status            StakeStatus     `json:"status"`
	// AccruedReward is authoritative only once Status is terminal; while
	// the stake is active it is recomputed on demand, never persisted.
	AccruedReward decimal.Decimal `json:"accrued_reward"`
}

// TotalDays returns the whole number of days in the stake's full term.
func (s *Stake) TotalDays() int {
	return int(s.EndTime.Sub(s.StartTime).Hours() / 24)
}

// Clone returns a copy of the stake so callers can't mutate stored state.
func (s *Stake) Clone() *Stake {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
