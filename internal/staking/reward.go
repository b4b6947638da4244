// Package staking implements the stake lifecycle and reward-accrual engine.
package staking

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
)

// Reward computes simple (non-compounding) interest:
//
//	principal × (annualRatePercent / 100) × (elapsedDays / 365)
//
// No rounding is performed; callers decide display precision. Reward is
// linear and monotonic in elapsed time, so partial accrual can never exceed
// the reward at a stake's natural end date once the caller clamps elapsed
// time to the stake's term.
func Reward(principal, annualRatePercent decimal.Decimal, elapsedDays int) decimal.Decimal {
	if elapsedDays <= 0 {
		return decimal.Zero
	}
	return principal.
		Mul(annualRatePercent).Div(hundred).
		Mul(decimal.NewFromInt(int64(elapsedDays))).Div(daysPerYear)
}

// elapsedDays returns the whole number of days from `from` to `to`,
// never negative.
func elapsedDays(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}

// clampDays caps elapsed days at the stake's total term so a stake past its
// end date accrues for exactly (endTime − startTime) days, never more.
func clampDays(elapsed, total int) int {
	if elapsed > total {
		return total
	}
	return elapsed
}
