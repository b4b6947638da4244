package staking

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	// ErrStakeNotFound is returned when a stake id does not exist or does
	// not belong to the calling user
	ErrStakeNotFound = errors.New("stake not found")
	// ErrStakeNotActive is returned when a lifecycle operation targets a
	// stake already in a terminal status
	ErrStakeNotActive = errors.New("stake is not active")
	// ErrOracleUnavailable is returned when the balance oracle fails or
	// times out; the caller should retry later
	ErrOracleUnavailable = errors.New("balance oracle unavailable")
	// ErrStorage wraps stake store failures; the caller should retry later
	ErrStorage = errors.New("stake storage error")
)

// InvalidPeriodError is returned when the requested period key does not
// name a configured staking period.
type InvalidPeriodError struct {
	Key string
}

func (e InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid staking period: %s", e.Key)
}

// BelowMinimumError is returned when the requested amount is below the
// configured minimum for the asset.
type BelowMinimumError struct {
	Asset   string
	Minimum decimal.Decimal
}

func (e BelowMinimumError) Error() string {
	return fmt.Sprintf("minimum staking amount for %s: %s", e.Asset, e.Minimum)
}

// LimitReachedError is returned when the user already holds the maximum
// number of active stakes.
type LimitReachedError struct {
	Limit int
}

func (e LimitReachedError) Error() string {
	return fmt.Sprintf("active stakes limit reached (%d)", e.Limit)
}

// DuplicateStakeError is returned when the user already has an active stake
// on the same wallet and asset.
type DuplicateStakeError struct {
	WalletAddress string
	Asset         string
}

func (e DuplicateStakeError) Error() string {
	return fmt.Sprintf("wallet %s already has an active %s stake", e.WalletAddress, e.Asset)
}

// InsufficientFundsError is returned when the requested amount exceeds the
// balance still available after subtracting already-committed principal.
type InsufficientFundsError struct {
	Asset     string
	Available decimal.Decimal
}

func (e InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient %s: available %s", e.Asset, e.Available)
}
