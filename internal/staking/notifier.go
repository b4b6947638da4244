package staking

import (
	"github.com/stakeline/stakeline/internal/logging"
	"github.com/stakeline/stakeline/pkg/types"
)

// Notifier receives stake lifecycle events for downstream logging or
// messaging. Implementations must not block; the manager calls them
// synchronously after the transition has been persisted.
type Notifier interface {
	StakeCreated(stake *types.Stake)
	StakeCompleted(stake *types.Stake)
	StakeEarlyWithdrawn(stake *types.Stake, result *WithdrawalResult)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) StakeCreated(*types.Stake)                           {}
func (NopNotifier) StakeCompleted(*types.Stake)                         {}
func (NopNotifier) StakeEarlyWithdrawn(*types.Stake, *WithdrawalResult) {}

// LogNotifier writes lifecycle events to the structured log.
type LogNotifier struct{}

func (LogNotifier) StakeCreated(stake *types.Stake) {
	logging.Info("stake created",
		logging.UserID(stake.UserID),
		logging.StakeID(stake.ID),
		logging.Asset(stake.Asset),
		"principal", stake.Principal,
		"rate", stake.AnnualRatePercent,
		"end_time", stake.EndTime,
	)
}

func (LogNotifier) StakeCompleted(stake *types.Stake) {
	logging.Info("stake completed",
		logging.UserID(stake.UserID),
		logging.StakeID(stake.ID),
		logging.Asset(stake.Asset),
		"reward", stake.AccruedReward,
	)
}

func (LogNotifier) StakeEarlyWithdrawn(stake *types.Stake, result *WithdrawalResult) {
	logging.Info("stake early withdrawn",
		logging.UserID(stake.UserID),
		logging.StakeID(stake.ID),
		logging.Asset(stake.Asset),
		"gross_reward", result.GrossReward,
		"penalty", result.Penalty,
		"payout", result.Payout,
	)
}
