package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestStakeStatus_IsValid(t *testing.T) {
	valid := []StakeStatus{StakeStatusActive, StakeStatusCompleted, StakeStatusEarlyWithdrawn}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("status %q should be valid", s)
		}
	}

	if StakeStatus("pending").IsValid() {
		t.Error("unknown status should not be valid")
	}
	if StakeStatus("").IsValid() {
		t.Error("empty status should not be valid")
	}
}

func TestStakeStatus_Terminal(t *testing.T) {
	if StakeStatusActive.Terminal() {
		t.Error("active should not be terminal")
	}
	if !StakeStatusCompleted.Terminal() {
		t.Error("completed should be terminal")
	}
	if !StakeStatusEarlyWithdrawn.Terminal() {
		t.Error("early_withdrawn should be terminal")
	}
}

func TestDefaultStakingPeriods(t *testing.T) {
	periods := DefaultStakingPeriods()

	if len(periods) != 4 {
		t.Fatalf("expected 4 periods, got %d", len(periods))
	}

	want := []struct {
		key    string
		months int
		rate   int64
		days   int
	}{
		{"1_month", 1, 16, 30},
		{"3_months", 3, 18, 90},
		{"6_months", 6, 20, 180},
		{"9_months", 9, 22, 270},
	}

	for i, w := range want {
		p := periods[i]
		if p.Key != w.key {
			t.Errorf("period %d key: got %s, want %s", i, p.Key, w.key)
		}
		if p.Months != w.months {
			t.Errorf("period %s months: got %d, want %d", w.key, p.Months, w.months)
		}
		if !p.AnnualRatePercent.Equal(decimal.NewFromInt(w.rate)) {
			t.Errorf("period %s rate: got %s, want %d", w.key, p.AnnualRatePercent, w.rate)
		}
		if p.Days != w.days {
			t.Errorf("period %s days: got %d, want %d", w.key, p.Days, w.days)
		}
	}
}

func TestFindStakingPeriod(t *testing.T) {
	periods := DefaultStakingPeriods()

	p, ok := FindStakingPeriod(periods, "6_months")
	if !ok {
		t.Fatal("6_months should exist")
	}
	if p.Days != 180 {
		t.Errorf("6_months days: got %d, want 180", p.Days)
	}

	if _, ok := FindStakingPeriod(periods, "12_months"); ok {
		t.Error("12_months should not exist")
	}
}

func TestStakeLimits_MinAmount(t *testing.T) {
	limits := DefaultStakeLimits()

	if got := limits.MinAmount("USDT"); !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("USDT minimum: got %s, want 1", got)
	}
	if got := limits.MinAmount("ETH"); !got.Equal(decimal.NewFromFloat(0.01)) {
		t.Errorf("ETH minimum: got %s, want 0.01", got)
	}
	if limits.MaxActiveStakesPerUser != 10 {
		t.Errorf("max active stakes: got %d, want 10", limits.MaxActiveStakesPerUser)
	}
	if !limits.EarlyWithdrawalPenalty.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("penalty: got %s, want 0.5", limits.EarlyWithdrawalPenalty)
	}
}

func TestStake_TotalDays(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Stake{StartTime: start, EndTime: start.AddDate(0, 0, 90)}

	if got := s.TotalDays(); got != 90 {
		t.Errorf("total days: got %d, want 90", got)
	}
}

func TestStake_Clone(t *testing.T) {
	s := &Stake{ID: "stk-000001", Principal: decimal.NewFromInt(100), Status: StakeStatusActive}

	c := s.Clone()
	c.Status = StakeStatusCompleted

	if s.Status != StakeStatusActive {
		t.Error("mutating clone should not affect original")
	}

	var nilStake *Stake
	if nilStake.Clone() != nil {
		t.Error("clone of nil should be nil")
	}
}
