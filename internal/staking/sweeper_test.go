package staking

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stakeline/stakeline/internal/oracle"
	"github.com/stakeline/stakeline/internal/store"
	"github.com/stakeline/stakeline/pkg/types"
)

func TestSweeper_RunOnce(t *testing.T) {
	e := newTestEngine(t)
	e.fund(testWallet, "ETH", "ETH", 100)

	result, err := e.manager.CreateStake(context.Background(), CreateRequest{
		UserID:        testUser,
		WalletAddress: testWallet,
		Network:       "ETH",
		Asset:         "ETH",
		Amount:        decimal.NewFromInt(10),
		PeriodKey:     "1_month",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	e.clock.Add(31 * 24 * time.Hour)

	sweeper := NewSweeper(e.manager, time.Minute)
	if !sweeper.LastRun().IsZero() {
		t.Error("last run should be zero before the first sweep")
	}

	if n := sweeper.RunOnce(context.Background()); n != 1 {
		t.Fatalf("run once: got %d, want 1", n)
	}
	if !sweeper.LastRun().Equal(e.clock.Now()) {
		t.Errorf("last run: got %v, want %v", sweeper.LastRun(), e.clock.Now())
	}

	stored, _ := e.store.GetByID(context.Background(), result.Stake.ID)
	if stored.Status != types.StakeStatusCompleted {
		t.Errorf("status after sweep: got %s, want completed", stored.Status)
	}
}

func TestSweeper_BackgroundLoop(t *testing.T) {
	// Real clock here: the loop's ticker and the test need to advance
	// together without coordinating on a mock.
	st := store.NewMemoryStore()
	bo := oracle.NewStaticOracle()
	mgr := NewManager(types.DefaultStakingPeriods(), types.DefaultStakeLimits(), st, bo, time.Second)

	start := time.Now().AddDate(0, 0, -31)
	seeded, err := st.Create(context.Background(), &types.Stake{
		UserID:            testUser,
		WalletAddress:     testWallet,
		Network:           "ETH",
		Asset:             "ETH",
		Principal:         decimal.NewFromInt(10),
		AnnualRatePercent: decimal.NewFromInt(16),
		StartTime:         start,
		EndTime:           start.AddDate(0, 0, 30),
		Status:            types.StakeStatusActive,
		AccruedReward:     decimal.Zero,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	sweeper := NewSweeper(mgr, 5*time.Millisecond)
	sweeper.Start()
	defer sweeper.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, err := st.GetByID(context.Background(), seeded.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Status == types.StakeStatusCompleted {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("background sweeper never completed the matured stake")
}

func TestSweeper_StartStopIdempotent(t *testing.T) {
	e := newTestEngine(t)
	sweeper := NewSweeper(e.manager, time.Minute)

	// Stop before start is a no-op.
	sweeper.Stop()

	sweeper.Start()
	sweeper.Start() // second start must not spawn a second loop
	sweeper.Stop()
	sweeper.Stop()
}

func TestSweeper_DefaultInterval(t *testing.T) {
	e := newTestEngine(t)
	s := NewSweeper(e.manager, 0)
	if s.interval != time.Minute {
		t.Errorf("default interval: got %v, want 1m", s.interval)
	}
}
