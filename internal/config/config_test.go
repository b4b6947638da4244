package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if got := len(cfg.Staking.Periods); got != 4 {
		t.Errorf("expected 4 default periods, got %d", got)
	}
	if cfg.Staking.MaxActiveStakes != 10 {
		t.Errorf("expected max_active_stakes 10, got %d", cfg.Staking.MaxActiveStakes)
	}
	if cfg.Staking.EarlyPenalty != "0.5" {
		t.Errorf("expected early penalty 0.5, got %q", cfg.Staking.EarlyPenalty)
	}
	if _, ok := cfg.Networks["ETH"]; !ok {
		t.Error("expected default ETH network")
	}
	if cfg.Networks["ETH"].USDTContract == "" {
		t.Error("expected USDT contract on ETH network")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if len(cfg.Staking.Periods) != 4 {
		t.Errorf("expected default periods, got %d", len(cfg.Staking.Periods))
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Daemon.LogLevel = "debug"
	cfg.Staking.MaxActiveStakes = 5
	cfg.Staking.MinAmounts["BTC"] = "0.001"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Daemon.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", loaded.Daemon.LogLevel)
	}
	if loaded.Staking.MaxActiveStakes != 5 {
		t.Errorf("expected max 5, got %d", loaded.Staking.MaxActiveStakes)
	}
	if loaded.Staking.MinAmounts["BTC"] != "0.001" {
		t.Errorf("expected BTC min 0.001, got %q", loaded.Staking.MinAmounts["BTC"])
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := []byte("daemon:\n  log_level: warn\n")
	if err := os.WriteFile(path, partial, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Daemon.LogLevel != "warn" {
		t.Errorf("expected log level warn, got %q", cfg.Daemon.LogLevel)
	}
	if cfg.Staking.MaxActiveStakes != 10 {
		t.Errorf("expected default max stakes, got %d", cfg.Staking.MaxActiveStakes)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no periods", func(c *Config) { c.Staking.Periods = nil }},
		{"empty period key", func(c *Config) { c.Staking.Periods[0].Key = "" }},
		{"duplicate period key", func(c *Config) { c.Staking.Periods[1].Key = c.Staking.Periods[0].Key }},
		{"zero days", func(c *Config) { c.Staking.Periods[0].Days = 0 }},
		{"bad rate", func(c *Config) { c.Staking.Periods[0].Rate = "sixteen" }},
		{"rate over 100", func(c *Config) { c.Staking.Periods[0].Rate = "101" }},
		{"zero max stakes", func(c *Config) { c.Staking.MaxActiveStakes = 0 }},
		{"bad penalty", func(c *Config) { c.Staking.EarlyPenalty = "half" }},
		{"penalty over 1", func(c *Config) { c.Staking.EarlyPenalty = "1.5" }},
		{"bad default min", func(c *Config) { c.Staking.DefaultMinAmount = "" }},
		{"bad asset min", func(c *Config) { c.Staking.MinAmounts["USDT"] = "x" }},
		{"zero sweep interval", func(c *Config) { c.Staking.SweepIntervalSecs = 0 }},
		{"zero oracle timeout", func(c *Config) { c.Staking.OracleTimeoutSecs = 0 }},
		{"empty rpc url", func(c *Config) {
			n := c.Networks["ETH"]
			n.RPCURL = ""
			c.Networks["ETH"] = n
		}},
		{"empty native asset", func(c *Config) {
			n := c.Networks["ETH"]
			n.NativeAsset = ""
			c.Networks["ETH"] = n
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestStakingPeriodsConversion(t *testing.T) {
	periods := DefaultConfig().StakingPeriods()
	if len(periods) != 4 {
		t.Fatalf("expected 4 periods, got %d", len(periods))
	}
	if periods[0].Key != "1_month" || periods[0].Days != 30 {
		t.Errorf("unexpected first period: %+v", periods[0])
	}
	if !periods[0].AnnualRatePercent.Equal(decimal.NewFromInt(16)) {
		t.Errorf("expected 16%% rate, got %s", periods[0].AnnualRatePercent)
	}
	if !periods[3].AnnualRatePercent.Equal(decimal.NewFromInt(22)) {
		t.Errorf("expected 22%% rate, got %s", periods[3].AnnualRatePercent)
	}
}

func TestStakeLimitsConversion(t *testing.T) {
	limits := DefaultConfig().StakeLimits()
	if limits.MaxActiveStakesPerUser != 10 {
		t.Errorf("expected max 10, got %d", limits.MaxActiveStakesPerUser)
	}
	if !limits.EarlyWithdrawalPenalty.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("expected penalty 0.5, got %s", limits.EarlyWithdrawalPenalty)
	}
	if !limits.MinAmount("USDT").Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected USDT min 1, got %s", limits.MinAmount("USDT"))
	}
	if !limits.MinAmount("ETH").Equal(decimal.NewFromFloat(0.01)) {
		t.Errorf("expected ETH min 0.01, got %s", limits.MinAmount("ETH"))
	}
}

func TestOracleNetworksConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Networks["eth2"] = NetworkConfig{Name: "Test", RPCURL: "http://x", NativeAsset: "ETH", NativeDecimals: 18}

	networks := cfg.OracleNetworks()
	if _, ok := networks["ETH2"]; !ok {
		t.Error("expected network keys upper-cased")
	}
	eth := networks["ETH"]
	if eth.USDTContract == "" || eth.USDTDecimals != 6 {
		t.Errorf("expected USDT wiring on ETH, got %+v", eth)
	}
}

func TestStoreFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Daemon.DataDir = "/var/lib/stakeline"
	cfg.Daemon.StorePath = "stakes.json"
	if got := cfg.StoreFile(); got != "/var/lib/stakeline/stakes.json" {
		t.Errorf("unexpected store file: %s", got)
	}

	cfg.Daemon.StorePath = "/tmp/s.json"
	if got := cfg.StoreFile(); got != "/tmp/s.json" {
		t.Errorf("absolute store path should win, got %s", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/foo"); got != filepath.Join(home, "foo") {
		t.Errorf("expected home expansion, got %s", got)
	}
	if got := expandPath("/abs/foo"); got != "/abs/foo" {
		t.Errorf("absolute path should pass through, got %s", got)
	}
}
