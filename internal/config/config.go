// Package config loads and validates the stakeline daemon configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/stakeline/stakeline/internal/oracle"
	"github.com/stakeline/stakeline/pkg/types"
)

// Config represents the complete daemon configuration
type Config struct {
	Daemon   DaemonConfig             `yaml:"daemon"`
	Staking  StakingConfig            `yaml:"staking"`
	Oracle   OracleConfig             `yaml:"oracle"`
	Metrics  MetricsConfig            `yaml:"metrics"`
	Networks map[string]NetworkConfig `yaml:"networks"`
}

// DaemonConfig contains daemon settings
type DaemonConfig struct {
	DataDir   string `yaml:"data_dir"`
	StorePath string `yaml:"store_path"` // stake store file, relative to data_dir if not absolute
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // "json" or "text"
}

// StakingConfig contains the period table and eligibility limits.
// Decimal values are carried as strings in yaml and parsed on load,
// so config files stay precise for fractional amounts.
type StakingConfig struct {
	Periods           []PeriodConfig    `yaml:"periods"`
	MinAmounts        map[string]string `yaml:"min_amounts"`
	DefaultMinAmount  string            `yaml:"default_min_amount"`
	MaxActiveStakes   int               `yaml:"max_active_stakes"`
	EarlyPenalty      string            `yaml:"early_withdrawal_penalty"`
	SweepIntervalSecs int               `yaml:"sweep_interval_secs"`
	OracleTimeoutSecs int               `yaml:"oracle_timeout_secs"`
}

// PeriodConfig defines one staking period in the config file.
type PeriodConfig struct {
	Key    string `yaml:"key"`
	Months int    `yaml:"months"`
	Rate   string `yaml:"rate"` // annual rate percent
	Days   int    `yaml:"days"`
}

// OracleConfig contains balance oracle settings.
type OracleConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	MaxRetries        int     `yaml:"max_retries"`
}

// MetricsConfig contains the Prometheus exposition settings.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// NetworkConfig describes one supported network.
type NetworkConfig struct {
	Name           string `yaml:"name"`
	RPCURL         string `yaml:"rpc_url"`
	NativeAsset    string `yaml:"native_asset"`
	NativeDecimals int    `yaml:"native_decimals"`
	USDTContract   string `yaml:"usdt_contract,omitempty"`
	USDTDecimals   int    `yaml:"usdt_decimals,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Daemon: DaemonConfig{
			DataDir:   "~/.stakeline",
			StorePath: "stakes.json",
			LogLevel:  "info",
			LogFormat: "json",
		},
		Staking: StakingConfig{
			Periods: []PeriodConfig{
				{Key: "1_month", Months: 1, Rate: "16", Days: 30},
				{Key: "3_months", Months: 3, Rate: "18", Days: 90},
				{Key: "6_months", Months: 6, Rate: "20", Days: 180},
				{Key: "9_months", Months: 9, Rate: "22", Days: 270},
			},
			MinAmounts:        map[string]string{"USDT": "1.0"},
			DefaultMinAmount:  "0.01",
			MaxActiveStakes:   10,
			EarlyPenalty:      "0.5",
			SweepIntervalSecs: 60,
			OracleTimeoutSecs: 10,
		},
		Oracle: OracleConfig{
			RequestsPerSecond: 10,
			MaxRetries:        3,
		},
		Metrics: MetricsConfig{
			Enabled:    true,
			ListenAddr: "127.0.0.1:9190",
		},
		Networks: map[string]NetworkConfig{
			"ETH": {
				Name:           "Ethereum",
				RPCURL:         "https://eth.llamarpc.com",
				NativeAsset:    "ETH",
				NativeDecimals: 18,
				USDTContract:   "0xdAC17F958D2ee523a2206206994597C13D831ec7",
				USDTDecimals:   6,
			},
			"BNB": {
				Name:           "Binance Smart Chain",
				RPCURL:         "https://bsc-dataseed.binance.org",
				NativeAsset:    "BNB",
				NativeDecimals: 18,
			},
			"POL": {
				Name:           "Polygon",
				RPCURL:         "https://polygon-rpc.com",
				NativeAsset:    "POL",
				NativeDecimals: 18,
			},
			"AVAX": {
				Name:           "Avalanche",
				RPCURL:         "https://api.avax.network/ext/bc/C/rpc",
				NativeAsset:    "AVAX",
				NativeDecimals: 18,
			},
		},
	}
}

// Load reads configuration from a YAML file, applying defaults for any
// missing sections.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(expandPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			config.expandPaths()
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.expandPaths()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the configuration to a YAML file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if len(c.Staking.Periods) == 0 {
		return fmt.Errorf("staking: at least one period is required")
	}

	seen := make(map[string]bool, len(c.Staking.Periods))
	for _, p := range c.Staking.Periods {
		if p.Key == "" {
			return fmt.Errorf("staking: period key must not be empty")
		}
		if seen[p.Key] {
			return fmt.Errorf("staking: duplicate period key %q", p.Key)
		}
		seen[p.Key] = true

		if p.Days <= 0 {
			return fmt.Errorf("staking: period %q days must be positive", p.Key)
		}
		rate, err := decimal.NewFromString(p.Rate)
		if err != nil {
			return fmt.Errorf("staking: period %q has invalid rate %q", p.Key, p.Rate)
		}
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("staking: period %q rate must be in [0, 100]", p.Key)
		}
	}

	if c.Staking.MaxActiveStakes <= 0 {
		return fmt.Errorf("staking: max_active_stakes must be positive")
	}

	penalty, err := decimal.NewFromString(c.Staking.EarlyPenalty)
	if err != nil {
		return fmt.Errorf("staking: invalid early_withdrawal_penalty %q", c.Staking.EarlyPenalty)
	}
	if penalty.IsNegative() || penalty.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("staking: early_withdrawal_penalty must be in [0, 1]")
	}

	if _, err := decimal.NewFromString(c.Staking.DefaultMinAmount); err != nil {
		return fmt.Errorf("staking: invalid default_min_amount %q", c.Staking.DefaultMinAmount)
	}
	for asset, min := range c.Staking.MinAmounts {
		if _, err := decimal.NewFromString(min); err != nil {
			return fmt.Errorf("staking: invalid min_amount for %s: %q", asset, min)
		}
	}

	if c.Staking.SweepIntervalSecs <= 0 {
		return fmt.Errorf("staking: sweep_interval_secs must be positive")
	}
	if c.Staking.OracleTimeoutSecs <= 0 {
		return fmt.Errorf("staking: oracle_timeout_secs must be positive")
	}

	for key, n := range c.Networks {
		if n.RPCURL == "" {
			return fmt.Errorf("networks: %s rpc_url must not be empty", key)
		}
		if n.NativeAsset == "" {
			return fmt.Errorf("networks: %s native_asset must not be empty", key)
		}
	}

	return nil
}

// StakingPeriods converts the configured period table to engine types.
// Call Validate first; invalid rates fall back to zero here.
func (c *Config) StakingPeriods() []types.StakingPeriod {
	periods := make([]types.StakingPeriod, 0, len(c.Staking.Periods))
	for _, p := range c.Staking.Periods {
		rate, err := decimal.NewFromString(p.Rate)
		if err != nil {
			rate = decimal.Zero
		}
		periods = append(periods, types.StakingPeriod{
			Key:               p.Key,
			Months:            p.Months,
			AnnualRatePercent: rate,
			Days:              p.Days,
		})
	}
	return periods
}

// StakeLimits converts the configured limits to engine types.
func (c *Config) StakeLimits() types.StakeLimits {
	limits := types.StakeLimits{
		MinAmountByAsset:       make(map[string]decimal.Decimal, len(c.Staking.MinAmounts)),
		MaxActiveStakesPerUser: c.Staking.MaxActiveStakes,
	}
	if min, err := decimal.NewFromString(c.Staking.DefaultMinAmount); err == nil {
		limits.DefaultMinAmount = min
	}
	if penalty, err := decimal.NewFromString(c.Staking.EarlyPenalty); err == nil {
		limits.EarlyWithdrawalPenalty = penalty
	}
	for asset, min := range c.Staking.MinAmounts {
		if v, err := decimal.NewFromString(min); err == nil {
			limits.MinAmountByAsset[asset] = v
		}
	}
	return limits
}

// OracleNetworks converts the configured network table to oracle types.
func (c *Config) OracleNetworks() map[string]oracle.NetworkConfig {
	networks := make(map[string]oracle.NetworkConfig, len(c.Networks))
	for key, n := range c.Networks {
		networks[strings.ToUpper(key)] = oracle.NetworkConfig{
			RPCURL:         n.RPCURL,
			NativeAsset:    n.NativeAsset,
			NativeDecimals: n.NativeDecimals,
			USDTContract:   n.USDTContract,
			USDTDecimals:   n.USDTDecimals,
		}
	}
	return networks
}

// StoreFile returns the absolute path of the stake store file.
func (c *Config) StoreFile() string {
	if filepath.IsAbs(c.Daemon.StorePath) {
		return c.Daemon.StorePath
	}
	return filepath.Join(c.Daemon.DataDir, c.Daemon.StorePath)
}

// EnsureDirectories creates the data directory if it does not exist.
func (c *Config) EnsureDirectories() error {
	return os.MkdirAll(c.Daemon.DataDir, 0700)
}

func (c *Config) expandPaths() {
	c.Daemon.DataDir = expandPath(c.Daemon.DataDir)
	c.Daemon.StorePath = expandPath(c.Daemon.StorePath)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return expandPath("~/.stakeline/config.yaml")
}
