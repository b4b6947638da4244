package commands

import (
	"runtime"
	"runtime/debug"
	"time"

	"github.com/stakeline/stakeline/internal/config"
	"github.com/stakeline/stakeline/internal/oracle"
	"github.com/stakeline/stakeline/internal/staking"
	"github.com/stakeline/stakeline/internal/store"
	"github.com/stakeline/stakeline/internal/util"
)

// Global CLI flags
var (
	// ConfigPath is the path to the config file
	ConfigPath string
)

func loadConfig() (*config.Config, error) {
	path := ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return config.Load(path)
}

// buildManager wires the store, oracle and staking manager from config.
// The returned cleanup closes the oracle's RPC clients.
func buildManager(cfg *config.Config, opts ...staking.ManagerOption) (*staking.Manager, func(), error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, nil, err
	}

	st, err := store.NewJSONStore(cfg.StoreFile())
	if err != nil {
		return nil, nil, err
	}

	retry := util.DefaultRetryConfig()
	retry.MaxRetries = cfg.Oracle.MaxRetries
	bo := oracle.NewEthOracle(cfg.OracleNetworks(), cfg.Oracle.RequestsPerSecond, retry)

	manager := staking.NewManager(
		cfg.StakingPeriods(),
		cfg.StakeLimits(),
		st,
		bo,
		time.Duration(cfg.Staking.OracleTimeoutSecs)*time.Second,
		opts...,
	)
	return manager, bo.Close, nil
}

// Version information (set at build time)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the version string
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

// GetCommit returns the git commit
func GetCommit() string {
	if Commit != "unknown" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				if len(setting.Value) > 8 {
					return setting.Value[:8]
				}
				return setting.Value
			}
		}
	}
	return "unknown"
}

// GetGoVersion returns the Go version
func GetGoVersion() string {
	return runtime.Version()
}
