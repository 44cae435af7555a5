package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

var (
	ErrInvalidThreadCount = errors.New("config: mining.threads must be positive when mining is enabled")
	ErrMissingListenAddr  = errors.New("config: pool.listen_addr must be set when the pool is enabled")
)

// Config represents the mining node configuration.
type Config struct {
	NodeID   string `json:"node_id"`
	DataDir  string `json:"data_dir"`
	LogLevel string `json:"log_level"`

	Mining   MiningConfig   `json:"mining"`
	Pool     PoolConfig     `json:"pool"`
	Reward   RewardConfig   `json:"reward"`
	Database DatabaseConfig `json:"database"`
	Metrics  MetricsConfig  `json:"metrics"`
}

// MiningConfig contains local CPU-worker settings.
type MiningConfig struct {
	Enabled      bool   `json:"enabled"`
	MinerAddress string `json:"miner_address"`
	Threads      int    `json:"threads"`
	ExtraData    string `json:"extra_data"`
	PoolMode     bool   `json:"pool_mode"`
	PoolAddr     string `json:"pool_addr"`
}

// PoolConfig contains Stratum-like pool server settings.
type PoolConfig struct {
	Enabled          bool     `json:"enabled"`
	ListenAddr       string   `json:"listen_addr"`
	JWTSecret        string   `json:"jwt_secret"`
	MinShareTarget   string   `json:"min_share_target"` // hex-encoded 32-byte target floor
	CORSOrigins      []string `json:"cors_origins"`
	MaxWorkersPerJWT int      `json:"max_workers_per_jwt"`

	MinDifficulty        uint64  `json:"min_difficulty"`
	MaxDifficulty        uint64  `json:"max_difficulty"`
	VarDiffTargetPerMin  float64 `json:"vardiff_target_shares_per_min"`
	VarDiffRetargetSecs  int     `json:"vardiff_retarget_secs"`
	PoolFee              float64 `json:"pool_fee"`
	JobIntervalSecs      int     `json:"job_interval_secs"`
}

// RewardConfig contains block reward schedule settings.
type RewardConfig struct {
	BaseReward    uint64 `json:"base_reward"`
	HalvingBlocks uint64 `json:"halving_blocks"`
	MinReward     uint64 `json:"min_reward"`
}

// DatabaseConfig contains share/block persistence settings.
type DatabaseConfig struct {
	DSN             string `json:"dsn"` // postgres connection string
	MaxOpenConns    int    `json:"max_open_conns"`
	MigrationsPath  string `json:"migrations_path"`
}

// MetricsConfig contains Prometheus exporter settings.
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		NodeID:   "",
		DataDir:  "./data",
		LogLevel: "info",
		Mining: MiningConfig{
			Enabled:      false,
			MinerAddress: "",
			Threads:      1,
			ExtraData:    "",
			PoolMode:     false,
			PoolAddr:     "",
		},
		Pool: PoolConfig{
			Enabled:             false,
			ListenAddr:          "0.0.0.0:3333",
			CORSOrigins:         []string{"*"},
			MaxWorkersPerJWT:    16,
			MinDifficulty:       1,
			MaxDifficulty:       1 << 20,
			VarDiffTargetPerMin: 20,
			VarDiffRetargetSecs: 60,
			PoolFee:             0.01,
			JobIntervalSecs:     30,
		},
		Reward: RewardConfig{
			BaseReward:    10 * 1e8,
			HalvingBlocks: 2100000,
			MinReward:     1e6,
		},
		Database: DatabaseConfig{
			DSN:            "",
			MaxOpenConns:   10,
			MigrationsPath: "./internal/storage/migrations",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    "127.0.0.1:9100",
		},
	}
}

// LoadConfig loads configuration from a file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves configuration to a file.
func (c *Config) SaveConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Mining.Enabled && c.Mining.Threads <= 0 {
		return ErrInvalidThreadCount
	}
	if c.Pool.Enabled && c.Pool.ListenAddr == "" {
		return ErrMissingListenAddr
	}
	return nil
}

// GetDataPath returns the full path for a data subdirectory.
func (c *Config) GetDataPath(subdir string) string {
	return filepath.Join(c.DataDir, subdir)
}
