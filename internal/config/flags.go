package config

import (
	"flag"
	"fmt"
	"os"
)

// Flags represents command-line flags shared by cmd/miner and cmd/pool.
type Flags struct {
	ConfigFile string
	DataDir    string
	LogLevel   string
	Version    bool
	Help       bool

	MiningEnabled bool
	MinerAddress  string
	MiningThreads int
	PoolAddr      string

	PoolListenAddr string
	JWTSecret      string

	DatabaseDSN string

	MetricsEnabled bool
	MetricsAddr    string
}

// ParseFlags parses command-line flags.
func ParseFlags() *Flags {
	f := &Flags{}

	flag.StringVar(&f.ConfigFile, "config", "", "Path to configuration file")
	flag.StringVar(&f.DataDir, "datadir", "./data", "Data directory path")
	flag.StringVar(&f.LogLevel, "loglevel", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&f.Version, "version", false, "Print version and exit")
	flag.BoolVar(&f.Help, "help", false, "Print help and exit")

	flag.BoolVar(&f.MiningEnabled, "mine", false, "Enable mining")
	flag.StringVar(&f.MinerAddress, "miner", "", "Miner address for rewards")
	flag.IntVar(&f.MiningThreads, "threads", 1, "Number of mining threads")
	flag.StringVar(&f.PoolAddr, "pool", "", "Pool address to connect to")

	flag.StringVar(&f.PoolListenAddr, "listen", "0.0.0.0:3333", "Pool server listen address")
	flag.StringVar(&f.JWTSecret, "jwtsecret", "", "JWT signing secret for worker auth")

	flag.StringVar(&f.DatabaseDSN, "dsn", "", "Postgres connection string")

	flag.BoolVar(&f.MetricsEnabled, "metrics", true, "Enable Prometheus metrics")
	flag.StringVar(&f.MetricsAddr, "metricsaddr", "127.0.0.1:9100", "Metrics listen address")

	flag.Parse()

	return f
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Println("SupraDrive Mining Node")
	fmt.Println("Version: 0.1.0")
}

// PrintUsage prints usage information.
func PrintUsage() {
	fmt.Println("Usage: cgminer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  cgminer --mine --miner sd1... --threads 4")
	fmt.Println("  cgminer --listen 0.0.0.0:3333 --jwtsecret ... --dsn postgres://...")
}

// ApplyToConfig applies flags to a configuration.
func (f *Flags) ApplyToConfig(c *Config) {
	if f.DataDir != "" {
		c.DataDir = f.DataDir
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}

	c.Mining.Enabled = f.MiningEnabled
	if f.MinerAddress != "" {
		c.Mining.MinerAddress = f.MinerAddress
	}
	if f.MiningThreads > 0 {
		c.Mining.Threads = f.MiningThreads
	}
	if f.PoolAddr != "" {
		c.Mining.PoolMode = true
		c.Mining.PoolAddr = f.PoolAddr
	}

	if f.PoolListenAddr != "" {
		c.Pool.ListenAddr = f.PoolListenAddr
	}
	if f.JWTSecret != "" {
		c.Pool.JWTSecret = f.JWTSecret
	}

	if f.DatabaseDSN != "" {
		c.Database.DSN = f.DatabaseDSN
	}

	c.Metrics.Enabled = f.MetricsEnabled
	if f.MetricsAddr != "" {
		c.Metrics.Addr = f.MetricsAddr
	}
}

// Validate validates the flags.
func (f *Flags) Validate() error {
	if f.MiningEnabled && f.MinerAddress == "" {
		return fmt.Errorf("miner address required when mining is enabled")
	}
	return nil
}

// HandleExit handles version and help flags.
func (f *Flags) HandleExit() {
	if f.Version {
		PrintVersion()
		os.Exit(0)
	}
	if f.Help {
		PrintUsage()
		os.Exit(0)
	}
}
