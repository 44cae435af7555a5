package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjurajpuchky/cgminer/internal/config"
	"github.com/sjurajpuchky/cgminer/internal/miner"
	"github.com/sjurajpuchky/cgminer/internal/reward"
	"github.com/sjurajpuchky/cgminer/internal/storage"
	"github.com/sjurajpuchky/cgminer/internal/util"
)

func main() {
	flags := config.ParseFlags()
	flags.HandleExit()

	fmt.Println("🏊 Starting SupraDrive Pool Server...")

	cfg := config.DefaultConfig()
	if flags.ConfigFile != "" {
		loaded, err := config.LoadConfig(flags.ConfigFile)
		if err != nil {
			log.Printf("Warning: could not load config, using defaults: %v", err)
		} else {
			cfg = loaded
		}
	}
	flags.ApplyToConfig(cfg)

	if cfg.Pool.JWTSecret == "" {
		log.Fatal("pool.jwt_secret must be set, via config file or --jwtsecret")
	}

	var store *storage.ShareStore
	if cfg.Database.DSN != "" {
		var err error
		store, err = storage.Open(cfg.Database.DSN, cfg.Database.MaxOpenConns)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer store.Close()

		if err := store.Migrate(cfg.Database.MigrationsPath); err != nil {
			log.Printf("Warning: migration failed: %v", err)
		}
		fmt.Println("✅ Share/block storage connected")
	} else {
		fmt.Println("⚠️  No database configured, shares will not be persisted")
	}

	rewards := reward.NewDistributor(&reward.Config{
		BaseReward:    cfg.Reward.BaseReward,
		HalvingBlocks: cfg.Reward.HalvingBlocks,
		MinReward:     cfg.Reward.MinReward,
	})

	jobManager := miner.NewJobManager(nil)
	submissions := miner.NewSubmissionHandler(jobManager, store, rewards)
	metrics := miner.NewMetrics()

	poolConfig := miner.PoolConfig{
		MinDifficulty:   cfg.Pool.MinDifficulty,
		MaxDifficulty:   cfg.Pool.MaxDifficulty,
		VarDiffTarget:   cfg.Pool.VarDiffTargetPerMin,
		VarDiffRetarget: time.Duration(cfg.Pool.VarDiffRetargetSecs) * time.Second,
		PoolFee:         cfg.Pool.PoolFee,
		JWTSecret:       cfg.Pool.JWTSecret,
	}

	pool := miner.NewPool(cfg.Pool.ListenAddr, poolConfig, submissions, metrics)

	var height uint64
	cutJob := func() {
		template := miner.NewBlockTemplate(height, make([]byte, 32), nil, cfg.Pool.MinDifficulty, nil)
		job := jobManager.CreateJob(template)
		pool.BroadcastJob(job)
		height++
	}
	cutJob()

	if cfg.Pool.JobIntervalSecs > 0 {
		jobTimer := util.NewJobTimer(time.Duration(cfg.Pool.JobIntervalSecs) * time.Second)
		jobTimer.Start(cutJob)
		defer jobTimer.Stop()
	}

	if cfg.Metrics.Enabled {
		go func() {
			gin.SetMode(gin.ReleaseMode)
			router := gin.New()
			router.GET("/metrics", gin.WrapH(miner.MetricsHandler()))
			fmt.Printf("✅ Metrics exporter started on %s\n", cfg.Metrics.Addr)
			if err := http.ListenAndServe(cfg.Metrics.Addr, router); err != nil {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	go func() {
		if err := pool.Start(); err != nil {
			log.Fatalf("Failed to start pool server: %v", err)
		}
	}()
	fmt.Printf("✅ Pool server started on %s\n", cfg.Pool.ListenAddr)

	fmt.Println("\n========================================")
	fmt.Println("   SupraDrive Pool Running")
	fmt.Println("========================================")
	fmt.Printf("   Listen: %s\n", cfg.Pool.ListenAddr)
	fmt.Printf("   Min difficulty: %d\n", cfg.Pool.MinDifficulty)
	fmt.Println("========================================")
	fmt.Println("\nPress Ctrl+C to stop the pool...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n🛑 Shutting down SupraDrive Pool...")
	pool.Stop()
	fmt.Println("✅ Pool stopped successfully")
}
