package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/sjurajpuchky/cgminer/internal/config"
	"github.com/sjurajpuchky/cgminer/internal/crypto"
	"github.com/sjurajpuchky/cgminer/internal/miner"
)

func main() {
	flags := config.ParseFlags()
	flags.HandleExit()

	fmt.Println("⛏️  Starting SupraDrive CPU Miner...")

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

	if cfg.Mining.Threads <= 0 {
		cfg.Mining.Threads = runtime.NumCPU()
	}

	payoutAddress := cfg.Mining.MinerAddress
	if payoutAddress == "" {
		wallet, err := crypto.NewPayoutWallet("miner")
		if err != nil {
			log.Fatalf("Failed to generate payout wallet: %v", err)
		}
		payoutAddress = wallet.Address()
		fmt.Printf("   Generated payout address: %s\n", payoutAddress)
	}

	if err := crypto.ValidateAddress(payoutAddress); err != nil {
		log.Fatalf("Invalid payout address %q: %v", payoutAddress, err)
	}

	fmt.Printf("   Threads: %d\n", cfg.Mining.Threads)
	fmt.Printf("   Payout address: %s\n", crypto.ShortAddress(payoutAddress))

	metrics := miner.NewMetrics()

	workers := make([]*miner.Worker, cfg.Mining.Threads)
	for i := range workers {
		workers[i] = miner.NewWorker(i, math.MaxUint32)
		workers[i].SetMetrics(metrics)
	}

	jobManager := miner.NewJobManager(func(job *miner.Job) {
		for _, w := range workers {
			w.SetJob(job)
		}
	})

	onFound := func(job *miner.Job, nonce uint32, hash [32]byte) {
		fmt.Printf("✅ Candidate found: job=%s nonce=%d\n", job.ID, nonce)
		if !jobManager.ValidateWork(&miner.WorkResult{JobID: job.ID, Nonce: nonce}) {
			log.Printf("Candidate failed re-validation, discarding")
			return
		}
		metrics.BlocksFound.Inc()
		fmt.Printf("🎉 Block found at height %d! nonce=%d\n", job.Height, nonce)
	}

	for _, w := range workers {
		go w.Run(onFound)
	}

	template := miner.NewBlockTemplate(0, make([]byte, 32), []byte(cfg.Mining.ExtraData), 1, []byte(payoutAddress))
	jobManager.CreateJob(template)

	fmt.Println("\n========================================")
	fmt.Println("   SupraDrive Miner Running")
	fmt.Println("========================================")
	fmt.Printf("   Threads: %d\n", len(workers))
	fmt.Println("========================================")
	fmt.Println("\nPress Ctrl+C to stop mining...")

	reportTicker := time.NewTicker(10 * time.Second)
	defer reportTicker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lastSample := make([]uint32, len(workers))
	lastSampleAt := time.Now()

	for {
		select {
		case <-reportTicker.C:
			now := time.Now()
			elapsed := now.Sub(lastSampleAt).Seconds()
			for i, w := range workers {
				nonce := w.LastNonce()
				if elapsed > 0 && nonce >= lastSample[i] {
					metrics.ObserveHashrate(w.ID(), float64(nonce-lastSample[i])/elapsed)
				}
				lastSample[i] = nonce
			}
			lastSampleAt = now
			fmt.Printf("   ... mining (current job: %s)\n", jobManager.GetCurrentJob().ID)
		case <-sigChan:
			fmt.Println("\n🛑 Shutting down SupraDrive Miner...")
			for _, w := range workers {
				w.Stop()
			}
			fmt.Println("✅ Miner stopped successfully")
			return
		}
	}
}
