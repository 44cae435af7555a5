// Package reward implements block reward calculation and payout
// distribution, adapted from the teacher's validator/miner split down
// to a miner-only payout: this repository has no validator set for a
// share of the reward to go to.
package reward

import (
	"errors"
	"sync"
	"time"
)

// Distributor calculates the block reward at a given height and
// records payouts as blocks are found.
type Distributor struct {
	mu sync.RWMutex

	baseReward       uint64
	halving          uint64 // blocks between halvings
	minReward        uint64
	totalDistributed uint64
	lastHeight       uint64
}

// Config configures a Distributor.
type Config struct {
	BaseReward    uint64 `json:"base_reward"`
	HalvingBlocks uint64 `json:"halving_blocks"`
	MinReward     uint64 `json:"min_reward"`
}

// DefaultConfig returns a reasonable default halving schedule.
func DefaultConfig() *Config {
	return &Config{
		BaseReward:    10 * 1e8, // 10 coin units, 8 decimal places
		HalvingBlocks: 2100000,
		MinReward:     1e6,
	}
}

// NewDistributor creates a Distributor. A nil config uses DefaultConfig.
func NewDistributor(config *Config) *Distributor {
	if config == nil {
		config = DefaultConfig()
	}

	return &Distributor{
		baseReward: config.BaseReward,
		halving:    config.HalvingBlocks,
		minReward:  config.MinReward,
	}
}

// CalculateBlockReward returns the subsidy for a block found at height.
func (d *Distributor) CalculateBlockReward(height uint64) uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	halvings := height / d.halving
	reward := d.baseReward

	for i := uint64(0); i < halvings && reward > d.minReward; i++ {
		reward /= 2
	}

	if reward < d.minReward {
		reward = d.minReward
	}

	return reward
}

// Payout is the full payout owed to the miner that found a block.
type Payout struct {
	Height      uint64 `json:"height"`
	BlockReward uint64 `json:"block_reward"`
	Fees        uint64 `json:"fees"`
	TotalReward uint64 `json:"total_reward"`
	Address     string `json:"address"`
	BlockHash   string `json:"block_hash"`
	Timestamp   int64  `json:"timestamp"`
}

// DistributeReward computes the payout for a found block and records
// it against the running total. The entire reward goes to address —
// there is no validator share to carve out.
func (d *Distributor) DistributeReward(height uint64, fees uint64, address, blockHash string) *Payout {
	blockReward := d.CalculateBlockReward(height)
	total := blockReward + fees

	d.mu.Lock()
	defer d.mu.Unlock()

	d.totalDistributed += total
	d.lastHeight = height

	return &Payout{
		Height:      height,
		BlockReward: blockReward,
		Fees:        fees,
		TotalReward: total,
		Address:     address,
		BlockHash:   blockHash,
		Timestamp:   time.Now().Unix(),
	}
}

// TotalDistributed returns the cumulative reward paid out so far.
func (d *Distributor) TotalDistributed() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.totalDistributed
}

// NextHalving returns the height of the next halving after currentHeight.
func (d *Distributor) NextHalving(currentHeight uint64) uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	current := currentHeight / d.halving
	return (current + 1) * d.halving
}

// EstimatedSupply estimates total coin supply at height, by summing
// the reward schedule rather than tracking every block individually.
func (d *Distributor) EstimatedSupply(height uint64) uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var supply uint64
	reward := d.baseReward

	for h := uint64(0); h < height; {
		blocksUntilHalving := d.halving - (h % d.halving)
		blocksToCount := blocksUntilHalving
		if h+blocksToCount > height {
			blocksToCount = height - h
		}

		supply += reward * blocksToCount
		h += blocksToCount

		if h%d.halving == 0 && reward > d.minReward {
			reward /= 2
		}
	}

	return supply
}

// Stats summarizes the distributor's state at a given height.
type Stats struct {
	TotalDistributed uint64 `json:"total_distributed"`
	CurrentReward    uint64 `json:"current_reward"`
	NextHalving      uint64 `json:"next_halving"`
	EstimatedSupply  uint64 `json:"estimated_supply"`
}

// GetStats returns a Stats snapshot.
func (d *Distributor) GetStats(height uint64) *Stats {
	return &Stats{
		TotalDistributed: d.TotalDistributed(),
		CurrentReward:    d.CalculateBlockReward(height),
		NextHalving:      d.NextHalving(height),
		EstimatedSupply:  d.EstimatedSupply(height),
	}
}

// ErrInvalidAddress is returned by callers that validate the payout
// address before calling DistributeReward.
var ErrInvalidAddress = errors.New("reward: payout address is invalid")
