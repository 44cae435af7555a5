package miner

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/sjurajpuchky/cgminer/internal/reward"
	"github.com/sjurajpuchky/cgminer/internal/storage"
)

// Errors a submission can fail with.
var (
	ErrJobNotFound    = errors.New("job not found")
	ErrDuplicateShare = errors.New("duplicate share")
	ErrLowDifficulty  = errors.New("share difficulty too low")
	ErrStaleShare     = errors.New("stale share")
)

// SubmissionHandler is the collaborator spec.md §4.F's rationale
// names: the hot scan loop only applies the cheap trailing-word
// filter, so the full 256-bit target.MeetsTarget compare (via
// JobManager.ValidateWork) happens here, once per submitted share.
type SubmissionHandler struct {
	jobManager *JobManager
	store      *storage.ShareStore
	rewards    *reward.Distributor

	submissions map[string]map[uint32]bool
	subMu       sync.RWMutex

	stats   SubmissionStats
	statsMu sync.RWMutex
}

// SubmissionStats tallies submission outcomes.
type SubmissionStats struct {
	TotalSubmissions   uint64
	ValidShares        uint64
	InvalidShares      uint64
	StaleShares        uint64
	DuplicateShares    uint64
	BlocksFound        uint64
	LastSubmissionTime time.Time
}

// NewSubmissionHandler creates a handler. store and rewards may be nil
// in configurations that only need share validation (e.g. solo
// mining, where there is no pool database).
func NewSubmissionHandler(jm *JobManager, store *storage.ShareStore, rewards *reward.Distributor) *SubmissionHandler {
	return &SubmissionHandler{
		jobManager:  jm,
		store:       store,
		rewards:     rewards,
		submissions: make(map[string]map[uint32]bool),
	}
}

// ShareSubmission is a share as parsed off the wire.
type ShareSubmission struct {
	JobID      string
	Nonce      uint32
	Timestamp  uint64
	Difficulty uint64
	Address    string
}

// SubmissionResult is returned to the caller for every Submit call.
type SubmissionResult struct {
	Valid      bool
	IsBlock    bool
	Difficulty uint64
	Reason     string
}

// Submit validates submission's proof of work, rejects duplicates and
// stale jobs, and on a full block-level share persists it and
// triggers a reward payout.
func (sh *SubmissionHandler) Submit(minerID string, submission *ShareSubmission) (*SubmissionResult, error) {
	sh.statsMu.Lock()
	sh.stats.TotalSubmissions++
	sh.stats.LastSubmissionTime = time.Now()
	sh.statsMu.Unlock()

	job := sh.jobManager.GetJob(submission.JobID)
	if job == nil {
		sh.statsMu.Lock()
		sh.stats.StaleShares++
		sh.statsMu.Unlock()
		return nil, ErrJobNotFound
	}

	if sh.isDuplicate(submission.JobID, submission.Nonce) {
		sh.statsMu.Lock()
		sh.stats.DuplicateShares++
		sh.statsMu.Unlock()
		return nil, ErrDuplicateShare
	}
	sh.markSubmitted(submission.JobID, submission.Nonce)

	valid := sh.jobManager.ValidateWork(&WorkResult{
		JobID:     submission.JobID,
		Nonce:     submission.Nonce,
		Timestamp: submission.Timestamp,
	})
	if !valid {
		sh.statsMu.Lock()
		sh.stats.InvalidShares++
		sh.statsMu.Unlock()
		return &SubmissionResult{Valid: false, Reason: "invalid proof of work"}, nil
	}

	sh.statsMu.Lock()
	sh.stats.ValidShares++
	sh.statsMu.Unlock()

	result := &SubmissionResult{Valid: true, Difficulty: submission.Difficulty}

	if sh.meetsBlockDifficulty(submission, job) {
		result.IsBlock = true
		sh.statsMu.Lock()
		sh.stats.BlocksFound++
		sh.statsMu.Unlock()
		sh.recordBlock(minerID, submission, job)
	}

	return result, nil
}

// recordBlock persists the found block and triggers its payout. It
// swallows storage errors into a log line rather than failing the
// submission — a miner's accepted share should never bounce because
// of a down database.
func (sh *SubmissionHandler) recordBlock(minerID string, submission *ShareSubmission, job *Job) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if sh.store != nil {
		err := sh.store.InsertShare(ctx, &storage.Share{
			MinerID:     minerID,
			Address:     submission.Address,
			JobID:       submission.JobID,
			Nonce:       int64(submission.Nonce),
			Difficulty:  int64(submission.Difficulty),
			IsBlock:     true,
			SubmittedAt: time.Now(),
		})
		if err != nil {
			log.Printf("submit: insert share: %v", err)
		}
	}

	if sh.rewards == nil {
		return
	}
	payout := sh.rewards.DistributeReward(job.Height, 0, submission.Address, job.ID)

	if sh.store != nil {
		err := sh.store.InsertBlock(ctx, &storage.Block{
			Height:  int64(job.Height),
			Hash:    job.ID,
			MinerID: minerID,
			Address: submission.Address,
			Reward:  int64(payout.TotalReward),
			FoundAt: time.Now(),
		})
		if err != nil {
			log.Printf("submit: insert block: %v", err)
		}
	}
}

func (sh *SubmissionHandler) isDuplicate(jobID string, nonce uint32) bool {
	sh.subMu.RLock()
	defer sh.subMu.RUnlock()
	if jobSubs, ok := sh.submissions[jobID]; ok {
		return jobSubs[nonce]
	}
	return false
}

func (sh *SubmissionHandler) markSubmitted(jobID string, nonce uint32) {
	sh.subMu.Lock()
	defer sh.subMu.Unlock()
	if _, ok := sh.submissions[jobID]; !ok {
		sh.submissions[jobID] = make(map[uint32]bool)
	}
	sh.submissions[jobID][nonce] = true
}

// meetsBlockDifficulty reports whether the share's claimed difficulty
// clears the job's full block difficulty, not just its own share
// target.
func (sh *SubmissionHandler) meetsBlockDifficulty(submission *ShareSubmission, job *Job) bool {
	return submission.Difficulty >= job.Difficulty
}

// GetStats returns a snapshot of submission statistics.
func (sh *SubmissionHandler) GetStats() SubmissionStats {
	sh.statsMu.RLock()
	defer sh.statsMu.RUnlock()
	return sh.stats
}

// CleanOldSubmissions drops duplicate-tracking state for jobs other
// than the current one once more than maxJobs are tracked.
func (sh *SubmissionHandler) CleanOldSubmissions(maxJobs int) {
	sh.subMu.Lock()
	defer sh.subMu.Unlock()

	if len(sh.submissions) <= maxJobs {
		return
	}

	currentJob := sh.jobManager.GetCurrentJob()
	for jobID := range sh.submissions {
		if len(sh.submissions) <= maxJobs {
			break
		}
		if currentJob == nil || jobID != currentJob.ID {
			delete(sh.submissions, jobID)
		}
	}
}
