package miner

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sjurajpuchky/cgminer/internal/crypto"
	"github.com/sjurajpuchky/cgminer/internal/scanhash"
	"github.com/sjurajpuchky/cgminer/internal/sha256core"
	"github.com/sjurajpuchky/cgminer/internal/target"
)

// Job is one unit of mining work: a 128-byte header split into the
// 64-byte prefix block its midstate is precomputed over and the
// 64-byte data tail scanhash.Scan writes candidate nonces into, per
// spec.md §3's data-tail/midstate model.
type Job struct {
	ID         string
	Height     uint64
	Midstate   [8]uint32
	DataTail   [64]byte
	Target     [32]byte
	Difficulty uint64
	Timestamp  uint64
	ExtraData  []byte
	PrevHash   []byte
	Coinbase   []byte
}

// JobManager tracks outstanding jobs and the most recently issued one.
type JobManager struct {
	jobs       map[string]*Job
	currentJob *Job
	mu         sync.RWMutex

	// onNewJob, if set, fires whenever a new job becomes current —
	// the pool server uses it to broadcast mining.notify.
	onNewJob func(*Job)
}

// NewJobManager creates a job manager. onNewJob may be nil.
func NewJobManager(onNewJob func(*Job)) *JobManager {
	return &JobManager{
		jobs:     make(map[string]*Job),
		onNewJob: onNewJob,
	}
}

// CreateJob builds a Job from template, registers it as current, and
// fires onNewJob.
func (jm *JobManager) CreateJob(template *BlockTemplate) *Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:         uuid.NewString(),
		Height:     template.Height,
		Midstate:   template.Midstate,
		DataTail:   template.DataTail,
		Target:     template.Target,
		Difficulty: template.Difficulty,
		Timestamp:  uint64(time.Now().Unix()),
		ExtraData:  template.ExtraData,
		PrevHash:   template.PrevHash,
		Coinbase:   template.Coinbase,
	}

	jm.jobs[job.ID] = job
	jm.currentJob = job
	jm.cleanOldJobs()

	if jm.onNewJob != nil {
		jm.onNewJob(job)
	}

	return job
}

// GetCurrentJob returns the most recently created job, or nil.
func (jm *JobManager) GetCurrentJob() *Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()
	return jm.currentJob
}

// GetJob looks up a job by ID.
func (jm *JobManager) GetJob(id string) *Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()
	return jm.jobs[id]
}

// cleanOldJobs keeps at most 10 jobs, always preserving the current
// one, so stale shares still resolve for a short grace window.
func (jm *JobManager) cleanOldJobs() {
	const maxJobs = 10
	if len(jm.jobs) <= maxJobs {
		return
	}

	for id := range jm.jobs {
		if len(jm.jobs) <= maxJobs {
			break
		}
		if jm.currentJob == nil || id != jm.currentJob.ID {
			delete(jm.jobs, id)
		}
	}
}

// BlockTemplate is the material a JobManager turns into a Job.
type BlockTemplate struct {
	Height     uint64
	PrevHash   []byte
	ExtraData  []byte
	Coinbase   []byte
	Difficulty uint64

	Midstate [8]uint32
	DataTail [64]byte
	Target   [32]byte
}

// NewBlockTemplate builds the 64-byte prefix block and midstate, the
// 64-byte data tail (nonce field zeroed, to be filled in by the
// scanhash driver), and the difficulty-derived target.
func NewBlockTemplate(height uint64, prevHash []byte, extraData []byte, difficulty uint64, coinbase []byte) *BlockTemplate {
	t := &BlockTemplate{
		Height:     height,
		PrevHash:   prevHash,
		ExtraData:  extraData,
		Coinbase:   coinbase,
		Difficulty: difficulty,
		Target:     difficultyToTarget(difficulty),
	}

	prefix := buildPrefixBlock(height, prevHash, coinbase)
	t.Midstate = precomputeMidstate(&prefix)
	t.DataTail = buildDataTail(uint64(time.Now().Unix()), extraData)

	return t
}

// buildPrefixBlock packs height, the parent hash, and a coinbase
// commitment into the 64-byte block the midstate is precomputed over:
// version(4) | height(8) | prevHash(32, truncated/zero-padded) |
// coinbase commitment(20, Hash160 of the coinbase data).
func buildPrefixBlock(height uint64, prevHash, coinbase []byte) [64]byte {
	var block [64]byte

	block[3] = 1 // version, little thing to bump on wire-format changes

	putUint64BE(block[4:12], height)

	n := len(prevHash)
	if n > 32 {
		n = 32
	}
	copy(block[12:12+n], prevHash[:n])

	commitment := crypto.Hash160(coinbase)
	copy(block[44:64], commitment)

	return block
}

// buildDataTail builds the 64-byte tail scanhash.Scan writes nonces
// into: timestamp(8) | extraData(4, first four bytes, zero-padded) |
// nonce(4, zeroed here) | padding(48).
func buildDataTail(timestamp uint64, extraData []byte) [64]byte {
	var tail [64]byte
	putUint64BE(tail[0:8], timestamp)

	n := len(extraData)
	if n > 4 {
		n = 4
	}
	copy(tail[8:8+n], extraData[:n])

	return tail
}

// precomputeMidstate runs one SHA-256 compression of the IV over
// prefix, the midstate every candidate nonce's digest starts from.
func precomputeMidstate(prefix *[64]byte) [8]uint32 {
	state := sha256core.IV
	sha256core.Transform(&state, prefix)
	return state
}

// difficultyToTarget converts an integer difficulty into a 32-byte
// big-endian target: target = maxTarget / difficulty, maxTarget being
// 2^256 - 1. Difficulty 0 is treated as 1 (the easiest target).
func difficultyToTarget(difficulty uint64) [32]byte {
	if difficulty == 0 {
		difficulty = 1
	}

	var maxTarget [32]byte
	for i := range maxTarget {
		maxTarget[i] = 0xff
	}

	return divideBytes(maxTarget, difficulty)
}

// divideBytes divides a 256-bit big-endian number by a uint64 divisor
// using long division, byte by byte from the most significant end.
func divideBytes(numerator [32]byte, divisor uint64) [32]byte {
	var quotient [32]byte
	var remainder uint64

	for i := 0; i < 32; i++ {
		cur := remainder<<8 | uint64(numerator[i])
		quotient[i] = byte(cur / divisor)
		remainder = cur % divisor
	}

	return quotient
}

func putUint64BE(dst []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		dst[i] = byte(v & 0xff)
		v >>= 8
	}
}

// WorkResult is a miner's claimed solution to a Job.
type WorkResult struct {
	JobID     string
	Nonce     uint32
	Timestamp uint64
	Hash      [32]byte
}

// ValidateWork recomputes the submitted nonce's digest from the job's
// midstate and checks it against the job's target with the real
// 256-bit comparator, replacing the teacher's naive byte-major
// compareHash.
func (jm *JobManager) ValidateWork(result *WorkResult) bool {
	job := jm.GetJob(result.JobID)
	if job == nil {
		return false
	}

	tail := job.DataTail
	tail[12] = byte(result.Nonce)
	tail[13] = byte(result.Nonce >> 8)
	tail[14] = byte(result.Nonce >> 16)
	tail[15] = byte(result.Nonce >> 24)

	midstate := job.Midstate
	digest := scanhash.Digest256(&midstate, &tail)

	return target.MeetsTarget(&digest, &job.Target)
}
