package miner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestJobManager(t *testing.T, difficulty uint64) (*JobManager, *Job) {
	t.Helper()
	jm := NewJobManager(nil)
	template := NewBlockTemplate(1, make([]byte, 32), nil, difficulty, []byte("coinbase"))
	job := jm.CreateJob(template)
	return jm, job
}

func TestSubmitAcceptsValidShareAtEasiestDifficulty(t *testing.T) {
	jm, job := newTestJobManager(t, 1)
	sh := NewSubmissionHandler(jm, nil, nil)

	result, err := sh.Submit("miner-1", &ShareSubmission{
		JobID:      job.ID,
		Nonce:      7,
		Difficulty: 1,
		Address:    "sd1addr",
	})
	require.NoError(t, err)
	require.True(t, result.Valid)
}

func TestSubmitRejectsUnknownJob(t *testing.T) {
	jm, _ := newTestJobManager(t, 1)
	sh := NewSubmissionHandler(jm, nil, nil)

	_, err := sh.Submit("miner-1", &ShareSubmission{JobID: "does-not-exist", Nonce: 1})
	require.ErrorIs(t, err, ErrJobNotFound)
}

func TestSubmitRejectsDuplicateNonce(t *testing.T) {
	jm, job := newTestJobManager(t, 1)
	sh := NewSubmissionHandler(jm, nil, nil)

	sub := &ShareSubmission{JobID: job.ID, Nonce: 3, Difficulty: 1}
	_, err := sh.Submit("miner-1", sub)
	require.NoError(t, err)

	_, err = sh.Submit("miner-1", sub)
	require.ErrorIs(t, err, ErrDuplicateShare)
}

func TestSubmitFlagsBlockWhenDifficultyMeetsJob(t *testing.T) {
	jm, job := newTestJobManager(t, 1)
	sh := NewSubmissionHandler(jm, nil, nil)

	result, err := sh.Submit("miner-1", &ShareSubmission{
		JobID:      job.ID,
		Nonce:      9,
		Difficulty: job.Difficulty,
		Address:    "sd1addr",
	})
	require.NoError(t, err)
	require.True(t, result.IsBlock)
}

func TestSubmitStatsAccumulate(t *testing.T) {
	jm, job := newTestJobManager(t, 1)
	sh := NewSubmissionHandler(jm, nil, nil)

	sh.Submit("miner-1", &ShareSubmission{JobID: job.ID, Nonce: 1, Difficulty: 1})
	sh.Submit("miner-1", &ShareSubmission{JobID: job.ID, Nonce: 2, Difficulty: 1})

	stats := sh.GetStats()
	require.Equal(t, uint64(2), stats.TotalSubmissions)
	require.Equal(t, uint64(2), stats.ValidShares)
}
