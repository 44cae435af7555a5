package miner

import (
	"log"
	"sync"

	"github.com/sjurajpuchky/cgminer/internal/scanhash"
	"github.com/sjurajpuchky/cgminer/internal/semiresult"
)

// Worker runs one scanhash.Scan loop against the current job on its
// own goroutine, replacing the teacher's CPUMiner inline digest loop
// with a thin driver around the scanhash engine.
type Worker struct {
	id      int
	restart scanhash.AtomicRestart
	ctx     *scanhash.Context

	mu        sync.Mutex
	job       *Job
	lastNonce uint32
	maxNonce  uint32

	metrics *Metrics

	stop chan struct{}
	done chan struct{}
}

// NewWorker allocates a worker that searches nonces in [0, maxNonce).
func NewWorker(id int, maxNonce uint32) *Worker {
	w := &Worker{
		id:       id,
		ctx:      scanhash.NewContext(maxNonce),
		maxNonce: maxNonce,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	w.ctx.Log = func(format string, args ...any) { log.Printf(format, args...) }
	return w
}

// SetMetrics attaches the Prometheus collectors this worker reports
// flushed semi-results and buffer drains against.
func (w *Worker) SetMetrics(m *Metrics) {
	w.metrics = m
}

// SetJob installs a new job and signals any in-flight scan to restart
// against it.
func (w *Worker) SetJob(job *Job) {
	w.mu.Lock()
	w.job = job
	w.lastNonce = 0
	w.mu.Unlock()

	w.restart.Set()
}

// Run drives successive Scan calls against whatever job is current
// until Stop is called. Each result with a flushed semi-result is
// handed to onFound for share submission.
func (w *Worker) Run(onFound func(job *Job, nonce uint32, hash [32]byte)) {
	defer close(w.done)

	for {
		select {
		case <-w.stop:
			return
		default:
		}

		w.mu.Lock()
		job := w.job
		lastNonce := w.lastNonce
		w.mu.Unlock()

		if job == nil {
			continue
		}

		w.ctx.OverflowHook = func(entries []semiresult.Result) {
			if w.metrics != nil {
				w.metrics.BufferFlushes.Inc()
				w.metrics.SemiResults.Add(float64(len(entries)))
			}
			if onFound == nil {
				return
			}
			for _, r := range entries {
				onFound(job, r.Nonce, r.Hash)
			}
		}

		w.restart.Reset()
		data := job.DataTail
		midstate := job.Midstate
		target := job.Target

		scanhash.Scan(&w.restart, &midstate, &data, &target, w.maxNonce, &lastNonce, 0, w.ctx)

		w.mu.Lock()
		w.lastNonce = lastNonce
		w.mu.Unlock()
	}
}

// Stop halts Run after its current scan pass notices the restart
// signal (Run polls w.stop only between passes, so a stuck pass still
// drains via the restart flag).
func (w *Worker) Stop() {
	close(w.stop)
	w.restart.Set()
	<-w.done
}

// ID returns the worker's thread index, used to label metrics.
func (w *Worker) ID() int {
	return w.id
}

// LastNonce returns the last nonce recorded when the most recent Scan
// pass returned (0 after SetJob), a coarse hashrate proxy for callers
// that sample it on an interval. It does not change while a pass is
// still running.
func (w *Worker) LastNonce() uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastNonce
}
