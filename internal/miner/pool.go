package miner

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Pool is a Stratum-like job-dispatch server: remote miners connect
// over WebSocket, authenticate with a JWT bearer token, receive
// mining.notify job broadcasts, and submit shares for validation.
type Pool struct {
	addr     string
	router   *mux.Router
	upgrader websocket.Upgrader

	jwtSecret []byte

	miners   map[string]*PoolMiner
	minersMu sync.RWMutex

	currentJob *Job
	jobMu      sync.RWMutex

	stats   PoolStats
	statsMu sync.RWMutex

	config PoolConfig

	submissions *SubmissionHandler
	metrics     *Metrics

	shares chan *Share
	stop   chan struct{}
}

// PoolConfig contains vardiff and payout settings for the pool.
type PoolConfig struct {
	MinDifficulty    uint64
	MaxDifficulty    uint64
	VarDiffTarget    float64 // target shares per minute
	VarDiffRetarget  time.Duration
	PoolFee          float64 // fraction, e.g. 0.01 for 1%
	JWTSecret        string
}

// PoolMiner is one connected remote worker.
type PoolMiner struct {
	ID            string
	Address       string
	Conn          *websocket.Conn
	Difficulty    uint64
	Hashrate      float64
	SharesValid   uint64
	SharesInvalid uint64
	LastShare     time.Time
	ConnectedAt   time.Time
	mu            sync.Mutex
}

// PoolStats is a point-in-time summary exposed over /stats.
type PoolStats struct {
	TotalMiners   int     `json:"total_miners"`
	TotalHashrate float64 `json:"total_hashrate"`
	BlocksFound   uint64  `json:"blocks_found"`
	SharesValid   uint64  `json:"shares_valid"`
	SharesInvalid uint64  `json:"shares_invalid"`
	LastBlockTime uint64  `json:"last_block_time"`
	CurrentHeight uint64  `json:"current_height"`
}

// Share is a submission parsed off the wire, before validation.
type Share struct {
	MinerID    string
	JobID      string
	Nonce      uint32
	Timestamp  uint64
	Difficulty uint64
}

// jwtClaims is the payload of a worker's bearer token: the payout
// address it mines for.
type jwtClaims struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}

// NewPool creates a mining pool server bound to addr.
func NewPool(addr string, config PoolConfig, submissions *SubmissionHandler, metrics *Metrics) *Pool {
	p := &Pool{
		addr:        addr,
		router:      mux.NewRouter(),
		miners:      make(map[string]*PoolMiner),
		config:      config,
		jwtSecret:   []byte(config.JWTSecret),
		submissions: submissions,
		metrics:     metrics,
		shares:      make(chan *Share, 1000),
		stop:        make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	p.setupRoutes()
	return p
}

func (p *Pool) setupRoutes() {
	p.router.HandleFunc("/", p.handleMiner)
	p.router.HandleFunc("/stats", p.handleStats).Methods("GET")
	p.router.HandleFunc("/miners", p.handleMiners).Methods("GET")
}

// IssueWorkerToken mints a bearer token for address, used by operators
// to hand workers their connection credential out of band.
func (p *Pool) IssueWorkerToken(address string, ttl time.Duration) (string, error) {
	claims := jwtClaims{
		Address: address,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.jwtSecret)
}

func (p *Pool) validateWorkerToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return p.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.Address, nil
}

// Start runs the share processor, vardiff adjuster, and HTTP server.
func (p *Pool) Start() error {
	go p.processShares()
	go p.adjustDifficulty()

	log.Printf("mining pool starting on %s", p.addr)
	return http.ListenAndServe(p.addr, p.router)
}

// Stop halts the pool's background goroutines.
func (p *Pool) Stop() {
	close(p.stop)
}

func (p *Pool) handleMiner(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	address, err := p.validateWorkerToken(token)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	miner := &PoolMiner{
		ID:          uuid.NewString(),
		Address:     address,
		Conn:        conn,
		Difficulty:  p.config.MinDifficulty,
		ConnectedAt: time.Now(),
	}

	p.minersMu.Lock()
	p.miners[miner.ID] = miner
	p.minersMu.Unlock()

	defer func() {
		p.minersMu.Lock()
		delete(p.miners, miner.ID)
		p.minersMu.Unlock()
	}()

	p.sendJob(miner)

	for {
		var msg StratumMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}

		switch msg.Method {
		case "mining.subscribe":
			p.handleSubscribe(miner, msg)
		case "mining.authorize":
			p.handleAuthorize(miner, msg)
		case "mining.submit":
			p.handleSubmit(miner, msg)
		}
	}
}

// StratumMessage is the JSON-RPC-ish envelope every pool message uses.
type StratumMessage struct {
	ID     interface{}     `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

func (p *Pool) handleSubscribe(miner *PoolMiner, msg StratumMessage) {
	response := map[string]interface{}{
		"id":     msg.ID,
		"result": []interface{}{miner.ID, "00000000"},
		"error":  nil,
	}
	miner.Conn.WriteJSON(response)
}

func (p *Pool) handleAuthorize(miner *PoolMiner, msg StratumMessage) {
	response := map[string]interface{}{
		"id":     msg.ID,
		"result": true,
		"error":  nil,
	}
	miner.Conn.WriteJSON(response)
}

// submitParams is the parsed form of a mining.submit call's params
// [workerID, jobID, nonce]: the nonce is a JSON number, and Timestamp
// is the time the pool received the call.
type submitParams struct {
	JobID     string
	Nonce     uint32
	Timestamp uint64
}

func parseSubmitParams(raw json.RawMessage) (submitParams, error) {
	var params []interface{}
	if err := json.Unmarshal(raw, &params); err != nil {
		return submitParams{}, err
	}

	var sp submitParams
	if len(params) > 1 {
		sp.JobID, _ = params[1].(string)
	}
	if len(params) > 2 {
		if n, ok := params[2].(float64); ok {
			sp.Nonce = uint32(n)
		}
	}
	sp.Timestamp = uint64(time.Now().Unix())
	return sp, nil
}

func (p *Pool) handleSubmit(miner *PoolMiner, msg StratumMessage) {
	sp, err := parseSubmitParams(msg.Params)
	if err != nil {
		miner.Conn.WriteJSON(map[string]interface{}{"id": msg.ID, "result": false, "error": "bad params"})
		return
	}

	share := &Share{
		MinerID:    miner.ID,
		JobID:      sp.JobID,
		Nonce:      sp.Nonce,
		Timestamp:  sp.Timestamp,
		Difficulty: miner.Difficulty,
	}

	select {
	case p.shares <- share:
	default:
		log.Printf("pool: share queue full, dropping share from %s", miner.ID)
	}

	miner.Conn.WriteJSON(map[string]interface{}{"id": msg.ID, "result": true, "error": nil})
}

func (p *Pool) sendJob(miner *PoolMiner) {
	p.jobMu.RLock()
	job := p.currentJob
	p.jobMu.RUnlock()

	if job == nil {
		return
	}

	notification := map[string]interface{}{
		"id":     nil,
		"method": "mining.notify",
		"params": []interface{}{job.ID, job.DataTail[:], job.Target[:], true},
	}
	miner.Conn.WriteJSON(notification)
}

// BroadcastJob updates the pool's current job and notifies every
// connected miner, the work-restart signal spec.md §5 describes.
func (p *Pool) BroadcastJob(job *Job) {
	p.jobMu.Lock()
	p.currentJob = job
	p.jobMu.Unlock()

	p.statsMu.Lock()
	p.stats.CurrentHeight = job.Height
	p.statsMu.Unlock()

	p.minersMu.RLock()
	for _, miner := range p.miners {
		go p.sendJob(miner)
	}
	p.minersMu.RUnlock()
}

func (p *Pool) processShares() {
	for {
		select {
		case share := <-p.shares:
			p.processShare(share)
		case <-p.stop:
			return
		}
	}
}

// processShare validates a queued share through SubmissionHandler,
// replacing the teacher's unconditional valid := true stub.
func (p *Pool) processShare(share *Share) {
	p.minersMu.RLock()
	miner, exists := p.miners[share.MinerID]
	p.minersMu.RUnlock()
	if !exists {
		return
	}

	result, err := p.submissions.Submit(miner.ID, &ShareSubmission{
		JobID:      share.JobID,
		Nonce:      share.Nonce,
		Timestamp:  share.Timestamp,
		Difficulty: share.Difficulty,
		Address:    miner.Address,
	})

	valid := err == nil && result.Valid

	miner.mu.Lock()
	if valid {
		miner.SharesValid++
		miner.LastShare = time.Now()
	} else {
		miner.SharesInvalid++
	}
	miner.mu.Unlock()

	p.statsMu.Lock()
	if valid {
		p.stats.SharesValid++
	} else {
		p.stats.SharesInvalid++
	}
	if valid && result != nil && result.IsBlock {
		p.stats.BlocksFound++
		p.stats.LastBlockTime = uint64(time.Now().Unix())
	}
	p.statsMu.Unlock()

	if p.metrics != nil {
		if valid {
			p.metrics.SharesValid.Inc()
		} else {
			reason := "invalid_proof"
			if err != nil {
				reason = err.Error()
			} else if result != nil {
				reason = result.Reason
			}
			p.metrics.SharesInvalid.WithLabelValues(reason).Inc()
		}
		if valid && result != nil && result.IsBlock {
			p.metrics.BlocksFound.Inc()
		}
	}
}

// adjustDifficulty runs the vardiff retarget loop on a fixed interval.
func (p *Pool) adjustDifficulty() {
	ticker := time.NewTicker(p.config.VarDiffRetarget)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.minersMu.RLock()
			for _, miner := range p.miners {
				p.adjustMinerDifficulty(miner)
			}
			p.minersMu.RUnlock()
		case <-p.stop:
			return
		}
	}
}

// adjustMinerDifficulty retargets one miner's difficulty toward
// VarDiffTarget shares/minute, adapted from the teacher's
// DifficultyAdjustment ratio-clamp (pow/cpu.go), applied per-miner
// instead of to the whole chain's block time.
func (p *Pool) adjustMinerDifficulty(miner *PoolMiner) {
	miner.mu.Lock()
	defer miner.mu.Unlock()

	if miner.LastShare.IsZero() {
		return
	}

	elapsed := time.Since(miner.ConnectedAt).Minutes()
	if elapsed <= 0 {
		return
	}

	sharesPerMinute := float64(miner.SharesValid) / elapsed
	if sharesPerMinute <= 0 || p.config.VarDiffTarget <= 0 {
		return
	}

	ratio := p.config.VarDiffTarget / sharesPerMinute
	if ratio > 4 {
		ratio = 4
	} else if ratio < 0.25 {
		ratio = 0.25
	}

	newDiff := uint64(float64(miner.Difficulty) * ratio)
	if newDiff < p.config.MinDifficulty {
		newDiff = p.config.MinDifficulty
	}
	if p.config.MaxDifficulty > 0 && newDiff > p.config.MaxDifficulty {
		newDiff = p.config.MaxDifficulty
	}
	if newDiff == 0 {
		newDiff = p.config.MinDifficulty
	}

	miner.Difficulty = newDiff
}

func (p *Pool) handleStats(w http.ResponseWriter, r *http.Request) {
	p.statsMu.RLock()
	stats := p.stats
	p.statsMu.RUnlock()

	p.minersMu.RLock()
	stats.TotalMiners = len(p.miners)
	for _, miner := range p.miners {
		stats.TotalHashrate += miner.Hashrate
	}
	p.minersMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (p *Pool) handleMiners(w http.ResponseWriter, r *http.Request) {
	p.minersMu.RLock()
	miners := make([]map[string]interface{}, 0, len(p.miners))
	for _, miner := range p.miners {
		miners = append(miners, map[string]interface{}{
			"id":             miner.ID,
			"address":        miner.Address,
			"difficulty":     miner.Difficulty,
			"hashrate":       miner.Hashrate,
			"shares_valid":   miner.SharesValid,
			"shares_invalid": miner.SharesInvalid,
			"connected_at":   miner.ConnectedAt,
		})
	}
	p.minersMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(miners)
}
