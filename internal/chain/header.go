package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/sjurajpuchky/cgminer/internal/target"
)

var (
	ErrInvalidHeight    = errors.New("invalid block height")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// Header is the minimal work header a mining job is built from: no
// ledger, no genesis, no transaction root — this repository has no
// full-node state to root those fields in.
type Header struct {
	Version    uint32   `json:"version"`
	Height     uint64   `json:"height"`
	Timestamp  int64    `json:"timestamp"`
	ParentHash string   `json:"parent_hash"`
	Difficulty uint64   `json:"difficulty"`
	Nonce      uint64   `json:"nonce"`
	ExtraData  []byte   `json:"extra_data"`
	Target     [32]byte `json:"-"`
}

// NewHeader creates a new work header for the given parent and
// height.
func NewHeader(parentHash string, height uint64) *Header {
	return &Header{
		Version:    1,
		Height:     height,
		Timestamp:  time.Now().Unix(),
		ParentHash: parentHash,
		Difficulty: 1000,
	}
}

// Hash computes the header hash used for block identification
// (distinct from the SupraDrive double-SHA-256 proof, which runs over
// the raw 64-byte data tail, not this JSON encoding).
func (h *Header) Hash() (string, error) {
	data, err := json.Marshal(h)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// Validate checks the header fields for basic well-formedness.
func (h *Header) Validate() error {
	if h.Timestamp > time.Now().Add(15*time.Second).Unix() {
		return ErrInvalidTimestamp
	}
	if h.Height > 0 && h.ParentHash == "" {
		return ErrInvalidHeight
	}
	return nil
}

// IsGenesis returns true if this is a genesis block header.
func (h *Header) IsGenesis() bool {
	return h.Height == 0 && h.ParentHash == ""
}

// Size returns the approximate size of the header in bytes.
func (h *Header) Size() int {
	data, _ := json.Marshal(h)
	return len(data)
}

// IncrementNonce increases the nonce, used by callers that still want
// a coarse-grained nonce outside the scanhash engine's own 32-bit
// search space (e.g. extranonce rolling between jobs).
func (h *Header) IncrementNonce() {
	h.Nonce++
}

// MeetsTarget reports whether digest satisfies this header's target,
// delegating to the real 256-bit big-endian comparator (spec.md
// §4.C) instead of a leading-ASCII-zero placeholder.
func (h *Header) MeetsTarget(digest [32]byte) bool {
	return target.MeetsTarget(&digest, &h.Target)
}

// HeaderWithProof pairs a header with the proof hash found for it.
type HeaderWithProof struct {
	Header    *Header `json:"header"`
	ProofHash string  `json:"proof_hash"`
	WorkDone  uint64  `json:"work_done"`
}

// NewHeaderWithProof creates a header-with-proof record.
func NewHeaderWithProof(header *Header) *HeaderWithProof {
	hash, _ := header.Hash()
	return &HeaderWithProof{
		Header:    header,
		ProofHash: hash,
		WorkDone:  header.Difficulty,
	}
}
