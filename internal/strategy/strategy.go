// Package strategy implements the twelve stateless nonce-generator
// strategies the scanhash driver round-robins over: six ascending
// ("up-city") and six descending ("down-city"). Each generator is
// modeled as a tagged variant dispatching to a pure function rather
// than a raw function pointer, per spec.md §9.
package strategy

import (
	"math/rand"

	"github.com/sjurajpuchky/cgminer/internal/bitfield"
)

// ID identifies one of the twelve strategies.
type ID int

const (
	Increment ID = iota
	Sine
	Phase
	Block
	IRandom
	Random

	Decrement
	Cosine
	RPhase
	RBlock
	DRandom
	NRandom
)

// Up lists the six ascending-bank strategies in round-robin slot
// order.
var Up = [6]ID{Increment, Sine, Phase, Block, IRandom, Random}

// Down lists the six descending-bank strategies in round-robin slot
// order.
var Down = [6]ID{Decrement, Cosine, RPhase, RBlock, DRandom, NRandom}

// Next computes the next nonce for id given the current nonce,
// max_nonce, and the scan's running candidate count, and increments
// *total by one. It does not mutate any state beyond *total: the
// driver is responsible for storing the returned nonce back into its
// per-strategy last-nonce slot.
func Next(id ID, nonce, maxNonce uint32, total *uint32) uint32 {
	*total++

	switch id {
	case Increment:
		n := nonce + 1
		if n >= maxNonce {
			return 0
		}
		return n
	case Sine, Phase, Cosine:
		// Reserved placeholders: identity, per spec.md §4.E.
		return nonce
	case Block:
		n := nonce + 15
		if n >= maxNonce {
			return 0
		}
		return n
	case IRandom:
		return nonce + uint32(rand.Intn(255))
	case Random:
		return uint32(rand.Intn(int(maxNonce)))
	case Decrement:
		if nonce == 0 {
			return maxNonce
		}
		return nonce - 1
	case RPhase:
		return maxNonce
	case RBlock:
		return nonce - 15
	case DRandom:
		lane := int(*total % 4)
		n := bitfield.CombineLane(nonce, lane, byte(rand.Intn(255)))
		if n >= maxNonce {
			n = bitfield.CombineLane(n, 0, 0)
		}
		return n
	case NRandom:
		return maxNonce - uint32(rand.Intn(int(maxNonce)))
	default:
		return nonce
	}
}
