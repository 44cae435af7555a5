// Package sha256core implements the bare SHA-256 one-block
// compression function used by the SupraDrive nonce evaluator. It
// performs no padding and no length encoding: callers must hand it
// already-framed 64-byte blocks, exactly as spec.md §4.B requires.
package sha256core

// IV is the SHA-256 initial state vector, FIPS-180-4 §5.3.3.
var IV = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// k is the SHA-256 round constant table, FIPS-180-4 §4.2.2.
var k = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5,
	0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3,
	0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc,
	0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7,
	0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13,
	0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3,
	0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5,
	0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208,
	0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

func ror(word uint32, shift uint) uint32 {
	return (word >> shift) | (word << (32 - shift))
}

func ch(x, y, z uint32) uint32  { return z ^ (x & (y ^ z)) }
func maj(x, y, z uint32) uint32 { return (x & y) | (z & (x | y)) }

func bigSigma0(x uint32) uint32 { return ror(x, 2) ^ ror(x, 13) ^ ror(x, 22) }
func bigSigma1(x uint32) uint32 { return ror(x, 6) ^ ror(x, 11) ^ ror(x, 25) }
func smallSigma0(x uint32) uint32 { return ror(x, 7) ^ ror(x, 18) ^ (x >> 3) }
func smallSigma1(x uint32) uint32 { return ror(x, 17) ^ ror(x, 19) ^ (x >> 10) }

func loadWord(input *[64]byte, i int) uint32 {
	// The load is big-endian with no byte-swap: the input is assumed
	// already big-endian, as spec.md §4.B notes.
	o := i * 4
	return uint32(input[o])<<24 | uint32(input[o+1])<<16 | uint32(input[o+2])<<8 | uint32(input[o+3])
}

// Transform runs one SHA-256 compression over the 64-byte block,
// mutating state in place. It implements FIPS-180-4 §6.2.2 with no
// padding: the block is assumed already framed by the caller.
func Transform(state *[8]uint32, input *[64]byte) {
	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = loadWord(input, i)
	}
	for i := 16; i < 64; i++ {
		w[i] = smallSigma1(w[i-2]) + w[i-7] + smallSigma0(w[i-15]) + w[i-16]
	}

	a, b, c, d, e, f, g, h := state[0], state[1], state[2], state[3], state[4], state[5], state[6], state[7]

	for i := 0; i < 64; i++ {
		t1 := h + bigSigma1(e) + ch(e, f, g) + k[i] + w[i]
		t2 := bigSigma0(a) + maj(a, b, c)
		h, g, f = g, f, e
		e = d + t1
		d, c, b = c, b, a
		a = t1 + t2
	}

	state[0] += a
	state[1] += b
	state[2] += c
	state[3] += d
	state[4] += e
	state[5] += f
	state[6] += g
	state[7] += h
}
