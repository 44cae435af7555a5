// Package target implements the 256-bit big-endian proof-of-work
// comparison spec.md §4.C describes: byte-swap each 32-bit word of
// hash and target, then compare word-by-word as unsigned big-endian
// integers.
package target

// MeetsTarget reports whether hash, interpreted as a 256-bit
// big-endian integer, is less than or equal to target.
func MeetsTarget(hash, target *[32]byte) bool {
	var hashSwap, targetSwap [32]byte
	swap256(&hashSwap, hash)
	swap256(&targetSwap, target)

	for i := 0; i < 8; i++ {
		h := beWord(&hashSwap, i)
		tgt := leWord(&targetSwap, i)
		if h > tgt {
			return false
		}
		if h < tgt {
			return true
		}
	}
	return true
}

// swap256 reverses the order of the eight 32-bit words of src into
// dst (word 0 of src becomes word 7 of dst, and so on).
func swap256(dst, src *[32]byte) {
	for i := 0; i < 8; i++ {
		copy(dst[i*4:i*4+4], src[(7-i)*4:(7-i)*4+4])
	}
}

func beWord(b *[32]byte, i int) uint32 {
	o := i * 4
	return uint32(b[o])<<24 | uint32(b[o+1])<<16 | uint32(b[o+2])<<8 | uint32(b[o+3])
}

func leWord(b *[32]byte, i int) uint32 {
	o := i * 4
	return uint32(b[o]) | uint32(b[o+1])<<8 | uint32(b[o+2])<<16 | uint32(b[o+3])<<24
}
