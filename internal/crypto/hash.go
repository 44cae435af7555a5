package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
)

// Hash256 returns SHA256 hash
func Hash256(data []byte) []byte {
	hash := sha256.Sum256(data)
	return hash[:]
}

// DoubleHash256 returns double SHA256 hash (like Bitcoin)
func DoubleHash256(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}

// RIPEMD160 returns RIPEMD-160 hash
func RIPEMD160(data []byte) []byte {
	hash := ripemd160.New()
	hash.Write(data)
	return hash.Sum(nil)
}

// Hash160 returns RIPEMD160(SHA256(data)) - Bitcoin address hash
func Hash160(data []byte) []byte {
	sha := sha256.Sum256(data)
	return RIPEMD160(sha[:])
}
