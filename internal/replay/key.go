package replay

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

const redisKeyPrefix = "shadowpay:nullifier:v1:"

// digest bounds the stored key size regardless of nullifier length.
func digest(nullifier string) [blake2b.Size256]byte {
	return blake2b.Sum256([]byte(nullifier))
}

func redisKey(nullifier string) string {
	sum := digest(nullifier)
	return redisKeyPrefix + hex.EncodeToString(sum[:])
}
