package service

import (
	"crypto/md5"
	"encoding/hex"
)

// passwordSalt is the fixed application-wide salt mixed into every digest.
// The scheme (one shared salt, md5) is inherited behavior: stored digests
// must stay reproducible so credential lookup can match account + digest
// exactly.
const passwordSalt = "ping"

// EncryptPassword returns the storable one-way digest of a plaintext
// password: lowercase hex md5 of salt + plaintext. Deterministic for equal
// input; no inverse exists.
func EncryptPassword(plaintext string) string {
	sum := md5.Sum([]byte(passwordSalt + plaintext))
	return hex.EncodeToString(sum[:])
}
