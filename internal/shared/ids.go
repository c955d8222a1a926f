package shared

import (
	"crypto/rand"
	"math/big"
)

// CodeAlphabet is the character set of human-shareable codes.
const CodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewCode returns a random code of length characters drawn from CodeAlphabet.
func NewCode(length int) string {
	b := make([]byte, length)
	limit := big.NewInt(int64(len(CodeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		b[i] = CodeAlphabet[n.Int64()]
	}
	return string(b)
}
