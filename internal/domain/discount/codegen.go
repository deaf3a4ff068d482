package discount

import (
	"crypto/rand"

	"github.com/go-faster/errors"
)

// codeAlphabet is the character set for generated code suffixes. Uppercase
// letters and digits only, matching what customers can type from a receipt.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator produces discount code strings: a fixed human-readable prefix
// followed by a crypto-random suffix.
type Generator struct {
	Prefix string
	Length int
}

// Generate returns a fresh code string. Uniqueness is probabilistic; the
// registry retries on the rare collision.
func (g Generator) Generate() (string, error) {
	n := g.Length
	if n <= 0 {
		n = 8
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return g.Prefix + string(buf), nil
}
