package utils

import "crypto/rand"

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomToken returns an opaque alphanumeric token of length n, used for
// the remember_token column. It is an identifier, not a credential.
func RandomToken(n int) (string, error) {
	// Bytes at or above the largest multiple of the alphabet size are
	// discarded so every character is equally likely.
	limit := byte(256 - 256%len(tokenAlphabet))

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
