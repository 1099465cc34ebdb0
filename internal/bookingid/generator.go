// Package bookingid produces the short public identifiers printed on bookings.
package bookingid

import "math/rand/v2"

const (
	Length   = 8
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

type Generator interface {
	Generate() string
}

// RandomGenerator draws every symbol uniformly from Alphabet. It is not suitable for
// secrets; uniqueness is left to the storage constraint.
type RandomGenerator struct{}

func NewRandomGenerator() RandomGenerator {
	return RandomGenerator{}
}

func (RandomGenerator) Generate() string {
	buf := make([]byte, Length)
	for i := range buf {
		buf[i] = Alphabet[rand.IntN(len(Alphabet))]
	}
	return string(buf)
}

// Valid reports whether id has the shape of a generated booking id.
func Valid(id string) bool {
	if len(id) != Length {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
