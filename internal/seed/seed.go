// Package seed turns user input into generation seeds. A seed phrase lets
// people share a dungeon by name instead of by number.
package seed

import (
	"encoding/binary"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// FromPhrase hashes a phrase into a non-negative seed. Leading and trailing
// whitespace is ignored; case is significant.
func FromPhrase(phrase string) int64 {
	sum := blake2b.Sum256([]byte(strings.TrimSpace(phrase)))
	return int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
}

// Resolve picks the seed for a run. A non-empty phrase wins over the numeric
// seed.
func Resolve(seed int64, phrase string) int64 {
	if strings.TrimSpace(phrase) != "" {
		return FromPhrase(phrase)
	}
	return seed
}

// Random returns a time-based seed for runs that did not ask for one.
func Random() int64 {
	return time.Now().UnixNano()
}
