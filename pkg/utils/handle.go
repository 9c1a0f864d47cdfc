package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Word pools for generated account handles. Two short dictionaries are
// enough: uniqueness is enforced against the store, not by pool size.
var (
	handleAdjectives = []string{
		"brave", "calm", "clever", "eager", "gentle", "happy", "jolly",
		"kind", "lively", "merry", "noble", "proud", "quick", "quiet",
		"sunny", "swift", "warm", "wise", "witty", "zesty",
	}
	handleAnimals = []string{
		"badger", "bear", "crane", "deer", "falcon", "fox", "heron",
		"koala", "lion", "lynx", "otter", "owl", "panda", "raven",
		"robin", "seal", "swan", "tiger", "whale", "wren",
	}
)

func pick(pool []string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	if err != nil {
		// crypto/rand failing is unrecoverable for credential material,
		// but a handle is not secret; fall back to the first entry.
		return pool[0]
	}
	return pool[n.Int64()]
}

// GenerateHandle returns a readable lowercase handle like "bravefalcon".
// Callers must verify uniqueness against the store and retry on
// collision.
func GenerateHandle() string {
	return pick(handleAdjectives) + pick(handleAnimals)
}

// GenerateDisplayName returns a capitalized two-word name like
// "Brave Falcon" for accounts provisioned without one.
func GenerateDisplayName() string {
	adjective := pick(handleAdjectives)
	animal := pick(handleAnimals)
	return capitalize(adjective) + " " + capitalize(animal)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
