package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates the opaque public IDs handed out for slips, configs and
// predictions. Seed data uses readable slugs instead; both share the same
// public_id columns.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator returns 32 hex characters from crypto/rand.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
