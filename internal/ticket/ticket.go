// Package ticket issues single-use, unguessable tokens that prove the holder
// received an out-of-band message tied to one pending account action.
package ticket

import "github.com/google/uuid"

// UUIDGenerator renders random 128-bit identifiers as text. uuid v4 carries
// 122 bits of entropy, which makes guessing infeasible.
type UUIDGenerator struct{}

func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Issue() string {
	return uuid.NewString()
}
