package random

import (
	"github.com/google/uuid"
)

// Random provides identifier generation that can be mocked for testing
type Random interface {
	// ID returns a new unique identifier
	ID() string
}

// UUIDRandom implements Random using random (v4) UUIDs
type UUIDRandom struct{}

// New creates a new UUIDRandom
func New() *UUIDRandom {
	return &UUIDRandom{}
}

// ID returns a new random UUID in canonical string form
func (r *UUIDRandom) ID() string {
	return uuid.NewString()
}
