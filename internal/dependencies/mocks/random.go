package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/gamehub/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	mu sync.Mutex

	// IDResults is a queue of results to return from ID
	IDResults []string
	idIndex   int

	// generated counts fallback IDs handed out once the queue is drained
	generated int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// ID returns the next queued result, or a sequential "id-N" once the queue is empty
func (r *MockRandom) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.idIndex < len(r.IDResults) {
		result := r.IDResults[r.idIndex]
		r.idIndex++
		return result
	}
	r.generated++
	return fmt.Sprintf("id-%d", r.generated)
}

// QueueID adds values to the ID result queue
func (r *MockRandom) QueueID(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IDResults = append(r.IDResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IDResults = nil
	r.idIndex = 0
	r.generated = 0
}
