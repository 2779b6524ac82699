package tree

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces instance ids that are never reused.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random UUIDs.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Sequence issues predictable ids of the form prefix + counter.
// It is meant for tests and scripted fixtures.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequence creates a Sequence starting at 1.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix, next: 1}
}

// NewID implements IDGenerator.
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.prefix + strconv.Itoa(s.next)
	s.next++
	return id
}
