package idgen

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Generator hands out unique, prefixed identifiers ("REQ-...", "PO-...").
type Generator interface {
	NewID(prefix string) string
}

type UUID struct{}

func (UUID) NewID(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString())
}

// Sequence produces PREFIX-0001, PREFIX-0002, ... per prefix. Deterministic, used by tests and demo seeding.
type Sequence struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewSequence() *Sequence {
	return &Sequence{counters: make(map[string]int)}
}

func (s *Sequence) NewID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[prefix]++
	return fmt.Sprintf("%s-%04d", prefix, s.counters[prefix])
}

// New picks a generator by strategy name: "snowflake" (default), "uuid" or "sequence".
func New(strategy string, nodeID int64) (Generator, error) {
	switch strings.ToLower(strategy) {
	case "", "snowflake":
		sf, err := NewSnowflake(nodeID)
		if err != nil {
			return nil, err
		}
		return sf, nil
	case "uuid":
		return UUID{}, nil
	case "sequence":
		return NewSequence(), nil
	default:
		return nil, fmt.Errorf("unsupported ID_STRATEGY: %s", strategy)
	}
}
