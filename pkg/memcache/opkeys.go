package mem

import (
	"sync"
	"time"
)

// OpKeyStore caches gateway operation keys between the status query that
// discovers them and the refund submission that consumes them, so a
// retried refund does not hit the gateway's status endpoint twice.
type OpKeyStore interface {
	Set(invID int64, opKey string, ttl time.Duration)

	// Get returns the cached operation key for invID if not expired,
	// or "" if missing/expired.
	Get(invID int64) string
}

type entry struct {
	opKey     string
	expiresAt time.Time
}

type OpKeys struct {
	mu   sync.RWMutex
	data map[int64]entry
}

func NewOpKeys() *OpKeys {
	return &OpKeys{
		data: make(map[int64]entry),
	}
}

func (s *OpKeys) Set(invID int64, opKey string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[invID] = entry{
		opKey:     opKey,
		expiresAt: time.Now().Add(ttl),
	}
}

func (s *OpKeys) Get(invID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[invID]
	if !ok {
		return ""
	}
	if time.Now().After(e.expiresAt) {
		delete(s.data, invID) // cleanup expired
		return ""
	}
	return e.opKey
}
