package repository

import (
	"context"
	"path"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/AzielCF/az-press/caching/domain"
	"github.com/sirupsen/logrus"
)

// sweepEvery is the number of writes between two passes that drop expired keys.
const sweepEvery = 256

type entryKind int

const (
	kindString entryKind = iota
	kindCounter
	kindSet
)

type memoryEntry struct {
	kind     entryKind
	data     []byte
	counter  int64
	members  map[string]struct{}
	expireAt time.Time // zero means no expiry
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

// MemoryBackend implements domain.Backend with a process-local map.
// It is the default backend for single-instance deployments and for tests.
// Expired keys are invisible immediately and physically removed on later writes.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	clock   domain.Clock
	writes  int
}

// NewMemoryBackend creates an empty backend. A nil clock uses the wall clock.
func NewMemoryBackend(clock domain.Clock) *MemoryBackend {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &MemoryBackend{
		entries: make(map[string]*memoryEntry),
		clock:   clock,
	}
}

// live returns the entry for key, dropping it when expired. Caller holds mu.
func (m *MemoryBackend) live(key string) (*memoryEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if e.expired(m.clock.Now()) {
		delete(m.entries, key)
		return nil, false
	}
	return e, true
}

// wrote counts a mutation and sweeps expired keys periodically. Caller holds mu.
func (m *MemoryBackend) wrote() {
	m.writes++
	if m.writes%sweepEvery != 0 {
		return
	}
	now := m.clock.Now()
	removed := 0
	for key, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, key)
			removed++
		}
	}
	if removed > 0 {
		logrus.Debugf("[MemoryBackend] Sweep removed %d expired keys", removed)
	}
}

func (m *MemoryBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := &memoryEntry{kind: kindString, data: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expireAt = m.clock.Now().Add(ttl)
	}
	m.entries[key] = e
	m.wrote()
	return nil
}

func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		return nil, false, nil
	}
	switch e.kind {
	case kindString:
		return append([]byte(nil), e.data...), true, nil
	case kindCounter:
		return []byte(strconv.FormatInt(e.counter, 10)), true, nil
	default:
		return nil, false, domain.ErrWrongType
	}
}

func (m *MemoryBackend) Delete(ctx context.Context, keys ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, key := range keys {
		if _, ok := m.live(key); ok {
			delete(m.entries, key)
			n++
		}
	}
	m.wrote()
	return n, nil
}

func (m *MemoryBackend) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.live(key)
	return ok, nil
}

// Scan returns the live keys matching pattern in lexical order.
func (m *MemoryBackend) Scan(ctx context.Context, pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	var keys []string
	for key, e := range m.entries {
		if e.expired(now) {
			continue
		}
		if pattern == "" || pattern == "*" {
			keys = append(keys, key)
			continue
		}
		if matched, _ := path.Match(pattern, key); matched {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryBackend) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		e = &memoryEntry{kind: kindCounter}
		if ttl > 0 {
			e.expireAt = m.clock.Now().Add(ttl)
		}
		m.entries[key] = e
	}
	if e.kind != kindCounter {
		return 0, domain.ErrWrongType
	}
	e.counter++
	m.wrote()
	return e.counter, nil
}

func (m *MemoryBackend) Counter(ctx context.Context, key string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		return 0, false, nil
	}
	if e.kind != kindCounter {
		return 0, false, domain.ErrWrongType
	}
	return e.counter, true, nil
}

func (m *MemoryBackend) ToggleMember(ctx context.Context, key, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		e = &memoryEntry{kind: kindSet, members: make(map[string]struct{})}
		m.entries[key] = e
	}
	if e.kind != kindSet {
		return false, domain.ErrWrongType
	}
	m.wrote()

	if _, liked := e.members[member]; liked {
		delete(e.members, member)
		if len(e.members) == 0 {
			delete(m.entries, key)
		}
		return false, nil
	}
	e.members[member] = struct{}{}
	return true, nil
}

func (m *MemoryBackend) IsMember(ctx context.Context, key, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		return false, nil
	}
	if e.kind != kindSet {
		return false, domain.ErrWrongType
	}
	_, found := e.members[member]
	return found, nil
}

func (m *MemoryBackend) Cardinality(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		return 0, nil
	}
	if e.kind != kindSet {
		return 0, domain.ErrWrongType
	}
	return int64(len(e.members)), nil
}

func (m *MemoryBackend) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len returns the number of physically stored keys, expired ones included.
func (m *MemoryBackend) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
