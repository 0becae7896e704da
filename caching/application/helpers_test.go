package application

import (
	"context"
	"errors"
	"time"

	"github.com/AzielCF/az-press/caching/domain"
	"github.com/AzielCF/az-press/caching/repository"
)

var errConnRefused = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newMemory() (*repository.MemoryBackend, *domain.ManualClock) {
	clock := domain.NewManualClock(epoch)
	return repository.NewMemoryBackend(clock), clock
}

// downBackend simulates an unreachable store: every call fails.
type downBackend struct{}

func (downBackend) Set(context.Context, string, []byte, time.Duration) error { return errConnRefused }
func (downBackend) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, errConnRefused }
func (downBackend) Delete(context.Context, ...string) (int64, error)         { return 0, errConnRefused }
func (downBackend) Exists(context.Context, string) (bool, error)             { return false, errConnRefused }
func (downBackend) Scan(context.Context, string) ([]string, error)           { return nil, errConnRefused }
func (downBackend) IncrWithTTL(context.Context, string, time.Duration) (int64, error) {
	return 0, errConnRefused
}
func (downBackend) Counter(context.Context, string) (int64, bool, error) { return 0, false, errConnRefused }
func (downBackend) ToggleMember(context.Context, string, string) (bool, error) {
	return false, errConnRefused
}
func (downBackend) IsMember(context.Context, string, string) (bool, error) { return false, errConnRefused }
func (downBackend) Cardinality(context.Context, string) (int64, error)     { return 0, errConnRefused }
func (downBackend) Ping(context.Context) error                             { return errConnRefused }
