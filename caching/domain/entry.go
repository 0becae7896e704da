package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// EntryVersion is the wire version written by this build.
const EntryVersion = 1

// Entry is the envelope every cached snapshot is stored in.
// Timestamps are encoded as RFC 3339 in UTC.
type Entry struct {
	Version   int             `json:"v"`
	Key       string          `json:"key"`
	StoredAt  time.Time       `json:"stored_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	Data      json.RawMessage `json:"data"`
}

// NewEntry serializes value into an envelope expiring at now+ttl.
func NewEntry(key string, value any, now time.Time, ttl time.Duration) (Entry, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to marshal cache value for %s: %w", key, err)
	}
	now = now.UTC()
	return Entry{
		Version:   EntryVersion,
		Key:       key,
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
		Data:      data,
	}, nil
}

// Expired reports whether the entry must be treated as absent at now.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Decode unmarshals the payload into dest.
func (e Entry) Decode(dest any) error {
	if err := json.Unmarshal(e.Data, dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptEntry, e.Key, err)
	}
	return nil
}

func EncodeEntry(e Entry) ([]byte, error) {
	return json.Marshal(e)
}

func DecodeEntry(raw []byte) (Entry, error) {
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	if e.Version != EntryVersion {
		return Entry{}, fmt.Errorf("%w: %d", ErrEntryVersion, e.Version)
	}
	return e, nil
}
