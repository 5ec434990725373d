// Package storage provides the backends a networth.Book persists its slots to.
package storage

import (
	"fmt"
	"io/fs"
	"maps"
	"sync"

	"github.com/etnz/networth"
)

// Kind names a storage backend.
type Kind string

const (
	KindDir    Kind = "dir"
	KindSQLite Kind = "sqlite"
)

// Open returns the storage of the given kind rooted at path.
func Open(kind Kind, path string) (networth.Storage, error) {
	switch kind {
	case KindDir, "":
		return NewDir(path)
	case KindSQLite:
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("unknown storage kind %q, want %q or %q", kind, KindDir, KindSQLite)
}

// Memory is a volatile storage, mostly useful in tests.
type Memory struct {
	mu    sync.Mutex
	slots map[string][]byte
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory { return &Memory{slots: make(map[string][]byte)} }

func (m *Memory) Load(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.slots[key]
	if !ok {
		return nil, fmt.Errorf("slot %q: %w", key, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = append([]byte(nil), data...)
	return nil
}

// SaveAll saves every slot at once.
func (m *Memory) SaveAll(slots map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range slots {
		m.slots[k] = append([]byte(nil), v...)
	}
	return nil
}

// Keys returns the saved slot keys.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range maps.Keys(m.slots) {
		keys = append(keys, k)
	}
	return keys
}

var (
	_ networth.BatchStorage = (*Memory)(nil)
	_ networth.BatchStorage = (*Dir)(nil)
	_ networth.BatchStorage = (*SQLite)(nil)
)
