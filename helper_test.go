package networth

import (
	"fmt"
	"io/fs"
	"math"
	"maps"
	"testing"

	"github.com/etnz/networth/date"
)

// tx is a shorthand to build a transaction in tests.
func tx(on string, action Action, symbol string, qty, price float64, currency string) Transaction {
	return Transaction{
		ID:       NewID(),
		Date:     date.MustParse(on),
		Action:   action,
		Symbol:   symbol,
		Qty:      qty,
		Price:    price,
		Currency: currency,
	}
}

// near reports whether a and b are equal up to 1e-9.
func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if !near(got, want) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// memStorage is a Storage backed by a map. When failOn is set, saving that
// key fails.
type memStorage struct {
	slots  map[string][]byte
	saves  int
	failOn string
}

func newMemStorage() *memStorage { return &memStorage{slots: make(map[string][]byte)} }

func (m *memStorage) Load(key string) ([]byte, error) {
	data, ok := m.slots[key]
	if !ok {
		return nil, fmt.Errorf("slot %s: %w", key, fs.ErrNotExist)
	}
	return data, nil
}

func (m *memStorage) Save(key string, data []byte) error {
	if key == m.failOn {
		return fmt.Errorf("disk full")
	}
	m.saves++
	m.slots[key] = data
	return nil
}

func (m *memStorage) snapshot() map[string][]byte { return maps.Clone(m.slots) }
