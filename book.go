package networth

import (
	"bytes"
	"fmt"
	"sync"
)

// Book is the single writer of a State.
//
// Every mutation goes through Apply, which runs the commands on a copy of the
// current state, persists the slots that changed and only then publishes the
// new state. Concurrent calls are serialized: the last one to complete wins.
type Book struct {
	mu      sync.Mutex
	store   Storage
	state   *State
	encoded map[string][]byte
}

// OpenBook loads the book persisted in store.
func OpenBook(store Storage) (*Book, error) {
	s, err := LoadState(store)
	if err != nil {
		return nil, err
	}
	encoded, err := encodeSlots(s)
	if err != nil {
		return nil, err
	}
	return &Book{store: store, state: s, encoded: encoded}, nil
}

// State returns a private copy of the current state.
func (b *Book) State() *State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Clone()
}

// Apply runs cmds in order as a single change.
//
// If any command fails, or the storage refuses the new slots, the book is left
// unchanged and the error is returned.
func (b *Book) Apply(cmds ...Command) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := b.state.Clone()
	for _, c := range cmds {
		if err := c.apply(next); err != nil {
			return err
		}
	}
	next.normalize()

	encoded, err := encodeSlots(next)
	if err != nil {
		return err
	}
	changed := make(map[string][]byte)
	for _, key := range Keys {
		if !bytes.Equal(encoded[key], b.encoded[key]) {
			changed[key] = encoded[key]
		}
	}
	if err := b.save(changed); err != nil {
		return err
	}
	b.state, b.encoded = next, encoded
	return nil
}

func (b *Book) save(changed map[string][]byte) error {
	if len(changed) == 0 {
		return nil
	}
	if batch, ok := b.store.(BatchStorage); ok {
		if err := batch.SaveAll(changed); err != nil {
			return fmt.Errorf("saving book: %w", err)
		}
		return nil
	}
	for _, key := range Keys {
		data, ok := changed[key]
		if !ok {
			continue
		}
		if err := b.store.Save(key, data); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}
	return nil
}
