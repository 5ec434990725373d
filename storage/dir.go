package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
)

// Dir stores each slot as <key>.json in a directory.
type Dir struct {
	path string
}

// NewDir returns a Dir rooted at path, creating the directory if needed.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage folder: %w", err)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) file(key string) string { return filepath.Join(d.path, key+".json") }

// Load returns the content of the slot file. A missing file is reported as
// fs.ErrNotExist by os.ReadFile.
func (d *Dir) Load(key string) ([]byte, error) {
	return os.ReadFile(d.file(key))
}

// Save replaces the slot file atomically.
func (d *Dir) Save(key string, data []byte) error {
	tmp, err := d.stage(key, data)
	if err != nil {
		return err
	}
	return os.Rename(tmp, d.file(key))
}

// SaveAll writes every slot to a temporary file first, then renames them in
// place, in key order. Nothing is renamed if any write fails. If a rename
// fails, the slots already renamed get their previous content back.
func (d *Dir) SaveAll(slots map[string][]byte) error {
	staged := make(map[string]string, len(slots))
	cleanup := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}
	for key, data := range slots {
		tmp, err := d.stage(key, data)
		if err != nil {
			cleanup()
			return err
		}
		staged[key] = tmp
	}

	var done []previous
	for _, key := range slices.Sorted(maps.Keys(staged)) {
		prev, err := d.previous(key)
		if err == nil {
			err = os.Rename(staged[key], d.file(key))
		}
		if err != nil {
			cleanup()
			return errors.Join(fmt.Errorf("saving %s: %w", key, err), d.restore(done))
		}
		delete(staged, key)
		done = append(done, prev)
	}
	return nil
}

// previous is the content of a slot file before a batch, nil if the file
// did not exist.
type previous struct {
	key  string
	data []byte
}

func (d *Dir) previous(key string) (previous, error) {
	data, err := os.ReadFile(d.file(key))
	if errors.Is(err, fs.ErrNotExist) {
		return previous{key: key}, nil
	}
	return previous{key: key, data: data}, err
}

// restore puts back the slot files of an interrupted batch.
func (d *Dir) restore(done []previous) error {
	var errs []error
	for _, p := range done {
		var err error
		if p.data == nil {
			err = os.Remove(d.file(p.key))
		} else {
			err = d.Save(p.key, p.data)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("restoring %s: %w", p.key, err))
		}
	}
	return errors.Join(errs...)
}

// stage writes data to a temporary file next to the slot file.
func (d *Dir) stage(key string, data []byte) (string, error) {
	f, err := os.CreateTemp(d.path, key+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("saving %s: %w", key, err)
	}
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("saving %s: %w", key, err)
	}
	return f.Name(), nil
}
