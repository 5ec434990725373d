package networth

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// BackupFormat is the encoding of a whole-book backup.
type BackupFormat string

const (
	BackupJSON BackupFormat = "json"
	BackupYAML BackupFormat = "yaml"
)

// BackupFormatOf picks the format from a file name: .yaml and .yml are YAML,
// anything else JSON.
func BackupFormatOf(name string) BackupFormat {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return BackupYAML
	}
	return BackupJSON
}

// EncodeBackup writes the whole state as a single document.
func EncodeBackup(w io.Writer, s *State, format BackupFormat) error {
	clean := s.Clone()
	clean.finite()
	switch format {
	case BackupYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(clean); err != nil {
			return fmt.Errorf("encoding yaml backup: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(clean); err != nil {
			return fmt.Errorf("encoding json backup: %w", err)
		}
		return nil
	}
}

// DecodeBackup reads a document written by EncodeBackup.
func DecodeBackup(r io.Reader, format BackupFormat) (*State, error) {
	s := NewState()
	// decoded maps are merged into the defaults otherwise.
	s.Rates = nil
	switch format {
	case BackupYAML:
		if err := yaml.NewDecoder(r).Decode(s); err != nil {
			return nil, fmt.Errorf("decoding yaml backup: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(s); err != nil {
			return nil, fmt.Errorf("decoding json backup: %w", err)
		}
	}
	s.normalize()
	return s, nil
}
