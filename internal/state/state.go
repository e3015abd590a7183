// Package state persists the last applied source colour and mode.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/jmylchreest/mdyou/internal/colour"
	"github.com/jmylchreest/mdyou/internal/scheme"
)

// ErrNoState is returned by Load when nothing has been saved yet.
var ErrNoState = errors.New("no saved theme state")

// DefaultPath is used when no state file is configured.
const DefaultPath = "~/.config/mdyou/state.json"

// State is the persisted theme selection.
type State struct {
	SourceColor string    `json:"source_color"`
	DarkMode    bool      `json:"dark_mode"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Mode returns the theme mode recorded in s.
func (s State) Mode() scheme.ThemeMode {
	return scheme.ModeFromDark(s.DarkMode)
}

// Validate checks the recorded source colour.
func (s State) Validate() error {
	if _, err := colour.ParseHexStrict(s.SourceColor); err != nil {
		return fmt.Errorf("invalid source colour in state: %w", err)
	}
	return nil
}

// Store reads and writes a state file.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore creates a Store for path. Empty means DefaultPath; ~ is expanded.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand state path %q: %w", path, err)
	}
	return &Store{path: expanded, now: time.Now}, nil
}

// Path returns the resolved file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the saved state.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, ErrNoState
		}
		return State{}, fmt.Errorf("failed to read state file: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("failed to parse state file %s: %w", s.path, err)
	}
	if err := st.Validate(); err != nil {
		return State{}, err
	}
	return st, nil
}

// Save records source and mode. The source is normalised to #RRGGBB and
// the file is replaced atomically with mode 0600.
func (s *Store) Save(source string, mode scheme.ThemeMode) (State, error) {
	rgb, err := colour.ParseHexStrict(source)
	if err != nil {
		return State{}, fmt.Errorf("refusing to save invalid source colour: %w", err)
	}

	st := State{
		SourceColor: rgb.Hex(),
		DarkMode:    mode.IsDark(),
		UpdatedAt:   s.now().UTC().Truncate(time.Second),
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return State{}, fmt.Errorf("failed to encode state: %w", err)
	}
	data = append(data, '\n')

	if err := writeAtomic(s.path, data); err != nil {
		return State{}, err
	}
	return st, nil
}

// Clear removes the state file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to set state file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close state file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
