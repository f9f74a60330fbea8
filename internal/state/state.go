package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "musicplayer"

// State is what the player remembers between runs.
type State struct {
	LastDir  string   `json:"last_dir"`
	Settings Settings `json:"settings"`
}

type Settings struct {
	Theme  string  `json:"theme"`  // "light" or "dark"
	Volume float64 `json:"volume"` // normalized [0,1]
}

func Default() *State {
	return &State{
		Settings: Settings{
			Theme:  "light",
			Volume: 1,
		},
	}
}

// Path returns the state file location under the XDG data directory.
func Path() (string, error) {
	return xdg.DataFile(filepath.Join(appName, "state.json"))
}

func EnsureDir(path string) error {
	d := filepath.Dir(path)
	if d == "." || d == "" {
		return nil
	}
	return os.MkdirAll(d, 0o755)
}

func Load(path string) (*State, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	s := Default()
	if err := json.Unmarshal(b, s); err != nil {
		return nil, err
	}
	if s.Settings.Theme != "dark" && s.Settings.Theme != "light" {
		s.Settings.Theme = "light"
	}
	if s.Settings.Volume < 0 || s.Settings.Volume > 1 {
		s.Settings.Volume = 1
	}
	if s.LastDir != "" {
		if fi, err := os.Stat(s.LastDir); err != nil || !fi.IsDir() {
			s.LastDir = ""
		}
	}
	return s, nil
}

func Save(path string, s *State) error {
	if err := EnsureDir(path); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Store keeps a State and its file together.
type Store struct {
	path  string
	State *State
}

// Open loads the state at path, falling back to defaults for a missing file.
func Open(path string) (*Store, error) {
	s, err := Load(path)
	if err != nil {
		return &Store{path: path, State: Default()}, err
	}
	return &Store{path: path, State: s}, nil
}

func (st *Store) Path() string { return st.path }

// Save writes the current state back to its file.
func (st *Store) Save() error {
	return Save(st.path, st.State)
}
