// Package registry persists the set of repositories gitjournal tracks.
//
// The store lives in the gitjournal home directory as repos.yml. The legacy
// repos.json is read when no YAML file exists; JSON is valid YAML so the same
// decoder handles both. Saving always writes repos.yml.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmragsdale/git-journal/internal/fsutil"
)

const (
	fileName       = "repos.yml"
	legacyFileName = "repos.json"
)

// Entry describes one tracked repository. Name is the map key on disk.
type Entry struct {
	Name string `yaml:"-"`
	Path string `yaml:"path"`
	// Added is kept as text so timestamps written by older versions
	// (ISO 8601 without zone) load unchanged.
	Added         string `yaml:"added"`
	HookInstalled bool   `yaml:"hook_installed"`
}

// AddedAt parses Added. It returns the zero time when Added is empty or
// not a recognised timestamp.
func (e Entry) AddedAt() time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, e.Added); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Exists reports whether the entry's path is present on disk.
func (e Entry) Exists() bool {
	_, err := os.Stat(e.Path)
	return err == nil
}

// Snapshot is an immutable view of the registry. Methods that change it
// return a new Snapshot.
type Snapshot struct {
	entries map[string]Entry
}

// NewSnapshot builds a snapshot from entries, keyed by Entry.Name.
func NewSnapshot(entries ...Entry) Snapshot {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}
	return Snapshot{entries: m}
}

// Len returns the number of tracked repositories.
func (s Snapshot) Len() int {
	return len(s.entries)
}

// Names returns repository names in sorted order.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns all entries sorted by name.
func (s Snapshot) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, name := range s.Names() {
		out = append(out, s.entries[name])
	}
	return out
}

// Get returns the entry for name.
func (s Snapshot) Get(name string) (Entry, bool) {
	e, ok := s.entries[name]
	return e, ok
}

// With returns a copy of s with e added or replaced.
func (s Snapshot) With(e Entry) Snapshot {
	m := make(map[string]Entry, len(s.entries)+1)
	for k, v := range s.entries {
		m[k] = v
	}
	m[e.Name] = e
	return Snapshot{entries: m}
}

// Store loads and saves the registry file under Dir.
type Store struct {
	// Dir is the gitjournal home directory.
	Dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the registry file written by Save.
func (s *Store) Path() string {
	return filepath.Join(s.Dir, fileName)
}

// Load reads the registry. A missing file yields an empty snapshot.
func (s *Store) Load() (Snapshot, error) {
	for _, name := range []string{fileName, legacyFileName} {
		path := filepath.Join(s.Dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Snapshot{}, fmt.Errorf("reading registry %s: %w", path, err)
		}
		return decode(data, path)
	}
	return NewSnapshot(), nil
}

func decode(data []byte, path string) (Snapshot, error) {
	var raw map[string]Entry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("parsing registry %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(raw))
	for name, e := range raw {
		e.Name = name
		entries = append(entries, e)
	}
	return NewSnapshot(entries...), nil
}

// Save writes the snapshot to repos.yml, creating Dir if needed.
// Readers never see a partially written file.
func (s *Store) Save(snap Snapshot) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating registry directory: %w", err)
	}

	raw := make(map[string]Entry, snap.Len())
	for _, e := range snap.Entries() {
		raw[e.Name] = e
	}

	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}

	if err := fsutil.WriteFileAtomic(s.Path(), data); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	return nil
}

// Track loads the registry, adds or replaces e, and saves it. It returns
// the snapshot that was written.
func (s *Store) Track(e Entry) (Snapshot, error) {
	snap, err := s.Load()
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading registry: %w", err)
	}

	snap = snap.With(e)

	if err := s.Save(snap); err != nil {
		return Snapshot{}, fmt.Errorf("saving registry: %w", err)
	}
	return snap, nil
}
