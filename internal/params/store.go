package params

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

const (
	defaultsSection = "default_parameters"
	savedSection    = "saved_parameters"
)

var (
	ErrSnapshotNotFound    = errors.New("snapshot not found")
	ErrInvalidSnapshotName = errors.New("invalid snapshot name")
)

var snapshotName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Store keeps the default table and named snapshots in one YAML file:
//
//	default_parameters: {ht_initial_temp: 50, ...}
//	saved_parameters:
//	  <name>: {ht_initial_temp: 50, ...}
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Defaults returns the default table overlaid on the built-in one. Problems
// with the file never fail the call: each is returned as a warning and the
// built-in value is kept.
func (s *Store) Defaults() (Values, []error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, err := s.read()
	if err != nil {
		return Defaults(), []error{err}
	}
	if k == nil || !k.Exists(defaultsSection) {
		return Defaults(), nil
	}
	return FromMap(k.Cut(defaultsSection).Raw())
}

// Load restores a named snapshot. Unparsable fields fall back to built-in
// defaults and are returned as warnings.
func (s *Store) Load(name string) (Values, []error, error) {
	if !snapshotName.MatchString(name) {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidSnapshotName, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k, err := s.read()
	if err != nil {
		return nil, nil, err
	}
	key := savedSection + "." + name
	if k == nil || !k.Exists(key) {
		return nil, nil, fmt.Errorf("%w: %q", ErrSnapshotNotFound, name)
	}
	v, warnings := FromMap(k.Cut(key).Raw())
	return v, warnings, nil
}

// Names lists the saved snapshots in lexical order.
func (s *Store) Names() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, err := s.read()
	if err != nil {
		return nil, err
	}
	if k == nil {
		return []string{}, nil
	}
	return k.MapKeys(savedSection), nil
}

// Save writes v as the named snapshot, keeping the rest of the file. A file
// without a default table gets one from the built-ins.
func (s *Store) Save(name string, v Values) error {
	if !snapshotName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidSnapshotName, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := map[string]any{}
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", s.path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	case os.IsNotExist(err):
	default:
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	if _, ok := doc[defaultsSection]; !ok {
		doc[defaultsSection] = map[string]float64(Defaults())
	}
	saved, _ := doc[savedSection].(map[string]any)
	if saved == nil {
		saved = map[string]any{}
	}
	saved[name] = map[string]float64(Snapshot(v))
	doc[savedSection] = saved

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}
	return writeFileAtomic(s.path, out)
}

// read returns nil without error when the file does not exist.
func (s *Store) read() (*koanf.Koanf, error) {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", s.path, err)
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(s.path), kyaml.Parser()); err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	return k, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Snapshot returns a copy of v restricted to known keys.
func Snapshot(v Values) Values {
	out := make(Values, len(v))
	for k, f := range v {
		if Known(k) {
			out[k] = f
		}
	}
	return out
}
