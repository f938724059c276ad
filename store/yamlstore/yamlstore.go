// Package yamlstore persists trait assignments to a YAML document with a
// top-level "traits" mapping, the layout of a server plugin config file:
//
//	traits:
//	  0b7a2f9e-6f0c-4a53-9a3b-1d6a2b1e8c4d: SPEED_PLUS
//
// Save only replaces the traits section; every other top-level key in the
// file is preserved.
package yamlstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oriumgames/traitswap/store"
)

const traitsKey = "traits"

type document struct {
	Traits map[string]any `yaml:"traits"`
}

// Store is a file-backed store.Store.
type Store struct {
	mu   sync.Mutex
	path string
}

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// New returns a store reading and writing the file at path. The file and its
// directory are created on the first save.
func New(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Path returns the file the store writes to.
func (s *Store) Path() string {
	return s.path
}

// Load reads the traits section. A missing file yields an empty snapshot.
// Entries whose value is not a scalar string are dropped.
func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store.Snapshot{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	snap := make(store.Snapshot, len(doc.Traits))
	for key, value := range doc.Traits {
		name, ok := value.(string)
		if !ok {
			continue
		}
		snap[key] = name
	}
	return snap, nil
}

// Save atomically rewrites the file with the traits section replaced by the
// snapshot. A file that exists but cannot be decoded is left untouched.
func (s *Store) Save(ctx context.Context, snap store.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	root, err := s.readRoot()
	if err != nil {
		return err
	}
	var traits yaml.Node
	if err := traits.Encode(map[string]string(snap.Clone())); err != nil {
		return fmt.Errorf("encode traits: %w", err)
	}
	setKey(root, traitsKey, &traits)

	data, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// readRoot returns the top-level mapping of the current file, or an empty
// mapping if the file does not exist or is empty.
func (s *Store) readRoot() (*yaml.Node, error) {
	empty := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return empty, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return empty, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode %s: top level is not a mapping", s.path)
	}
	return root, nil
}

// setKey sets key to value in the mapping node m, appending it if missing.
func setKey(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

// Close is a no-op; the file is only open during Load and Save.
func (s *Store) Close() error {
	return nil
}
