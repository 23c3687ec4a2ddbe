package draft

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrNotFound is returned when a named draft does not exist.
var ErrNotFound = errors.New("draft not found")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]*$`)

// Store defines the interface for named draft storage.
type Store interface {
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, name string) (*Draft, error)
	Save(ctx context.Context, name string, d *Draft) error
	Delete(ctx context.Context, name string) error
}

// FileStore implements Store with one YAML file per draft.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a filesystem-backed draft store rooted at draftsDir.
func NewFileStore(draftsDir string) *FileStore {
	return &FileStore{baseDir: draftsDir}
}

// ValidateName checks that name is usable as a draft file name.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid draft name %q: use letters, digits, '.', '_' or '-'", name)
	}
	return nil
}

// List returns the names of all drafts, sorted.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yml"))
	}

	sort.Strings(names)
	return names, nil
}

// Get returns a draft by name, or nil if it does not exist.
func (s *FileStore) Get(ctx context.Context, name string) (*Draft, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	path := s.draftPath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	return LoadFile(path)
}

// Save writes a draft, replacing any draft with the same name.
func (s *FileStore) Save(ctx context.Context, name string, d *Draft) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.baseDir, err)
	}

	data, err := d.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.draftPath(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write draft: %w", err)
	}

	return nil
}

// Delete removes a draft by name.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if err := os.Remove(s.draftPath(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	return nil
}

func (s *FileStore) draftPath(name string) string {
	return filepath.Join(s.baseDir, name+".yml")
}
