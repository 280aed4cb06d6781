// File: nabeghe/configurator-go/io.go
package configurator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
)

// MaxSectionFileSize bounds how large a section file may be before loads
// degrade to absent.
const MaxSectionFileSize int64 = 1 << 20

// Load reads a section's backing file without touching in-memory state.
// Reports absent when the store is memory-only, the name is invalid or
// has no known file, the file is unreadable or oversized, or parsing
// fails.
func (s *Store) Load(section string) (map[string]any, bool) {
	values, _, ok := s.readSection(section)
	return values, ok
}

// readSection resolves and parses a section file, reporting the document
// order of its top-level keys.
func (s *Store) readSection(name string) (map[string]any, []string, bool) {
	if !s.Loadable() || !isValidSectionName(name) {
		return nil, nil, false
	}
	if !s.fileKnown(name) {
		return nil, nil, false
	}

	path := s.sectionFilePath(name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() > MaxSectionFileSize {
		return nil, nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, false
	}
	values, keys, err := s.codec.Unmarshal(data)
	if err != nil {
		return nil, nil, false
	}
	return values, keys, true
}

// sectionFilePath returns <basePath>/<name><ext>. Names pass
// isValidSectionName before reaching here, so the result stays inside
// the base path.
func (s *Store) sectionFilePath(name string) string {
	return filepath.Join(s.basePath, name+s.codec.Ext())
}

// Save persists one section: its explicit entries minus nil values and
// entries equal to their default. An empty result deletes the section's
// file instead of writing an empty one. The write replaces the file in
// place (remove then write, no rename) and refreshes the metadata cache.
func (s *Store) Save(section string) error {
	if !s.Loadable() {
		return ErrNotLoadable
	}
	if !isValidSectionName(section) {
		return fmt.Errorf("%w: %q", ErrInvalidSection, section)
	}
	s.Section(section)

	// Snapshot under read lock, write without.
	s.mu.RLock()
	vals := s.values[section]
	defs := s.defaults[section]
	persist := make([]pair, 0, len(vals))
	for _, k := range s.order[section] {
		v, ok := vals[k]
		if !ok || v == nil {
			continue
		}
		if d, ok := defs[k]; ok && reflect.DeepEqual(v, d) {
			continue
		}
		persist = append(persist, pair{key: k, value: cloneValue(v)})
	}
	s.mu.RUnlock()

	if len(persist) == 0 {
		if err := s.removeSectionFile(section); err != nil {
			return err
		}
		s.rebuildKnown()
		return nil
	}

	values := make(map[string]any, len(persist))
	keys := make([]string, 0, len(persist))
	for _, p := range persist {
		values[p.key] = p.value
		keys = append(keys, p.key)
	}
	data, err := s.codec.Marshal(values, keys)
	if err != nil {
		return fmt.Errorf("failed to encode section %q: %w", section, err)
	}

	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return fmt.Errorf("failed to create base path %q: %w", s.basePath, err)
	}
	path := s.sectionFilePath(section)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to replace section file %q: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		s.rebuildKnown()
		return fmt.Errorf("failed to write section file %q: %w", path, err)
	}
	s.rebuildKnown()
	return nil
}

// SaveAll persists every materialized section. It succeeds when at least
// one section saved; with none saved, the collected errors are returned.
func (s *Store) SaveAll() error {
	if !s.Loadable() {
		return ErrNotLoadable
	}
	names := s.Sections()
	if len(names) == 0 {
		return fmt.Errorf("no sections to save")
	}

	var errs []error
	saved := 0
	for _, name := range names {
		if err := s.Save(name); err != nil {
			errs = append(errs, fmt.Errorf("section %q: %w", name, err))
		} else {
			saved++
		}
	}
	if saved == 0 {
		return errors.Join(errs...)
	}
	return nil
}

// DeleteFile removes a section's backing file and refreshes the metadata
// cache. It succeeds when the file is absent afterward, including when it
// never existed.
func (s *Store) DeleteFile(section string) error {
	if !s.Loadable() {
		return ErrNotLoadable
	}
	if !isValidSectionName(section) {
		return fmt.Errorf("%w: %q", ErrInvalidSection, section)
	}
	if err := s.removeSectionFile(section); err != nil {
		return err
	}
	s.rebuildKnown()
	return nil
}

// removeSectionFile deletes the file, verifying absence rather than that
// a removal happened.
func (s *Store) removeSectionFile(section string) error {
	path := s.sectionFilePath(section)
	err := os.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to delete section file %q: %w", path, err)
}

// KnownFiles lists sections with a backing file, per the metadata cache.
// Empty for memory-only stores.
func (s *Store) KnownFiles() []string {
	if !s.Loadable() {
		return nil
	}
	return append([]string(nil), s.availableSections()...)
}
