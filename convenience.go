// File: nabeghe/configurator-go/convenience.go
package configurator

import (
	"fmt"
	"io"
	"strings"
)

// Quick creates a file-backed store with a defaults table in a single
// call. This is the recommended way to initialize configuration for most
// applications.
func Quick(path string, defaults map[string]map[string]any) *Store {
	return New(Options{Path: path, Defaults: defaults})
}

// Memory creates a memory-only store with a defaults table.
func Memory(defaults map[string]map[string]any) *Store {
	return New(Options{Defaults: defaults})
}

// Validate checks that every required dot path has an explicit, non-nil
// value; defaults alone do not satisfy a requirement. A single-segment
// path requires the named section to hold at least one explicit entry.
func (s *Store) Validate(required ...string) error {
	var missing []string
	for _, path := range required {
		if !s.hasExplicitPath(path) {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s *Store) hasExplicitPath(path string) bool {
	if path == "" {
		return false
	}
	segments := strings.Split(path, ".")
	if len(segments) == 1 {
		return len(s.Keys(path)) > 0
	}
	if !s.Has(segments[0], segments[1]) {
		return false
	}
	v, ok := s.GetPath(path)
	return ok && v != nil
}

// Debug returns a formatted report of every materialized section, marking
// values that resolve from defaults.
func (s *Store) Debug() string {
	var b strings.Builder
	b.WriteString("Store Debug Info:\n")
	if s.Loadable() {
		fmt.Fprintf(&b, "Base path: %s (format %s)\n", s.basePath, s.codec.Format())
	} else {
		fmt.Fprintf(&b, "Base path: none, memory-only (format %s)\n", s.codec.Format())
	}

	for _, name := range s.Sections() {
		fmt.Fprintf(&b, "[%s]\n", name)
		for _, p := range s.orderedPairs(name, true) {
			if s.Has(name, p.key) {
				fmt.Fprintf(&b, "  %s = %v\n", p.key, p.value)
			} else {
				fmt.Fprintf(&b, "  %s = %v (default)\n", p.key, p.value)
			}
		}
	}
	return b.String()
}

// Dump writes every materialized section's explicit entries through the
// store codec, sections as top-level keys. Nil values are stripped first;
// not every format can encode them.
func (s *Store) Dump(w io.Writer) error {
	names := s.Sections()
	tree := make(map[string]any, len(names))
	for _, name := range names {
		tree[name] = stripNilValues(s.All(name, false))
	}
	data, err := s.codec.Marshal(tree, names)
	if err != nil {
		return fmt.Errorf("failed to encode store dump: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// stripNilValues deep-copies a mapping without its nil-valued entries.
func stripNilValues(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			out[k] = stripNilValues(sub)
			continue
		}
		out[k] = v
	}
	return out
}

// Clone creates a store sharing no mutable state with the original. The
// base path, codec, defaults table, and cache backend carry over; section
// handles do not.
func (s *Store) Clone() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clone := &Store{
		basePath: s.basePath,
		codec:    s.codec,
		cache:    s.cache,
		defaults: s.defaults,
		values:   make(map[string]map[string]any, len(s.values)),
		order:    make(map[string][]string, len(s.order)),
		sections: make(map[string]*Section),
	}
	for name, vals := range s.values {
		clone.values[name] = cloneMap(vals)
	}
	for name, order := range s.order {
		clone.order[name] = append([]string(nil), order...)
	}
	return clone
}
