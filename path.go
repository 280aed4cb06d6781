// FILE: nabeghe/configurator-go/path.go
package configurator

import "strings"

// GetPath resolves a dot-notation path. One segment addresses the section
// handle itself, two address (section, key), and further segments descend
// nested maps, reporting absent at the first missing hop or non-map
// value.
func (s *Store) GetPath(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	segments := strings.Split(path, ".")
	switch len(segments) {
	case 1:
		return s.Section(path), true
	case 2:
		return s.Get(segments[0], segments[1])
	default:
		value, ok := s.Get(segments[0], segments[1])
		if !ok {
			return nil, false
		}
		return navigateValue(value, segments[2:])
	}
}

// SetPath writes through a dot-notation path and returns the store for
// chaining. One segment replaces the whole section and only accepts a
// section-shaped map; other values are ignored. Deeper paths autovivify
// intermediate maps, overwriting non-map intermediates, and write the
// section back through a bulk replace.
func (s *Store) SetPath(path string, value any) *Store {
	if path == "" {
		return s
	}
	segments := strings.Split(path, ".")
	if len(segments) == 1 {
		if m, ok := value.(map[string]any); ok {
			s.Replace(path, m)
		}
		return s
	}

	section := segments[0]
	bulk := s.All(section, false)
	setNestedValue(bulk, strings.Join(segments[1:], "."), value)
	s.Replace(section, bulk)
	return s
}
