// File: nabeghe/configurator-go/store.go
package configurator

import (
	"sort"
	"sync"
)

// Options configures a Store.
type Options struct {
	// Path is the directory for persisted section files. Empty means the
	// store is memory-only: loads report absent and saves fail.
	Path string

	// InitialConfig pre-seeds sections. A section present here is never
	// loaded from its file, even when one exists.
	InitialConfig map[string]map[string]any

	// Defaults is the per-section fallback table, consulted when a key
	// has no explicit value. It is copied at construction and never
	// mutated afterward.
	Defaults map[string]map[string]any

	// Format selects the section file codec: "toml" (the default),
	// "json", or "yaml". Unknown names fall back to TOML; the Builder
	// validates strictly.
	Format string

	// Codec overrides Format with a custom serializer.
	Codec Codec

	// UseSharedCache selects the process-shared metadata cache instead of
	// the file-backed blob.
	UseSharedCache bool

	// Cache overrides the metadata cache backend entirely.
	Cache MetadataCache
}

// Store holds named sections of key/value data, each optionally backed by
// one file under the base path. Sections materialize lazily on first
// access; a key resolves to its explicit value first, then the section
// default, then absent.
type Store struct {
	mu       sync.RWMutex
	basePath string
	codec    Codec
	cache    MetadataCache

	defaults map[string]map[string]any
	values   map[string]map[string]any
	order    map[string][]string
	sections map[string]*Section
}

// pair is one ordered key/value from a section snapshot.
type pair struct {
	key   string
	value any
}

// New creates a Store from the given options.
func New(opts Options) *Store {
	codec := opts.Codec
	if codec == nil {
		c, ok := codecFor(opts.Format)
		if !ok {
			c, _ = codecFor(FormatTOML)
		}
		codec = c
	}

	s := &Store{
		basePath: opts.Path,
		codec:    codec,
		defaults: make(map[string]map[string]any, len(opts.Defaults)),
		values:   make(map[string]map[string]any),
		order:    make(map[string][]string),
		sections: make(map[string]*Section),
	}

	for name, defs := range opts.Defaults {
		s.defaults[name] = cloneMap(defs)
	}
	for name, vals := range opts.InitialConfig {
		s.values[name] = cloneMap(vals)
		s.order[name] = sortedKeys(vals)
	}

	if s.basePath != "" {
		switch {
		case opts.Cache != nil:
			s.cache = opts.Cache
		case opts.UseSharedCache:
			s.cache = newSharedCache(s.basePath)
		default:
			s.cache = newFileCache(s.basePath)
		}
	}
	return s
}

// Loadable reports whether the store is file-backed.
func (s *Store) Loadable() bool {
	return s.basePath != ""
}

// Path returns the base path, empty for memory-only stores.
func (s *Store) Path() string {
	return s.basePath
}

// Format returns the active section file format name.
func (s *Store) Format() string {
	return s.codec.Format()
}

// Section returns the handle for a named section, creating it on first
// access. Creating a file-backed section with no pre-seeded values loads
// its file; a failed load leaves the section empty. Repeated calls return
// the same handle.
func (s *Store) Section(name string) *Section {
	s.mu.RLock()
	sec, ok := s.sections[name]
	seeded := false
	if !ok {
		_, seeded = s.values[name]
	}
	s.mu.RUnlock()
	if ok {
		return sec
	}

	// First access: read the backing file before taking the write lock.
	var loaded map[string]any
	var loadedOrder []string
	if !seeded && s.Loadable() {
		loaded, loadedOrder, _ = s.readSection(name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sec, ok := s.sections[name]; ok {
		return sec
	}
	if _, ok := s.values[name]; !ok {
		if loaded == nil {
			loaded = make(map[string]any)
			loadedOrder = nil
		}
		s.values[name] = loaded
		s.order[name] = loadedOrder
	}
	sec = &Section{store: s, name: name}
	s.sections[name] = sec
	return sec
}

// Get resolves a key: explicit value first (a stored nil counts), then
// the section default, then absent.
func (s *Store) Get(section, key string) (any, bool) {
	s.Section(section)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if vals, ok := s.values[section]; ok {
		if v, ok := vals[key]; ok {
			return v, true
		}
	}
	if defs, ok := s.defaults[section]; ok {
		if v, ok := defs[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set writes an explicit value. Nothing is persisted until Save.
func (s *Store) Set(section, key string, value any) {
	s.Section(section)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(section, key, value)
}

func (s *Store) setLocked(section, key string, value any) {
	vals := s.values[section]
	if vals == nil {
		vals = make(map[string]any)
		s.values[section] = vals
	}
	if _, exists := vals[key]; !exists {
		s.order[section] = append(s.order[section], key)
	}
	vals[key] = value
}

// SetOnce writes only when the key has no explicit value yet; defaults do
// not count as existing. Reports whether the write happened.
func (s *Store) SetOnce(section, key string, value any) bool {
	s.Section(section)
	s.mu.Lock()
	defer s.mu.Unlock()
	if vals, ok := s.values[section]; ok {
		if _, exists := vals[key]; exists {
			return false
		}
	}
	s.setLocked(section, key, value)
	return true
}

// Has reports whether the key has an explicit value; defaults do not
// count.
func (s *Store) Has(section, key string) bool {
	s.Section(section)
	s.mu.RLock()
	defer s.mu.RUnlock()
	vals, ok := s.values[section]
	if !ok {
		return false
	}
	_, ok = vals[key]
	return ok
}

// Delete removes an explicit entry and reports whether a removal
// happened. Defaults are untouched and resolve again afterward.
func (s *Store) Delete(section, key string) bool {
	s.Section(section)
	s.mu.Lock()
	defer s.mu.Unlock()
	vals, ok := s.values[section]
	if !ok {
		return false
	}
	if _, exists := vals[key]; !exists {
		return false
	}
	delete(vals, key)
	order := s.order[section]
	for i, k := range order {
		if k == key {
			s.order[section] = append(order[:i], order[i+1:]...)
			break
		}
	}
	return true
}

// Default returns the construction-time default for a key, ignoring
// explicit values.
func (s *Store) Default(section, key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	defs, ok := s.defaults[section]
	if !ok {
		return nil, false
	}
	v, ok := defs[key]
	return v, ok
}

// All returns a deep copy of a section's explicit entries. With defaults
// enabled, default keys not explicitly present are backfilled; an
// explicit nil still shadows its default.
func (s *Store) All(section string, withDefaults bool) map[string]any {
	s.Section(section)
	pairs := s.orderedPairs(section, withDefaults)
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		out[p.key] = cloneValue(p.value)
	}
	return out
}

// Keys returns a section's explicit keys in insertion order.
func (s *Store) Keys(section string) []string {
	s.Section(section)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order[section]...)
}

// orderedPairs snapshots a section: explicit entries in insertion order,
// then non-shadowed defaults in sorted order when requested.
func (s *Store) orderedPairs(section string, withDefaults bool) []pair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vals := s.values[section]
	out := make([]pair, 0, len(vals))
	for _, k := range s.order[section] {
		if v, ok := vals[k]; ok {
			out = append(out, pair{key: k, value: v})
		}
	}
	if withDefaults {
		defs := s.defaults[section]
		keys := make([]string, 0, len(defs))
		for k := range defs {
			if _, shadowed := vals[k]; !shadowed {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, pair{key: k, value: defs[k]})
		}
	}
	return out
}

// Replace swaps a section's explicit entries wholesale. Keys surviving
// the swap keep their insertion order; new keys append in sorted order. A
// nil map clears the section.
func (s *Store) Replace(section string, values map[string]any) {
	s.Section(section)
	s.mu.Lock()
	defer s.mu.Unlock()
	fresh := cloneMap(values)
	if fresh == nil {
		fresh = make(map[string]any)
	}

	newOrder := make([]string, 0, len(fresh))
	seen := make(map[string]bool, len(fresh))
	for _, k := range s.order[section] {
		if _, ok := fresh[k]; ok && !seen[k] {
			newOrder = append(newOrder, k)
			seen[k] = true
		}
	}
	added := make([]string, 0, len(fresh)-len(newOrder))
	for k := range fresh {
		if !seen[k] {
			added = append(added, k)
		}
	}
	sort.Strings(added)

	s.values[section] = fresh
	s.order[section] = append(newOrder, added...)
}

// Each visits a section's pairs: explicit entries in insertion order,
// then non-shadowed defaults in sorted order when requested. The visitor
// returns false to stop. Visiting happens on a snapshot without the store
// lock held, so the visitor may call back into the store.
func (s *Store) Each(section string, withDefaults bool, fn func(key string, value any) bool) {
	s.Section(section)
	for _, p := range s.orderedPairs(section, withDefaults) {
		if !fn(p.key, p.value) {
			return
		}
	}
}

// Eject drops sections' explicit values and handles from memory without
// touching their files. Unknown names are ignored. The next access loads
// from file again.
func (s *Store) Eject(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		delete(s.values, name)
		delete(s.order, name)
		delete(s.sections, name)
	}
}

// EjectAll drops every materialized section except the ones named.
func (s *Store) EjectAll(keep ...string) {
	keepSet := make(map[string]bool, len(keep))
	for _, name := range keep {
		keepSet[name] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for name := range s.values {
		if !keepSet[name] {
			delete(s.values, name)
			delete(s.order, name)
		}
	}
	for name := range s.sections {
		if !keepSet[name] {
			delete(s.sections, name)
		}
	}
}

// Sections lists materialized section names in sorted order.
func (s *Store) Sections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
