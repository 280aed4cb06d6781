// File: nabeghe/configurator-go/section.go
package configurator

// Section is a view over one named section of its owning store. It holds
// no data of its own; every method delegates to the store scoped to the
// section name, so multiple references to the same section never diverge.
type Section struct {
	store *Store
	name  string
}

// Name returns the section's name.
func (s *Section) Name() string { return s.name }

// Store returns the owning store.
func (s *Section) Store() *Store { return s.store }

// Get resolves a key: explicit value first, then the section default.
func (s *Section) Get(key string) (any, bool) {
	return s.store.Get(s.name, key)
}

// Value returns the resolved value, or nil when the key is absent.
func (s *Section) Value(key string) any {
	v, _ := s.store.Get(s.name, key)
	return v
}

// Default returns the construction-time default for a key.
func (s *Section) Default(key string) (any, bool) {
	return s.store.Default(s.name, key)
}

// Set writes an explicit value and returns the section for chaining.
func (s *Section) Set(key string, value any) *Section {
	s.store.Set(s.name, key, value)
	return s
}

// SetOnce writes only when no explicit value exists yet.
func (s *Section) SetOnce(key string, value any) bool {
	return s.store.SetOnce(s.name, key, value)
}

// Has reports whether the key has an explicit value.
func (s *Section) Has(key string) bool {
	return s.store.Has(s.name, key)
}

// Delete removes an explicit entry.
func (s *Section) Delete(key string) bool {
	return s.store.Delete(s.name, key)
}

// All returns the section's entries; see Store.All.
func (s *Section) All(withDefaults bool) map[string]any {
	return s.store.All(s.name, withDefaults)
}

// Keys returns the explicit keys in insertion order.
func (s *Section) Keys() []string {
	return s.store.Keys(s.name)
}

// Len counts the explicit entries.
func (s *Section) Len() int {
	return len(s.store.Keys(s.name))
}

// Replace swaps the explicit entries wholesale; see Store.Replace.
func (s *Section) Replace(values map[string]any) {
	s.store.Replace(s.name, values)
}

// Clear drops all explicit entries but keeps the section materialized.
func (s *Section) Clear() {
	s.store.Replace(s.name, nil)
}

// Each iterates the section; see Store.Each.
func (s *Section) Each(withDefaults bool, fn func(key string, value any) bool) {
	s.store.Each(s.name, withDefaults, fn)
}

// Load reads the backing file without touching in-memory state.
func (s *Section) Load() (map[string]any, bool) {
	return s.store.Load(s.name)
}

// Save persists the section; see Store.Save.
func (s *Section) Save() error {
	return s.store.Save(s.name)
}

// DeleteFile removes the backing file; see Store.DeleteFile.
func (s *Section) DeleteFile() error {
	return s.store.DeleteFile(s.name)
}

// Eject drops the section's in-memory state; the file is untouched. The
// handle keeps working against the store's current state, and the next
// Store.Section call returns a fresh handle.
func (s *Section) Eject() {
	s.store.Eject(s.name)
}
