// FILE: nabeghe/configurator-go/cache.go
package configurator

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Cache behavior constants.
const (
	// SharedCacheTTL bounds how long a process-shared cache entry is
	// trusted without a rescan.
	SharedCacheTTL = 24 * time.Hour

	// cacheFileName is the metadata blob kept inside the base path.
	cacheFileName = "_.cache"
)

// CacheEntry records which sections have a backing file. ModTime holds
// the base directory's modification time (unix nanoseconds) at scan time;
// an entry is trusted only while this matches the live directory.
type CacheEntry struct {
	AvailableFiles []string `json:"available_files"`
	ModTime        int64    `json:"time"`
}

// MetadataCache stores the known-files set between directory scans.
// Implementations degrade silently: a failed or corrupt read reports
// absent, which triggers a rescan.
type MetadataCache interface {
	Get() (CacheEntry, bool)
	Put(entry CacheEntry) error
	Invalidate() error
}

// fileCache persists the entry as a JSON blob inside the base path.
type fileCache struct {
	path string
}

func newFileCache(basePath string) *fileCache {
	return &fileCache{path: filepath.Join(basePath, cacheFileName)}
}

func (c *fileCache) Get() (CacheEntry, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return CacheEntry{}, false
	}
	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return CacheEntry{}, false
	}
	return entry, true
}

func (c *fileCache) Put(entry CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write cache file %q: %w", c.path, err)
	}
	return nil
}

func (c *fileCache) Invalidate() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file %q: %w", c.path, err)
	}
	return nil
}

// sharedCache keeps entries in process-wide memory, keyed by a hash of
// the base path, so stores on the same directory share one entry. Entries
// additionally expire after SharedCacheTTL.
type sharedCache struct {
	key string
}

type sharedCacheEntry struct {
	entry   CacheEntry
	expires time.Time
}

var (
	sharedCacheMu      sync.Mutex
	sharedCacheEntries = make(map[string]sharedCacheEntry)
)

func newSharedCache(basePath string) *sharedCache {
	return &sharedCache{key: storeIdentity(basePath)}
}

// storeIdentity hashes the absolute base path, so relative and absolute
// spellings of the same directory share a cache slot.
func storeIdentity(basePath string) string {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		abs = basePath
	}
	h := fnv.New64a()
	h.Write([]byte(abs))
	return fmt.Sprintf("%x", h.Sum64())
}

func (c *sharedCache) Get() (CacheEntry, bool) {
	sharedCacheMu.Lock()
	defer sharedCacheMu.Unlock()
	e, ok := sharedCacheEntries[c.key]
	if !ok {
		return CacheEntry{}, false
	}
	if time.Now().After(e.expires) {
		delete(sharedCacheEntries, c.key)
		return CacheEntry{}, false
	}
	return e.entry, true
}

func (c *sharedCache) Put(entry CacheEntry) error {
	sharedCacheMu.Lock()
	defer sharedCacheMu.Unlock()
	sharedCacheEntries[c.key] = sharedCacheEntry{
		entry:   entry,
		expires: time.Now().Add(SharedCacheTTL),
	}
	return nil
}

func (c *sharedCache) Invalidate() error {
	sharedCacheMu.Lock()
	defer sharedCacheMu.Unlock()
	delete(sharedCacheEntries, c.key)
	return nil
}

// availableSections returns the known-files set, rescanning the base
// directory when the cache entry is absent, stale, or expired.
func (s *Store) availableSections() []string {
	if !s.Loadable() {
		return nil
	}
	if entry, ok := s.cache.Get(); ok && entry.ModTime == s.dirModTime() {
		return entry.AvailableFiles
	}
	return s.rebuildKnown()
}

// rebuildKnown rescans the base directory and refreshes the cache entry.
// The directory timestamp is taken before the scan, so a concurrent
// change at worst invalidates a fresh entry.
func (s *Store) rebuildKnown() []string {
	modTime := s.dirModTime()
	files := s.scanSectionFiles()
	_ = s.cache.Put(CacheEntry{AvailableFiles: files, ModTime: modTime})
	return files
}

// dirModTime returns the base directory's modification time in unix
// nanoseconds, or zero when the directory is missing.
func (s *Store) dirModTime() int64 {
	info, err := os.Stat(s.basePath)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixNano()
}

// scanSectionFiles enumerates direct children of the base path carrying
// the section file extension, sorted by name.
func (s *Store) scanSectionFiles() []string {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil
	}
	ext := s.codec.Ext()
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ext))
	}
	sort.Strings(names)
	return names
}

// fileKnown reports whether a section has a backing file per the cache.
func (s *Store) fileKnown(name string) bool {
	for _, known := range s.availableSections() {
		if known == name {
			return true
		}
	}
	return false
}
