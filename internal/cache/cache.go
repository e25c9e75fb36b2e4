package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const entryExt = ".json"

// Entry is the on-disk form of one cached completion.
type Entry struct {
	Choices  []string  `json:"choices"`
	StoredAt time.Time `json:"storedAt"`
	// ExpiresAt is zero for entries that never expire.
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

func (e Entry) expiredAt(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Cache stores the raw choices of completion requests, one file per request.
// A disabled Cache misses on every read and drops every write.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
	now     func() time.Time
}

// New opens the cache in dir, creating it if needed. An empty dir selects the
// per-user cache directory. A non-positive ttlSeconds keeps entries forever.
func New(enabled bool, dir string, ttlSeconds int) (*Cache, error) {
	c := &Cache{enabled: enabled, now: time.Now}
	if !enabled {
		return c, nil
	}
	if dir == "" {
		d, err := defaultCacheDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	c.dir = dir
	if ttlSeconds > 0 {
		c.ttl = time.Duration(ttlSeconds) * time.Second
	}
	return c, nil
}

// Get returns the choices stored under key. Unreadable and expired entries
// are misses; expired ones are removed.
func (c *Cache) Get(key string) ([]string, bool) {
	if !c.enabled {
		return nil, false
	}
	path := c.entryPath(key)
	entry, err := readEntry(path)
	if err != nil {
		return nil, false
	}
	if entry.expiredAt(c.now()) {
		_ = os.Remove(path)
		return nil, false
	}
	return entry.Choices, true
}

// Put stores choices under key, replacing any previous entry. The file is
// written next to its final name and renamed into place, so concurrent
// readers never see a partial entry.
func (c *Cache) Put(key string, choices []string) error {
	if !c.enabled {
		return nil
	}
	now := c.now()
	entry := Entry{Choices: choices, StoredAt: now}
	if c.ttl > 0 {
		entry.ExpiresAt = now.Add(c.ttl)
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.entryPath(key)); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry and reports how many were removed.
func (c *Cache) Clear() (int, error) {
	return c.remove(func(string) bool { return true })
}

// Prune removes expired and unreadable entries and reports how many were
// removed.
func (c *Cache) Prune() (int, error) {
	now := c.now()
	return c.remove(func(path string) bool {
		entry, err := readEntry(path)
		return err != nil || entry.expiredAt(now)
	})
}

func (c *Cache) remove(match func(path string) bool) (int, error) {
	paths, err := c.entries()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, p := range paths {
		if !match(p) {
			continue
		}
		if err := os.Remove(p); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats summarizes the cache contents.
type Stats struct {
	Dir        string    `json:"dir"`
	TTLSeconds int       `json:"ttlSeconds"`
	Entries    int       `json:"entries"`
	Expired    int       `json:"expired"`
	TotalBytes int64     `json:"totalBytes"`
	Oldest     time.Time `json:"oldest,omitempty"`
}

// GetStats walks the cache directory. Unreadable entries count as expired.
func (c *Cache) GetStats() (Stats, error) {
	stats := Stats{Dir: c.dir, TTLSeconds: int(c.ttl / time.Second)}
	paths, err := c.entries()
	if err != nil {
		return stats, err
	}
	now := c.now()
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()

		entry, err := readEntry(p)
		if err != nil || entry.expiredAt(now) {
			stats.Expired++
			continue
		}
		if stats.Oldest.IsZero() || entry.StoredAt.Before(stats.Oldest) {
			stats.Oldest = entry.StoredAt
		}
	}
	return stats, nil
}

// Dir returns the cache directory, empty when disabled.
func (c *Cache) Dir() string {
	return c.dir
}

// Enabled reports whether reads and writes reach the disk.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// HashKey returns the hex SHA-256 of key.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// BuildCacheKey identifies a completion request by where it goes and what it
// asks. Sampling parameters are fixed per configuration and left out.
func BuildCacheKey(baseURL, model, prompt string) string {
	return HashKey(strings.Join([]string{baseURL, model, prompt}, "\x00"))
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, HashKey(key)+entryExt)
}

// entries lists entry files. A disabled or missing cache has none.
func (c *Cache) entries() ([]string, error) {
	if !c.enabled || c.dir == "" {
		return nil, nil
	}
	des, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}
	var paths []string
	for _, de := range des {
		if de.IsDir() || filepath.Ext(de.Name()) != entryExt {
			continue
		}
		paths = append(paths, filepath.Join(c.dir, de.Name()))
	}
	return paths, nil
}

func readEntry(path string) (Entry, error) {
	var entry Entry
	data, err := os.ReadFile(path)
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return entry, nil
}

func defaultCacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "suggestmsg"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "suggestmsg"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "suggestmsg", "cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "suggestmsg", "cache"), nil
	default:
		return filepath.Join(home, ".cache", "suggestmsg"), nil
	}
}
