// Package diskcache is a key-value store that keeps one JSON file per key.
//
// Entries are written to a temporary file in the same directory and renamed
// into place, so a reader only ever sees a complete entry or no entry at all.
// Files that fail to decode, or whose embedded key does not match the file
// name, are reported as misses.
package diskcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"leetcode-anki/internal/domain/errs"
	"leetcode-anki/internal/domain/ports"
)

const (
	fileExt    = ".json"
	tempPrefix = ".tmp-"
)

type entry[T any] struct {
	Key      string    `json:"key"`
	StoredAt time.Time `json:"stored_at"`
	Value    T         `json:"value"`
}

// Cache stores values of type T under <root>/<namespace>/<key>.json.
type Cache[T any] struct {
	dir    string
	logger ports.Logger
	now    func() time.Time

	mu sync.RWMutex
	// memo keeps encoded values so every Get decodes a private copy.
	memo map[string]json.RawMessage
}

var _ ports.Cache[int] = (*Cache[int])(nil)

// New opens (creating if needed) the namespace directory under root.
func New[T any](root, namespace string, logger ports.Logger) (*Cache[T], error) {
	if root == "" {
		return nil, fmt.Errorf("cache root is empty: %w", errs.ErrConfiguration)
	}
	if err := validateKey(namespace); err != nil {
		return nil, fmt.Errorf("cache namespace: %w", err)
	}
	dir := filepath.Join(root, namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache[T]{
		dir:    dir,
		logger: logger,
		now:    time.Now,
		memo:   make(map[string]json.RawMessage),
	}, nil
}

// Dir returns the namespace directory.
func (c *Cache[T]) Dir() string {
	return c.dir
}

// Get returns the stored value for key. Missing, unreadable and corrupt
// entries all report false; corruption is logged.
func (c *Cache[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	if err := validateKey(key); err != nil {
		c.warn(ctx, "invalid cache key", "key", key, "error", err)
		return zero, false
	}

	c.mu.RLock()
	raw, ok := c.memo[key]
	c.mu.RUnlock()
	if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, true
		}
	}

	v, raw, err := c.read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return zero, false
	}
	if err != nil {
		c.warn(ctx, "ignoring unreadable cache entry", "key", key, "path", c.path(key), "error", err)
		return zero, false
	}

	c.mu.Lock()
	c.memo[key] = raw
	c.mu.Unlock()
	return v, true
}

func (c *Cache[T]) read(key string) (T, json.RawMessage, error) {
	var zero T
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return zero, nil, err
	}

	var e entry[json.RawMessage]
	if err := json.Unmarshal(data, &e); err != nil {
		return zero, nil, fmt.Errorf("decode %s: %w: %v", key, errs.ErrCacheCorrupt, err)
	}
	if e.Key != key {
		return zero, nil, fmt.Errorf("entry key %q stored under %q: %w", e.Key, key, errs.ErrCacheCorrupt)
	}
	var v T
	if err := json.Unmarshal(e.Value, &v); err != nil {
		return zero, nil, fmt.Errorf("decode %s value: %w: %v", key, errs.ErrCacheCorrupt, err)
	}
	return v, e.Value, nil
}

// Put stores value under key, replacing any existing entry atomically.
func (c *Cache[T]) Put(ctx context.Context, key string, value T) error {
	if err := validateKey(key); err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	data, err := json.Marshal(entry[json.RawMessage]{Key: key, StoredAt: c.now().UTC(), Value: raw})
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := writeAtomic(c.dir, c.path(key), data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	c.mu.Lock()
	c.memo[key] = raw
	c.mu.Unlock()
	return nil
}

// Erase removes the entry for key. Erasing a missing key is not an error.
func (c *Cache[T]) Erase(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.memo, key)
	c.mu.Unlock()

	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("erase %s: %w", key, err)
	}
	return nil
}

// Clear removes every entry and leftover temporary file in the namespace.
func (c *Cache[T]) Clear() error {
	c.mu.Lock()
	c.memo = make(map[string]json.RawMessage)
	c.mu.Unlock()

	items, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("list cache dir: %w", err)
	}
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		name := item.Name()
		if !strings.HasSuffix(name, fileExt) && !strings.HasPrefix(name, tempPrefix) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}

// Keys lists the keys with an entry file, in directory order.
func (c *Cache[T]) Keys() ([]string, error) {
	items, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("list cache dir: %w", err)
	}
	keys := make([]string, 0, len(items))
	for _, item := range items {
		name := item.Name()
		if item.IsDir() || strings.HasPrefix(name, tempPrefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileExt))
	}
	return keys, nil
}

func (c *Cache[T]) path(key string) string {
	return filepath.Join(c.dir, key+fileExt)
}

func (c *Cache[T]) warn(ctx context.Context, msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(ctx, msg, args...)
	}
}

func writeAtomic(dir, path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func validateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("empty cache key: %w", errs.ErrConfiguration)
	case strings.HasPrefix(key, "."):
		return fmt.Errorf("cache key %q starts with a dot: %w", key, errs.ErrConfiguration)
	case strings.ContainsAny(key, `/\`+"\x00"):
		return fmt.Errorf("cache key %q contains a path separator: %w", key, errs.ErrConfiguration)
	}
	return nil
}
