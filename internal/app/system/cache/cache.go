// internal/app/system/cache/cache.go

// Package cache is a two-tier cache for page and user data: an in-process
// memory tier in front of an optional persistent tier. Values are stored as
// JSON, so a hit always decodes into a fresh value owned by the caller.
//
// A global switch turns caching off. While it is off reads miss, writes are
// dropped and GetOrFetch always fetches; Remove and ClearAll still act.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Prefix is prepended to every key handed to the persistent tier.
const Prefix = "ep_cache:"

// DefaultTTL applies when Options.TTL is zero.
const DefaultTTL = 5 * time.Minute

// Key names a cached value. A key that is not Enabled behaves as if the
// global switch were off.
type Key struct {
	Name    string
	Enabled bool
}

var (
	UserData = Key{Name: "userData", Enabled: true}
	HomePage = Key{Name: "homePage", Enabled: true}
)

// Keys returns the known cache keys.
func Keys() []Key { return []Key{UserData, HomePage} }

// Source says where GetOrFetch found its value.
type Source string

const (
	SourceCache Source = "cache"
	SourceFetch Source = "fetch"
)

// Tier is the persistent tier. Keys arrive already prefixed.
type Tier interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Options configure a Cache.
type Options struct {
	Enabled bool
	TTL     time.Duration
	// Tier is optional; without it only the memory tier is used.
	Tier Tier
	Now  func() time.Time
}

type memEntry struct {
	data    []byte
	expires time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	enabled atomic.Bool
	ttl     time.Duration
	tier    Tier
	now     func() time.Time
	logger  *zap.Logger

	mu  sync.RWMutex
	mem map[string]memEntry

	group singleflight.Group
}

// New creates a cache.
func New(opts Options, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Cache{
		ttl:    opts.TTL,
		tier:   opts.Tier,
		now:    opts.Now,
		logger: logger,
		mem:    make(map[string]memEntry),
	}
	c.enabled.Store(opts.Enabled)
	return c
}

// Enabled reports the global switch.
func (c *Cache) Enabled() bool { return c.enabled.Load() }

// SetEnabled flips the global switch. Turning the cache off does not clear
// stored entries.
func (c *Cache) SetEnabled(on bool) { c.enabled.Store(on) }

func (c *Cache) active(key Key) bool {
	return key.Enabled && c.enabled.Load()
}

// Get decodes the cached value for key into dst and reports whether there
// was one. A persistent hit is copied into memory.
func (c *Cache) Get(ctx context.Context, key Key, dst any) bool {
	if !c.active(key) {
		return false
	}
	data, ok := c.lookup(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("cache entry undecodable, dropping",
			zap.String("key", key.Name), zap.Error(err))
		c.Remove(ctx, key)
		return false
	}
	return true
}

// Has reports whether key currently holds a value.
func (c *Cache) Has(ctx context.Context, key Key) bool {
	if !c.active(key) {
		return false
	}
	_, ok := c.lookup(ctx, key)
	return ok
}

func (c *Cache) lookup(ctx context.Context, key Key) ([]byte, bool) {
	now := c.now()

	c.mu.RLock()
	e, ok := c.mem[key.Name]
	c.mu.RUnlock()
	if ok && now.Before(e.expires) {
		return e.data, true
	}

	if c.tier == nil {
		return nil, false
	}
	data, found, err := c.tier.Get(ctx, Prefix+key.Name)
	if err != nil {
		c.logger.Warn("cache tier read failed", zap.String("key", key.Name), zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}
	c.mu.Lock()
	c.mem[key.Name] = memEntry{data: data, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return data, true
}

// Set stores v under key in both tiers.
func (c *Cache) Set(ctx context.Context, key Key, v any) {
	if !c.active(key) {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache value not encodable", zap.String("key", key.Name), zap.Error(err))
		return
	}
	c.store(ctx, key, data)
}

func (c *Cache) store(ctx context.Context, key Key, data []byte) {
	c.mu.Lock()
	c.mem[key.Name] = memEntry{data: data, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()

	if c.tier == nil {
		return
	}
	if err := c.tier.Set(ctx, Prefix+key.Name, data, c.ttl); err != nil {
		c.logger.Warn("cache tier write failed", zap.String("key", key.Name), zap.Error(err))
	}
}

// Fetcher produces the value for a cache miss. Errors are returned to the
// caller and nothing is cached.
type Fetcher func(ctx context.Context) (any, error)

// GetOrFetch decodes the cached value for key into dst, or calls fetch,
// caches its result and decodes that into dst. Concurrent misses on the same
// key share one fetch.
func (c *Cache) GetOrFetch(ctx context.Context, key Key, dst any, fetch Fetcher) (Source, error) {
	if fetch == nil {
		return "", errors.New("cache: nil fetcher")
	}
	if c.Get(ctx, key, dst) {
		return SourceCache, nil
	}

	active := c.active(key)
	res, err, _ := c.group.Do(key.Name, func() (any, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if active {
			c.store(ctx, key, data)
		}
		return data, nil
	})
	if err != nil {
		return SourceFetch, err
	}
	if err := json.Unmarshal(res.([]byte), dst); err != nil {
		return SourceFetch, err
	}
	return SourceFetch, nil
}

// Remove evicts key from both tiers.
func (c *Cache) Remove(ctx context.Context, key Key) {
	c.mu.Lock()
	delete(c.mem, key.Name)
	c.mu.Unlock()

	if c.tier == nil {
		return
	}
	if err := c.tier.Delete(ctx, Prefix+key.Name); err != nil {
		c.logger.Warn("cache tier delete failed", zap.String("key", key.Name), zap.Error(err))
	}
}

// ClearAll empties both tiers.
func (c *Cache) ClearAll(ctx context.Context) {
	c.mu.Lock()
	c.mem = make(map[string]memEntry)
	c.mu.Unlock()

	if c.tier == nil {
		return
	}
	if err := c.tier.DeletePrefix(ctx, Prefix); err != nil {
		c.logger.Warn("cache tier clear failed", zap.Error(err))
	}
}
