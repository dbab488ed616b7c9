// Package resource provides the session-scoped cache through which every
// materializer finds and creates host images and materials.
//
// # Purpose
//
// Host registries are process-wide and name keyed. Two imports running at the
// same time must never both decide an image or material is missing and both
// create it. Cache derives the registry key from a logical name and offers a
// per-key critical section so lookup-or-create is a single atomic step.
//
// # Concurrency Model
//
// Locks are kept in a sync.Map keyed by kind and cache key. Different keys
// never contend, and the key space is small and stable for one session, so
// lock entries are kept until the Cache is dropped.
package resource

import (
	"sync"

	"github.com/specialistvlad/shadermat/internal/host"
	"github.com/specialistvlad/shadermat/internal/naming"
)

// Kind separates the image and material key spaces.
type Kind string

const (
	KindImage    Kind = "image"
	KindMaterial Kind = "material"
)

type lockKey struct {
	kind Kind
	key  string
}

// Cache wraps a host.Registry with key derivation and per-key locking.
type Cache struct {
	registry      host.Registry
	maxNameLength int
	locks         sync.Map // Key: lockKey, Value: *sync.Mutex
}

// New creates a cache over registry. Keys are truncated to maxNameLength
// characters; a non-positive value selects naming.DefaultMaxLength.
func New(registry host.Registry, maxNameLength int) *Cache {
	if maxNameLength <= 0 {
		maxNameLength = naming.DefaultMaxLength
	}
	return &Cache{registry: registry, maxNameLength: maxNameLength}
}

// Registry returns the wrapped host registry.
func (c *Cache) Registry() host.Registry {
	return c.registry
}

// MaxNameLength returns the key length limit.
func (c *Cache) MaxNameLength() int {
	return c.maxNameLength
}

// Key derives the registry key for a logical name.
func (c *Cache) Key(name string) string {
	return naming.Truncate(name, c.maxNameLength)
}

// WithLock runs fn while holding the lock for key in the kind's key space.
func (c *Cache) WithLock(kind Kind, key string, fn func() error) error {
	mu := c.lockFor(kind, key)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

func (c *Cache) lockFor(kind Kind, key string) *sync.Mutex {
	k := lockKey{kind: kind, key: key}
	if mu, ok := c.locks.Load(k); ok {
		return mu.(*sync.Mutex)
	}
	mu, _ := c.locks.LoadOrStore(k, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Image looks up an image by cache key.
func (c *Cache) Image(key string) (host.Image, bool) {
	return c.registry.Image(key)
}

// Material looks up a material by cache key.
func (c *Cache) Material(key string) (host.Material, bool) {
	return c.registry.Material(key)
}
