package datasync

import (
	"sync"

	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
)

// Snapshot is a point-in-time copy of the cache.
type Snapshot struct {
	Profile domain.Profile
	Loaded  bool
	Version uint64
}

// Cache holds the client's single copy of the profile. Every mutation bumps
// Version, which lets a rollback detect that a newer response landed.
type Cache struct {
	mu      sync.RWMutex
	profile domain.Profile
	loaded  bool
	version uint64
}

func NewCache() *Cache {
	return &Cache{}
}

func (c *Cache) Get() (domain.Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile, c.loaded
}

func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{Profile: c.profile, Loaded: c.loaded, Version: c.version}
}

// Set stores p and returns the new version.
func (c *Cache) Set(p domain.Profile) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = p
	c.loaded = true
	c.version++
	return c.version
}

// Invalidate marks the cached copy stale. The last value is kept so a later
// fetch can tell whether anything changed.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.version++
}

// RestoreIf puts snap back only while the cache is still at version.
func (c *Cache) RestoreIf(version uint64, snap Snapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.version != version {
		return false
	}
	c.profile = snap.Profile
	c.loaded = snap.Loaded
	c.version++
	return true
}

func sameProfile(a, b domain.Profile) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Bio == b.Bio &&
		a.Email == b.Email &&
		a.Phone == b.Phone &&
		a.Location == b.Location &&
		a.UpdatedAt.Equal(b.UpdatedAt)
}
