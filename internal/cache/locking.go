package cache

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// Group runs functions with mutual exclusion over cache keys.
type Group interface {
	DoWithLock(key string, fn func() (string, error)) (string, error)
}

// NoOpGroup performs no locking; every call executes immediately. This
// matches the single-user CLI semantics where a lost race costs only a
// duplicate download.
type NoOpGroup struct{}

func (NoOpGroup) DoWithLock(_ string, fn func() (string, error)) (string, error) {
	return fn()
}

// FlockGroup serializes resolutions across processes using advisory
// file locks next to the cache entries. Used by the API server, where
// concurrent identical requests are likely.
type FlockGroup struct {
	dir string

	mu    sync.Mutex
	locks map[string]*flock.Flock
}

// NewFlockGroup creates a lock group whose lock files live in dir,
// normally the cache directory itself.
func NewFlockGroup(dir string) *FlockGroup {
	return &FlockGroup{
		dir:   dir,
		locks: make(map[string]*flock.Flock),
	}
}

func (g *FlockGroup) DoWithLock(key string, fn func() (string, error)) (string, error) {
	g.mu.Lock()
	fl, ok := g.locks[key]
	if !ok {
		fl = flock.New(filepath.Join(g.dir, fmt.Sprintf("era5_%s.lock", key)))
		g.locks[key] = fl
	}
	g.mu.Unlock()

	if err := fl.Lock(); err != nil {
		return "", fmt.Errorf("acquire lock for %s: %w", key, err)
	}
	defer func() { _ = fl.Unlock() }()

	return fn()
}
