package registry

import (
	"sync/atomic"
	"time"
)

// Snapshot is one published generation of skill definitions.
// Neither the registry nor the index may be modified once published.
type Snapshot struct {
	Registry    *Registry
	Index       *TriggerIndex
	PublishedAt time.Time
	Generation  uint64
}

// Catalog publishes snapshots atomically, so readers observe either the
// previous or the next set of definitions and never a mix.
type Catalog struct {
	current atomic.Pointer[Snapshot]
}

// NewCatalog returns a catalog holding an empty snapshot.
func NewCatalog() *Catalog {
	c := &Catalog{}
	reg := New()
	c.current.Store(&Snapshot{Registry: reg, Index: BuildIndex(reg)})
	return c
}

// Current returns the published snapshot.
func (c *Catalog) Current() *Snapshot {
	return c.current.Load()
}

// Publish indexes reg and swaps it in as the current snapshot.
func (c *Catalog) Publish(reg *Registry) *Snapshot {
	for {
		prev := c.current.Load()
		next := &Snapshot{
			Registry:    reg,
			Index:       BuildIndex(reg),
			PublishedAt: time.Now(),
			Generation:  prev.Generation + 1,
		}
		if c.current.CompareAndSwap(prev, next) {
			return next
		}
	}
}
