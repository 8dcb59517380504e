package memory

import "sync"

// NameCache is an in-memory implementation of app.NameCache.
type NameCache struct {
	mu   sync.Mutex
	name string
}

func NewNameCache() *NameCache {
	return &NameCache{}
}

func (c *NameCache) Load() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name, nil
}

func (c *NameCache) Store(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
	return nil
}
