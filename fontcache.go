package canvasrender

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FontCache memoizes fonts by id. Concurrent requests for a font that is
// still loading share one call to the loader. Failures are cached as well,
// so a missing font is asked for only once.
type FontCache struct {
	loader FontLoader
	group  singleflight.Group

	mu    sync.RWMutex
	fonts map[string]fontEntry
	loads int
}

type fontEntry struct {
	src GlyphSource
	err error
}

// NewFontCache wraps loader.
func NewFontCache(loader FontLoader) *FontCache {
	return &FontCache{loader: loader, fonts: make(map[string]fontEntry)}
}

// Load returns the font for id, loading it on first use.
//
// A load cancelled through ctx is not cached.
func (c *FontCache) Load(ctx context.Context, id string) (GlyphSource, error) {
	if e, ok := c.lookup(id); ok {
		return e.src, e.err
	}
	v, err, _ := c.group.Do(id, func() (any, error) {
		if e, ok := c.lookup(id); ok {
			return e.src, e.err
		}
		src, err := c.loader.LoadFont(ctx, id)
		if err != nil {
			err = fmt.Errorf("canvasrender: load font %q: %w", id, err)
			if ctx.Err() != nil {
				return nil, err
			}
		}
		c.mu.Lock()
		c.fonts[id] = fontEntry{src: src, err: err}
		c.loads++
		c.mu.Unlock()
		return src, err
	})
	if err != nil {
		return nil, err
	}
	src, _ := v.(GlyphSource)
	return src, nil
}

func (c *FontCache) lookup(id string) (fontEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.fonts[id]
	return e, ok
}

// Loads returns how many times the loader has been called to completion.
func (c *FontCache) Loads() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loads
}
