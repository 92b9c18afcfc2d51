package charts

import (
	"fmt"

	"finbuddy/internal/cache"
	"finbuddy/internal/ledger"
)

// Kind selects which chart to draw.
type Kind string

const (
	ByDate     Kind = "date"
	ByCategory Kind = "category"
)

// Cached memoizes rendered charts per ledger revision. A new revision
// produces new keys, so stale images are never served.
type Cached struct {
	r     *Renderer
	cache cache.Cache[[]byte]
}

func NewCached(r *Renderer, c cache.Cache[[]byte]) *Cached {
	return &Cached{r: r, cache: c}
}

// Render returns the chart of kind for snap.
func (c *Cached) Render(snap ledger.Snapshot, kind Kind, f Format) ([]byte, error) {
	key := fmt.Sprintf("%s:%s:%d", kind, f, snap.Revision)
	if b, ok := c.cache.Get(key); ok {
		return b, nil
	}

	var (
		b   []byte
		err error
	)
	switch kind {
	case ByDate:
		b, err = c.r.DateBar(snap.GroupByDate(), f)
	case ByCategory:
		b, err = c.r.CategoryPie(snap.GroupByCategory(), f)
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, b)
	return b, nil
}
