package application

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
)

const defaultCatalogTTL = 10 * time.Minute

// CatalogCache memoizes service summaries for one orchestrator. Entries are
// display-only and expire after ttl.
type CatalogCache struct {
	catalog ports.ServiceCatalog
	clock   ports.Clock
	ttl     time.Duration

	mu      sync.Mutex
	entries map[int64]catalogEntry
	lookups singleflight.Group
}

type catalogEntry struct {
	summary   domain.ServiceSummary
	fetchedAt time.Time
}

func NewCatalogCache(catalog ports.ServiceCatalog, ttl time.Duration, clock ports.Clock) *CatalogCache {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &CatalogCache{
		catalog: catalog,
		clock:   clock,
		ttl:     ttl,
		entries: map[int64]catalogEntry{},
	}
}

func (c *CatalogCache) Lookup(ctx context.Context, serviceID int64) (domain.ServiceSummary, error) {
	if summary, ok := c.cached(serviceID); ok {
		return summary, nil
	}

	value, err, _ := c.lookups.Do(strconv.FormatInt(serviceID, 10), func() (any, error) {
		summary, err := c.catalog.GetService(ctx, serviceID)
		if err != nil {
			return domain.ServiceSummary{}, err
		}
		c.mu.Lock()
		c.entries[serviceID] = catalogEntry{summary: summary, fetchedAt: c.clock.Now()}
		c.mu.Unlock()
		return summary, nil
	})
	if err != nil {
		return domain.ServiceSummary{}, err
	}
	return value.(domain.ServiceSummary), nil
}

// Reset drops every cached entry.
func (c *CatalogCache) Reset() {
	c.mu.Lock()
	c.entries = map[int64]catalogEntry{}
	c.mu.Unlock()
}

func (c *CatalogCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *CatalogCache) cached(serviceID int64) (domain.ServiceSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[serviceID]
	if !ok {
		return domain.ServiceSummary{}, false
	}
	if c.clock.Now().Sub(entry.fetchedAt) > c.ttl {
		delete(c.entries, serviceID)
		return domain.ServiceSummary{}, false
	}
	return entry.summary, true
}
