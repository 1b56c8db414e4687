package balance

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	"github.com/Aman-CERP/wbadvisor/internal/payload"
)

// Cache memoises reports by payload snapshot. A Cache with size 0 computes
// every time. Safe for concurrent use.
type Cache struct {
	calc  *Calculator
	cache *lru.Cache[string, Report]
}

// NewCache wraps calc with an LRU of size reports. Size 0 or below
// disables caching.
func NewCache(calc *Calculator, size int) *Cache {
	c := &Cache{calc: calc}
	if size > 0 {
		// lru.New only fails for a non-positive size.
		c.cache, _ = lru.New[string, Report](size)
	}
	return c
}

// Calculator returns the wrapped calculator.
func (c *Cache) Calculator() *Calculator {
	return c.calc
}

// Compute returns the report for p, from cache when the same snapshot was
// computed before.
func (c *Cache) Compute(p payload.State) Report {
	if c.cache == nil {
		return c.calc.Compute(p)
	}

	p = p.Sanitize()
	key := SnapshotKey(p)
	if r, ok := c.cache.Get(key); ok {
		return cloneReport(r)
	}
	r := c.calc.Compute(p)
	c.cache.Add(key, r)
	return cloneReport(r)
}

// Len returns the number of cached reports.
func (c *Cache) Len() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

// SnapshotKey is the canonical form of a payload: sorted station=weight
// pairs followed by the burn.
func SnapshotKey(p payload.State) string {
	var b strings.Builder
	for _, id := range p.StationIDs() {
		b.WriteString(string(id))
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(p.Weights[id], 'g', -1, 64))
		b.WriteByte(';')
	}
	b.WriteString("burn=")
	b.WriteString(strconv.FormatFloat(p.PlannedFuelBurn, 'g', -1, 64))
	return b.String()
}

// cloneReport copies the slices so callers cannot mutate cached entries.
func cloneReport(r Report) Report {
	r.Stations = append([]StationLoad(nil), r.Stations...)
	r.Advisories.StationsOverLimit = cloneIDs(r.Advisories.StationsOverLimit)
	r.Advisories.IgnoredStations = cloneIDs(r.Advisories.IgnoredStations)
	return r
}

func cloneIDs(ids []aircraft.StationID) []aircraft.StationID {
	if ids == nil {
		return nil
	}
	return append([]aircraft.StationID(nil), ids...)
}
