package prepstatement

import (
	"fmt"

	"github.com/pg-sharding/pgbatch/pkg/batchlog"
	"github.com/pg-sharding/pgbatch/pkg/config"
)

// Cache hands out prepared-statement entries keyed by statement
// identity. A cache belongs to exactly one connection and its calls are
// serialized by that connection; only the entries themselves are safe
// to share across in-flight commands.
type Cache interface {
	// GetOrAddExplicit returns the entry for the given identity,
	// creating one in NotPrepared if none exists.
	GetOrAddExplicit(id StatementIdentity) *PreparedStatementEntry

	// TryGetAutoPrepared consults the automatic-preparation heuristic.
	// Nil means the heuristic declines this time and the execution
	// proceeds unprepared.
	TryGetAutoPrepared(id StatementIdentity) *PreparedStatementEntry
}

// StatementCache is the default Cache: a per-connection map with a
// usage-count promotion heuristic for automatic preparation.
type StatementCache struct {
	minUses     int
	maxPrepared int

	nameSeq uint64
	entries map[uint64]*PreparedStatementEntry
	uses    map[uint64]int
}

var _ Cache = &StatementCache{}

func NewStatementCache(minUses, maxPrepared int) *StatementCache {
	return &StatementCache{
		minUses:     minUses,
		maxPrepared: maxPrepared,
		entries:     map[uint64]*PreparedStatementEntry{},
		uses:        map[uint64]int{},
	}
}

// NewStatementCacheFromConfig builds a cache with the loaded batch
// tunables.
func NewStatementCacheFromConfig() *StatementCache {
	cfg := config.BatchConfig()
	return NewStatementCache(cfg.AutoPrepareMinUses, cfg.MaxAutoPrepared)
}

func (c *StatementCache) GetOrAddExplicit(id StatementIdentity) *PreparedStatementEntry {
	hash := id.Hash()
	if e, ok := c.entries[hash]; ok {
		return e
	}
	e := NewEntry(c.nextName(), id)
	c.entries[hash] = e

	batchlog.Zero.Debug().
		Str("name", e.Name).
		Uint64("hash", hash).
		Msg("registered explicit prepared statement")
	return e
}

func (c *StatementCache) TryGetAutoPrepared(id StatementIdentity) *PreparedStatementEntry {
	hash := id.Hash()
	if e, ok := c.entries[hash]; ok {
		return e
	}

	c.uses[hash]++
	if c.uses[hash] < c.minUses {
		return nil
	}
	if len(c.entries) >= c.maxPrepared {
		/* TODO: evict the coldest statement instead of declining */
		return nil
	}

	e := NewEntry(c.nextName(), id)
	c.entries[hash] = e
	delete(c.uses, hash)

	batchlog.Zero.Debug().
		Str("name", e.Name).
		Uint64("hash", hash).
		Msg("promoted statement to auto-prepared")
	return e
}

// Evict marks the entry for the given identity Unprepared and forgets
// it, e.g. after the server discarded its plans.
func (c *StatementCache) Evict(id StatementIdentity) {
	hash := id.Hash()
	if e, ok := c.entries[hash]; ok {
		e.Unprepare()
		delete(c.entries, hash)
	}
}

func (c *StatementCache) Len() int {
	return len(c.entries)
}

func (c *StatementCache) nextName() string {
	c.nameSeq++
	return fmt.Sprintf("__pgbatch_%d", c.nameSeq)
}
