package batch

import (
	"github.com/pg-sharding/pgbatch/pkg/batchlog"
	"github.com/pg-sharding/pgbatch/pkg/params"
	"github.com/pg-sharding/pgbatch/pkg/prepstatement"
)

// Invalidate drops the preparation reference and connector affinity
// unconditionally. Called on text reassignment and on command reuse.
func (c *Command) Invalidate() {
	c.prep = nil
	c.connector = nil
	c.pendingParse = false
}

// ResolvePreparation returns the referenced entry, first clearing the
// reference if the entry has externally gone Unprepared. This accessor
// mutates: once a dead entry is observed the field stays nil until a
// fresh preparation attempt, and later resolves stop touching the dead
// entry.
func (c *Command) ResolvePreparation() *prepstatement.PreparedStatementEntry {
	if c.prep == nil {
		return nil
	}
	if c.prep.State() == prepstatement.StateUnprepared {
		batchlog.Zero.Debug().
			Str("name", c.prep.Name).
			Msg("dropping reference to unprepared statement")
		c.Invalidate()
		return nil
	}
	return c.prep
}

func (c *Command) identity() prepstatement.StatementIdentity {
	return prepstatement.StatementIdentity{
		Query:         c.FinalText(),
		ParameterOIDs: params.OIDs(c.binding.Values()),
	}
}

// RequestExplicitPreparation binds the command to the cache entry for
// its identity. It returns true when this command won the entry's
// NotPrepared transition and must transmit the Parse; false when the
// entry is already prepared or being prepared by someone else.
func (c *Command) RequestExplicitPreparation(conn Connector) bool {
	entry := c.ResolvePreparation()
	if entry != nil && c.connector != conn {
		/* prepared on some other connection, start over here */
		c.Invalidate()
		entry = nil
	}

	if entry == nil {
		entry = conn.StatementCache().GetOrAddExplicit(c.identity())
		if entry == nil {
			return false
		}
		c.prep = entry
		c.connector = conn
	}

	if entry.TryBeginPrepare() {
		c.pendingParse = true
		return true
	}
	return false
}

// RequestAutomaticPreparation consults the cache's promotion heuristic.
// The heuristic may decline, in which case this execution proceeds
// unprepared. Returns true iff the command is now prepared or becoming
// prepared.
func (c *Command) RequestAutomaticPreparation(conn Connector) bool {
	entry := c.ResolvePreparation()
	if entry != nil && c.connector != conn {
		/* prepared on some other connection, start over here */
		c.Invalidate()
		entry = nil
	}

	if entry == nil {
		entry = conn.StatementCache().TryGetAutoPrepared(c.identity())
		if entry == nil {
			return false
		}
		c.prep = entry
		c.connector = conn
	}

	if entry.TryBeginPrepare() {
		c.pendingParse = true
	}
	return true
}

// PendingParse reports whether this command must transmit the Parse for
// its entry: it is the one that moved the entry to BeingPrepared.
func (c *Command) PendingParse() bool {
	return c.pendingParse
}

// ParseSent clears the pending mark once the Parse has been queued.
func (c *Command) ParseSent() {
	c.pendingParse = false
}

// FailPreparation rolls the referenced entry back to NotPrepared after
// the server rejected its Parse, then drops the reference so a later
// attempt starts fresh. Recoverable: the rest of the batch proceeds
// subject to error-barrier placement.
func (c *Command) FailPreparation() error {
	e := c.ResolvePreparation()
	if e == nil {
		return nil
	}
	err := e.AbortPrepare()
	c.Invalidate()
	return err
}

// StatementName is the wire-level handle for a prepared execution: the
// server-assigned name once the Parse is in flight or acknowledged, nil
// otherwise. An entry rolled back to NotPrepared has no statement on the
// server, so every holder falls back to the unnamed statement until the
// entry is re-prepared.
func (c *Command) StatementName() []byte {
	e := c.ResolvePreparation()
	if e == nil || e.State() == prepstatement.StateNotPrepared {
		return nil
	}
	return []byte(e.Name)
}
