package batch

import (
	"fmt"
	"math"

	"github.com/pg-sharding/pgbatch/pkg/models/batcherror"
	"github.com/pg-sharding/pgbatch/pkg/params"
	"github.com/pg-sharding/pgbatch/pkg/prepstatement"
	"github.com/pg-sharding/pgbatch/pkg/stmtkind"
)

// ErrorBarrier controls whether a Sync follows this command inside a
// batch. Inherit defers to the batch-level default.
type ErrorBarrier int8

const (
	BarrierInherit = ErrorBarrier(iota)
	BarrierEnabled
	BarrierDisabled
)

func (b ErrorBarrier) String() string {
	switch b {
	case BarrierInherit:
		return "INHERIT"
	case BarrierEnabled:
		return "ENABLED"
	case BarrierDisabled:
		return "DISABLED"
	}
	return "invalid"
}

// Resolve computes the effective barrier against the batch default.
func (b ErrorBarrier) Resolve(batchDefault bool) bool {
	switch b {
	case BarrierEnabled:
		return true
	case BarrierDisabled:
		return false
	}
	return batchDefault
}

// Connector identifies the physical connection a statement was prepared
// on. Handles are compared by reference only; the connector owns the
// statement cache for its connection.
type Connector interface {
	StatementCache() prepstatement.Cache
}

// Command is one executable statement inside a pipelined batch: its
// text, positional parameters, preparation state and completion outcome.
// A command executes strictly sequentially on one connection; it is not
// safe for concurrent use, only the prepared-statement entries it
// references are.
type Command struct {
	text    string
	binding params.Binding

	kind         stmtkind.Kind
	rowsAffected uint64
	objectID     uint32

	finalText    string
	hasFinalText bool

	prep         *prepstatement.PreparedStatementEntry
	connector    Connector
	pendingParse bool

	barrier ErrorBarrier
}

func NewCommand(text string) *Command {
	return &Command{text: text}
}

func (c *Command) Text() string {
	return c.text
}

// SetText reassigns the statement text. This invalidates any preparation
// and connector affinity: the prepared plan belongs to the old text.
func (c *Command) SetText(text string) {
	c.text = text
	c.finalText = ""
	c.hasFinalText = false
	c.Invalidate()
}

func (c *Command) ErrorBarrier() ErrorBarrier {
	return c.barrier
}

func (c *Command) SetErrorBarrier(b ErrorBarrier) {
	c.barrier = b
}

func (c *Command) Kind() stmtkind.Kind {
	return c.kind
}

func (c *Command) RowsAffected() uint64 {
	return c.rowsAffected
}

func (c *Command) ObjectID() uint32 {
	return c.objectID
}

// FinalText is the text actually transmitted: the rewritten form when
// one was recorded, the original text otherwise.
func (c *Command) FinalText() string {
	if c.hasFinalText {
		return c.finalText
	}
	return c.text
}

func (c *Command) SetFinalText(text string) {
	c.finalText = text
	c.hasFinalText = true
}

// Parameters returns the owned parameter list for building positional
// values, materializing it on first use. Nil while a borrowed binding is
// in place.
func (c *Command) Parameters() *params.List {
	return c.binding.List()
}

// BindBorrowed aliases an externally controlled parameter sequence, e.g.
// a caller's parameter collection mirrored into this command.
func (c *Command) BindBorrowed(vals []params.Parameter) {
	c.binding.SetBorrowed(vals)
}

func (c *Command) HasParameters() bool {
	return c.binding.HasParameters()
}

// ParameterValues is the ordered value sequence handed to the encoder.
func (c *Command) ParameterValues() []params.Parameter {
	return c.binding.Values()
}

// RecordsAffected derives the signed record count from the completion
// snapshot. Kinds that produce result sets yield -1 by protocol
// convention; counting kinds fail loudly instead of truncating when the
// count exceeds the int32 range.
func (c *Command) RecordsAffected() (int32, error) {
	if !c.kind.ExpectsRowCount() {
		return -1, nil
	}
	if c.rowsAffected > math.MaxInt32 {
		return 0, batcherror.NewBatchError(
			fmt.Sprintf("rows affected %d overflows record count", c.rowsAffected),
			batcherror.BATCH_RECORDS_OVERFLOW)
	}
	return int32(c.rowsAffected), nil
}

// Reset returns the command to its post-construction state for reuse:
// default outcome, no parameters, Inherit barrier, no preparation.
// The statement text survives; use SetText to change it.
func (c *Command) Reset() {
	c.kind = stmtkind.Select
	c.rowsAffected = 0
	c.objectID = 0
	c.finalText = ""
	c.hasFinalText = false
	c.barrier = BarrierInherit
	c.binding.Reset()
	c.Invalidate()
}
