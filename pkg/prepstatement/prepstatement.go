package prepstatement

import (
	"encoding/binary"
	"fmt"

	"github.com/jackc/pgx/v5/pgproto3"
	"github.com/pg-sharding/pgbatch/pkg/models/batcherror"
	"github.com/spaolacci/murmur3"
	"go.uber.org/atomic"
)

type StatementState int32

const (
	StateNotPrepared = StatementState(iota)
	StateBeingPrepared
	StatePrepared
	StateUnprepared
)

func (s StatementState) String() string {
	switch s {
	case StateNotPrepared:
		return "NOT PREPARED"
	case StateBeingPrepared:
		return "BEING PREPARED"
	case StatePrepared:
		return "PREPARED"
	case StateUnprepared:
		return "UNPREPARED"
	}
	return "invalid"
}

// StatementIdentity keys a prepared statement: the query text plus the
// exact positional parameter type OIDs it was planned with. Two commands
// with equal identity may share one entry.
type StatementIdentity struct {
	Query         string
	ParameterOIDs []uint32
}

func (id StatementIdentity) Hash() uint64 {
	h := murmur3.New64()
	_, _ = h.Write([]byte(id.Query))
	var buf [4]byte
	for _, oid := range id.ParameterOIDs {
		binary.BigEndian.PutUint32(buf[:], oid)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

type PreparedStatementDescriptor struct {
	NoData    bool
	ParamDesc *pgproto3.ParameterDescription
	RowDesc   *pgproto3.RowDescription
}

// PreparedStatementEntry tracks one server-side prepared statement.
// State moves NotPrepared -> BeingPrepared -> Prepared; Unprepared is
// terminal and reachable from any state (eviction or connection loss).
//
// The epoch is bumped every time a preparation attempt resolves, in
// either direction. A waiter that snapshotted the epoch before
// suspending can tell whether the preparer's outcome has landed without
// polling the state field alone.
type PreparedStatementEntry struct {
	Name     string
	Identity StatementIdentity
	Hash     uint64
	Desc     *PreparedStatementDescriptor

	state atomic.Int32
	epoch atomic.Uint64
}

func NewEntry(name string, id StatementIdentity) *PreparedStatementEntry {
	return &PreparedStatementEntry{
		Name:     name,
		Identity: id,
		Hash:     id.Hash(),
	}
}

func (e *PreparedStatementEntry) State() StatementState {
	return StatementState(e.state.Load())
}

func (e *PreparedStatementEntry) Epoch() uint64 {
	return e.epoch.Load()
}

// TryBeginPrepare attempts the NotPrepared -> BeingPrepared transition.
// Exactly one caller observing NotPrepared wins; everyone else proceeds
// without issuing a Parse of their own.
func (e *PreparedStatementEntry) TryBeginPrepare() bool {
	return e.state.CompareAndSwap(int32(StateNotPrepared), int32(StateBeingPrepared))
}

// CompletePrepare records a successful Parse round-trip along with the
// statement description the server returned.
func (e *PreparedStatementEntry) CompletePrepare(desc *PreparedStatementDescriptor) error {
	if !e.state.CompareAndSwap(int32(StateBeingPrepared), int32(StatePrepared)) {
		return batcherror.NewBatchError(
			fmt.Sprintf("complete prepare in state %s", e.State()),
			batcherror.BATCH_PREPARE_SYNC)
	}
	e.Desc = desc
	e.epoch.Inc()
	return nil
}

// AbortPrepare rolls BeingPrepared back to NotPrepared after the server
// rejected the Parse, so a later attempt can retry.
func (e *PreparedStatementEntry) AbortPrepare() error {
	if !e.state.CompareAndSwap(int32(StateBeingPrepared), int32(StateNotPrepared)) {
		return batcherror.NewBatchError(
			fmt.Sprintf("abort prepare in state %s", e.State()),
			batcherror.BATCH_PREPARE_SYNC)
	}
	e.epoch.Inc()
	return nil
}

// Unprepare marks the entry dead. Commands still referencing it clear
// their reference on the next resolve.
func (e *PreparedStatementEntry) Unprepare() {
	e.state.Store(int32(StateUnprepared))
	e.epoch.Inc()
}
