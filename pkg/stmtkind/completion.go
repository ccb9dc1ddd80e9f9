package stmtkind

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgproto3"
)

// Completion is the structured form of one CommandComplete: the
// statement kind, the affected-row count and, for a single-row INSERT,
// the inserted row OID.
type Completion struct {
	Kind         Kind
	RowsAffected uint64
	ObjectID     uint32
}

// ParseTag interprets a CommandComplete command tag.
//
// Tags look like "INSERT 0 5", "UPDATE 3", "SELECT 10", "COPY 5". An
// unrecognized tag yields kind Other with zero rows.
func ParseTag(tag []byte) Completion {
	fields := strings.Fields(string(tag))
	if len(fields) == 0 {
		return Completion{Kind: Other}
	}

	switch fields[0] {
	case "SELECT", "FETCH":
		return Completion{Kind: Select, RowsAffected: parseCount(fields, 1)}
	case "INSERT":
		/* INSERT <oid> <rows> */
		c := Completion{Kind: Insert, RowsAffected: parseCount(fields, 2)}
		if len(fields) > 1 {
			oid, err := strconv.ParseUint(fields[1], 10, 32)
			if err == nil {
				c.ObjectID = uint32(oid)
			}
		}
		return c
	case "UPDATE":
		return Completion{Kind: Update, RowsAffected: parseCount(fields, 1)}
	case "DELETE":
		return Completion{Kind: Delete, RowsAffected: parseCount(fields, 1)}
	case "COPY":
		return Completion{Kind: Copy, RowsAffected: parseCount(fields, 1)}
	case "MOVE":
		return Completion{Kind: Move, RowsAffected: parseCount(fields, 1)}
	case "MERGE":
		return Completion{Kind: Merge, RowsAffected: parseCount(fields, 1)}
	}
	return Completion{Kind: Other}
}

// ParseCommandComplete is ParseTag over the decoded protocol message.
func ParseCommandComplete(msg *pgproto3.CommandComplete) Completion {
	return ParseTag(msg.CommandTag)
}

func parseCount(fields []string, indx int) uint64 {
	if len(fields) <= indx {
		return 0
	}
	n, err := strconv.ParseUint(fields[indx], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
