package batch

import (
	"github.com/pg-sharding/pgbatch/pkg/stmtkind"
)

// ApplyCompletion records the server's completion for this command as
// one snapshot. Kind, row count and object id are never updated
// separately: RecordsAffected reads all three together.
func (c *Command) ApplyCompletion(rec stmtkind.Completion) {
	c.kind = rec.Kind
	c.rowsAffected = rec.RowsAffected
	c.objectID = rec.ObjectID
}
