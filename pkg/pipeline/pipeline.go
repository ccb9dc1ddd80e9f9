package pipeline

import (
	"github.com/jackc/pgx/v5/pgproto3"
	"github.com/pg-sharding/pgbatch/pkg/batch"
	"github.com/pg-sharding/pgbatch/pkg/params"
)

// BuildMessages assembles the extended-protocol message stream for an
// ordered batch. Each command contributes Parse (when it must prepare,
// or on every execution for the unnamed statement), Bind, Describe and
// Execute; Sync goes after every boundary position.
//
// Value bytes come straight from the commands' bindings; pgproto3 owns
// the wire encoding.
func BuildMessages(cmds []*batch.Command, batchDefault bool) []pgproto3.FrontendMessage {
	syncAfter := map[int]struct{}{}
	for _, pos := range batch.SyncPositions(cmds, batchDefault) {
		syncAfter[pos] = struct{}{}
	}

	msgs := make([]pgproto3.FrontendMessage, 0, len(cmds)*5)
	for i, cmd := range cmds {
		name := string(cmd.StatementName())
		vals := cmd.ParameterValues()

		if cmd.PendingParse() {
			msgs = append(msgs, &pgproto3.Parse{
				Name:          name,
				Query:         cmd.FinalText(),
				ParameterOIDs: params.OIDs(vals),
			})
			cmd.ParseSent()
		} else if name == "" {
			/* unnamed statement, parsed anew on every execution */
			msgs = append(msgs, &pgproto3.Parse{
				Query:         cmd.FinalText(),
				ParameterOIDs: params.OIDs(vals),
			})
		}

		msgs = append(msgs,
			&pgproto3.Bind{
				PreparedStatement:    name,
				ParameterFormatCodes: params.FormatCodes(vals),
				Parameters:           params.ValuesBytes(vals),
			},
			&pgproto3.Describe{ObjectType: 'P'},
			&pgproto3.Execute{})

		if _, ok := syncAfter[i]; ok {
			msgs = append(msgs, &pgproto3.Sync{})
		}
	}
	return msgs
}
