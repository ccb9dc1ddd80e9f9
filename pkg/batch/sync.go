package batch

// SyncPositions computes where synchronization boundaries fall in an
// ordered batch: the indexes after which a Sync is transmitted. Every
// command whose effective barrier resolves to enabled gets one, and the
// last command always does.
//
// A boundary between i and i+1 partitions the batch into independent
// failure domains: an error at or before i skips nothing after the
// boundary, and an error after it rolls back nothing at or before it.
// Inside an explicit transaction this partitioning is moot - the first
// failure marks the transaction failed and everything later fails too.
func SyncPositions(cmds []*Command, batchDefault bool) []int {
	positions := make([]int, 0, len(cmds))
	for i, cmd := range cmds {
		if i == len(cmds)-1 || cmd.ErrorBarrier().Resolve(batchDefault) {
			positions = append(positions, i)
		}
	}
	return positions
}
