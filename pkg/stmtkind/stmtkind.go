package stmtkind

type Kind int8

const (
	Select = Kind(iota)
	Insert
	Update
	Delete
	Copy
	Move
	Merge
	Other
)

func (k Kind) String() string {
	switch k {
	case Select:
		return "SELECT"
	case Insert:
		return "INSERT"
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	case Copy:
		return "COPY"
	case Move:
		return "MOVE"
	case Merge:
		return "MERGE"
	case Other:
		return "OTHER"
	}
	return "invalid"
}

// ExpectsRowCount reports whether a completion of this kind carries a
// meaningful affected-row count. Result-set-producing statements do not:
// their records-affected value is -1 by protocol convention.
func (k Kind) ExpectsRowCount() bool {
	switch k {
	case Insert, Update, Delete, Copy, Move, Merge:
		return true
	}
	return false
}
