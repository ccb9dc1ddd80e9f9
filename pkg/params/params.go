package params

// Parameter is one positional value as it goes into a Bind message: the
// raw value bytes plus the format code and the type OID it was planned
// with. Encoding a Go value into these bytes happens elsewhere.
type Parameter struct {
	Value      []byte
	FormatCode int16
	OID        uint32
}

const (
	FormatCodeText   = int16(0)
	FormatCodeBinary = int16(1)
)

type Ownership int8

const (
	OwnershipNone = Ownership(iota)
	OwnershipOwned
	OwnershipBorrowed
)

func (o Ownership) String() string {
	switch o {
	case OwnershipNone:
		return "NONE"
	case OwnershipOwned:
		return "OWNED"
	case OwnershipBorrowed:
		return "BORROWED"
	}
	return "invalid"
}

// List is a privately owned, appendable parameter sequence.
type List struct {
	vals []Parameter
}

func NewList() *List {
	return &List{}
}

func (l *List) Add(p Parameter) {
	l.vals = append(l.vals, p)
}

func (l *List) Len() int {
	return len(l.vals)
}

func (l *List) Values() []Parameter {
	return l.vals
}

func (l *List) clear() {
	l.vals = l.vals[:0]
}

// emptyView is the shared no-parameters sequence. Returning it keeps the
// empty state observable without allocating.
var emptyView = []Parameter{}

// Binding resolves the positional parameters of one batch command. It is
// a tagged union: either an Owned list the command controls exclusively,
// or a Borrowed alias into storage controlled by another collaborator.
// The tag, not reference identity, is the source of truth. Borrowed
// storage is reachable only through the non-mutating accessors below.
type Binding struct {
	tag   Ownership
	owned *List
	view  []Parameter
}

func (b *Binding) Tag() Ownership {
	return b.tag
}

// List returns the command's owned parameter list, materializing an
// empty one on first use. For a Borrowed binding there is no mutable
// list and List returns nil; Reset the binding first.
func (b *Binding) List() *List {
	if b.tag == OwnershipBorrowed {
		return nil
	}
	if b.owned == nil {
		b.owned = NewList()
	}
	b.tag = OwnershipOwned
	return b.owned
}

func (b *Binding) SetOwned(l *List) {
	b.tag = OwnershipOwned
	b.owned = l
	b.view = nil
}

func (b *Binding) SetBorrowed(vals []Parameter) {
	b.tag = OwnershipBorrowed
	b.view = vals
}

func (b *Binding) HasParameters() bool {
	switch b.tag {
	case OwnershipOwned:
		return b.owned.Len() > 0
	case OwnershipBorrowed:
		return len(b.view) > 0
	}
	return false
}

// Values returns the bound sequence if present and non-empty, else the
// shared empty sequence. It never allocates for the empty case.
func (b *Binding) Values() []Parameter {
	switch b.tag {
	case OwnershipOwned:
		if b.owned.Len() > 0 {
			return b.owned.Values()
		}
	case OwnershipBorrowed:
		if len(b.view) > 0 {
			return b.view
		}
	}
	return emptyView
}

// Reset drops the current binding. An Owned list is cleared in place so
// its storage is reused on the next materialization; a Borrowed alias is
// simply forgotten, the aliased storage untouched.
func (b *Binding) Reset() {
	switch b.tag {
	case OwnershipOwned:
		b.owned.clear()
	case OwnershipBorrowed:
		b.view = nil
	}
	b.tag = OwnershipNone
}
