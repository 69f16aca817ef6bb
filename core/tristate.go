package core

// TriState is a three-valued answer to a capability query. Unknown is the
// zero value and is distinct from False: it means the question could not be
// answered, not that the answer is no.
type TriState uint8

const (
	Unknown TriState = iota
	False
	True
)

// TriStateOf converts a bool to the corresponding conclusive TriState.
func TriStateOf(b bool) TriState {
	if b {
		return True
	}
	return False
}

// Conclusive reports whether the value is True or False.
func (t TriState) Conclusive() bool {
	return t != Unknown
}

func (t TriState) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}
