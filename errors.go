package charmm

import "fmt"

// ErrKind classifies the failures this library can report. Every one of
// them is a returned error, never an abort, so a bad residue can't take
// down a run over a large knowledge base.
type ErrKind int

const (
	ErrNone ErrKind = iota
	// ErrBadRecord marks a malformed card inside a RESI/PRES block.
	ErrBadRecord
	// ErrDanglingIC marks an internal coordinate that names an atom absent
	// from its residue.
	ErrDanglingIC
	// ErrUnknownAtomType means the mass tally found an atom type with no
	// MASS record in any loaded source. The run is not usable until the
	// missing source is loaded, but already-parsed residues stay intact.
	ErrUnknownAtomType
	// ErrUnresolvedElement means a bonded atom still has element "?" at
	// graph-building time, i.e. the mass tally never ran or failed.
	ErrUnresolvedElement
	// ErrClassifyFailed means a lipid classifier found no qualifying
	// head/tail (no bridges, no hydroxyl carbon, and so on). Distinct from
	// the legitimately empty annotation of model compounds.
	ErrClassifyFailed
	// ErrNotFound marks a database miss. Lookups log and return nil
	// instead of this, but the CLI and batch helpers need a real error.
	ErrNotFound
)

// Error is the error type returned throughout the library. The Decorate
// method lets callers prepend their name while passing the error up,
// without wrapping it in another type.
type Error struct {
	Kind ErrKind
	msg  string
	deco []string
}

func NewError(kind ErrKind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, a...)}
}

func (e *Error) Error() string {
	if len(e.deco) == 0 {
		return e.msg
	}
	ret := e.msg
	for _, v := range e.deco {
		ret = v + ": " + ret
	}
	return ret
}

// Decorate adds deco to the error's decoration slice, unless deco is empty,
// and returns the current value of the slice.
func (e *Error) Decorate(deco string) []string {
	if deco != "" {
		e.deco = append(e.deco, deco)
	}
	return e.deco
}

// IsKind tells whether err is a *charmm.Error of the given kind.
func IsKind(err error, kind ErrKind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// errDecorate decorates err if it is a *charmm.Error, and otherwise wraps
// it in one (kind ErrNone) so the decoration is not lost.
func errDecorate(err error, caller string) error {
	e, ok := err.(*Error)
	if !ok {
		e = &Error{msg: err.Error()}
	}
	e.Decorate(caller)
	return e
}
