package charmm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/skelterjohn/go.matrix"
)

// ResidueKind tells a full residue (RESI) from a patch (PRES).
type ResidueKind int

const (
	KindResidue ResidueKind = iota
	KindPatch
)

func (k ResidueKind) String() string {
	if k == KindPatch {
		return "PRES"
	}
	return "RESI"
}

// Residue error codes. Zero means a clean parse. These are kept numeric
// (rather than folded into the error type) because downstream tooling
// stores them with the residue.
const (
	ErrCodeOK        = 0
	ErrCodeMalformed = -1 // a card in the block could not be parsed
	ErrCodeDangling  = -5 // an internal coordinate names an undeclared atom
)

// Metadata records where a residue came from: the force-field stream and
// substream (e.g. "lipid"/"cholesterol") and the source file name.
type Metadata struct {
	StreamID    string
	SubstreamID string
	SourceFile  string
}

// Annotation is the output of lipid classification: the polar head atom(s),
// the non-polar tail terminus atom(s), and the head-to-tail shortest-path
// table in edge counts. Model compounds legitimately carry all three empty.
type Annotation struct {
	Heads         []string
	Tails         []string
	ShortestPaths map[string]map[string]int
}

// Residue is one parsed RESI or PRES block. Atom order is insertion order
// and is meaningful: it defines the default group layout and every
// deterministic tie-break downstream. A Residue is mutated at most twice
// after parsing: once by the mass tally and once, lazily, by a classifier
// writing Annotation.
type Residue struct {
	Kind      ResidueKind
	Name      string
	Charge    float64
	Synonym   string
	Atoms     []*AtomRecord
	Bonds     []*BondRecord
	Angles    []*AngleRecord
	Dihedrals []*DihedralRecord
	ICs       []*ICRecord
	Deletes   []*DeleteAtomRecord
	Meta      Metadata
	ErrorCode int

	Annotation *Annotation
}

// NumAtoms returns the number of ATOM cards parsed for the residue.
func (R *Residue) NumAtoms() int {
	return len(R.Atoms)
}

// Atom returns the atom with the given (upper-cased) name, or nil.
func (R *Residue) Atom(name string) *AtomRecord {
	name = strings.ToUpper(name)
	for _, at := range R.Atoms {
		if at.Name == name {
			return at
		}
	}
	return nil
}

// HasAtom tells whether the residue declares an atom with that name.
func (R *Residue) HasAtom(name string) bool {
	return R.Atom(name) != nil
}

// AtomsByGroup maps each group index to its atoms, in insertion order.
func (R *Residue) AtomsByGroup() map[int][]*AtomRecord {
	ret := make(map[int][]*AtomRecord)
	for _, at := range R.Atoms {
		ret[at.Group] = append(ret[at.Group], at)
	}
	return ret
}

// Mass returns the total mass of the residue. Zero until the mass tally
// has run.
func (R *Residue) Mass() float64 {
	m := 0.0
	for _, at := range R.Atoms {
		m += at.Mass
	}
	return m
}

// MassCol returns a one-column matrix with the mass of each atom, in atom
// order, for downstream geometry work. It errors if any mass is still
// unassigned.
func (R *Residue) MassCol() (*matrix.DenseMatrix, error) {
	mass := make([]float64, len(R.Atoms))
	for i, at := range R.Atoms {
		if at.Mass == 0 {
			return nil, NewError(ErrUnknownAtomType,
				"residue %s: atom %s has no mass assigned yet", R.Name, at.Name)
		}
		mass[i] = at.Mass
	}
	return matrix.MakeDenseMatrix(mass, len(mass), 1), nil
}

// formulaOrder is the conventional element order for empirical formulas;
// anything else follows alphabetically.
var formulaOrder = []string{"C", "H", "N", "O", "P"}

// Formula renders the empirical formula of the residue, e.g. "C6H12O6".
// Counts of exactly one are suppressed. Elements must already be resolved;
// unresolved atoms show up as "?" entries, which is deliberate: a formula
// with a "?" in it is a tally problem made visible.
func (R *Residue) Formula() string {
	counts := make(map[string]int)
	for _, at := range R.Atoms {
		counts[at.Element]++
	}
	var b strings.Builder
	write := func(el string) {
		n, ok := counts[el]
		if !ok {
			return
		}
		b.WriteString(el)
		if n > 1 {
			fmt.Fprintf(&b, "%d", n)
		}
		delete(counts, el)
	}
	for _, el := range formulaOrder {
		write(el)
	}
	rest := make([]string, 0, len(counts))
	for el := range counts {
		rest = append(rest, el)
	}
	sort.Strings(rest)
	for _, el := range rest {
		write(el)
	}
	return b.String()
}

// HeavyAtoms returns the non-hydrogen atoms, in atom order.
func (R *Residue) HeavyAtoms() []*AtomRecord {
	ret := make([]*AtomRecord, 0, len(R.Atoms))
	for _, at := range R.Atoms {
		if at.Element != "H" {
			ret = append(ret, at)
		}
	}
	return ret
}

// Validate maps the residue's numeric error code to a typed error, nil for
// a clean parse. The code stays on the residue either way.
func (R *Residue) Validate() error {
	switch R.ErrorCode {
	case ErrCodeOK:
		return nil
	case ErrCodeDangling:
		return NewError(ErrDanglingIC,
			"residue %s: an internal coordinate names an undeclared atom", R.Name)
	default:
		return NewError(ErrBadRecord,
			"residue %s: block contained unparseable cards (code %d)", R.Name, R.ErrorCode)
	}
}

// checkICReferences verifies that every atom named by an internal
// coordinate is declared in the residue, setting ErrCodeDangling otherwise.
// The residue stays usable for everything except IC-based reconstruction.
// Bonds and angles are not checked here: patches routinely bond their new
// atoms to atoms of the residue they modify.
func (R *Residue) checkICReferences() {
	for _, ic := range R.ICs {
		for _, n := range ic.Atoms {
			if !R.HasAtom(n) {
				R.ErrorCode = ErrCodeDangling
				return
			}
		}
	}
}
