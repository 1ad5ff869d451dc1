package charmm

// TermKind distinguishes proper from improper dihedral-like terms. An
// improper internal coordinate is marked in the source text by a "*" on its
// third atom name.
type TermKind int

const (
	Proper TermKind = iota
	Improper
)

func (k TermKind) String() string {
	if k == Improper {
		return "improper"
	}
	return "proper"
}

// AtomRecord is one ATOM card of a RESI/PRES block. Mass and Element start
// unset ("?" element, zero mass) and are filled exactly once by the mass
// tally, after every MASS-carrying source of the run is known.
type AtomRecord struct {
	Name    string
	Type    string
	Charge  float64
	Mass    float64
	Element string
	Group   int
	// InPatch marks atoms whose name begins with a digit, the CHARMM
	// convention for atoms a patch introduces into an existing residue.
	InPatch bool
	Comment string
}

// BondRecord is a bond between two named atoms. Degree is 1, 2 or 3
// (BOND, DOUB, TRIP cards).
type BondRecord struct {
	Atom1  string
	Atom2  string
	Degree int
}

// Equal is true for the same pair of atoms in either order; a bond has no
// direction.
func (b *BondRecord) Equal(o *BondRecord) bool {
	if b.Degree != o.Degree {
		return false
	}
	return (b.Atom1 == o.Atom1 && b.Atom2 == o.Atom2) ||
		(b.Atom1 == o.Atom2 && b.Atom2 == o.Atom1)
}

// Touches is true if name is one of the bond's endpoints.
func (b *BondRecord) Touches(name string) bool {
	return b.Atom1 == name || b.Atom2 == name
}

// Other returns the endpoint that is not name. Panics if name is not in the
// bond; that is a programming error.
func (b *BondRecord) Other(name string) string {
	if b.Atom1 == name {
		return b.Atom2
	}
	if b.Atom2 == name {
		return b.Atom1
	}
	panic("BondRecord.Other: atom " + name + " is not in the bond")
}

// AngleRecord is an angle over three named atoms, Atom2 being the center.
type AngleRecord struct {
	Atom1 string
	Atom2 string
	Atom3 string
}

// Equal ignores reversal about the center atom: A-B-C equals C-B-A.
func (a *AngleRecord) Equal(o *AngleRecord) bool {
	if a.Atom2 != o.Atom2 {
		return false
	}
	return (a.Atom1 == o.Atom1 && a.Atom3 == o.Atom3) ||
		(a.Atom1 == o.Atom3 && a.Atom3 == o.Atom1)
}

// DihedralRecord is a proper or improper dihedral over four named atoms.
type DihedralRecord struct {
	Atom1 string
	Atom2 string
	Atom3 string
	Atom4 string
	Kind  TermKind
}

// Equal requires the same kind and either the same atom order or the fully
// reversed one.
func (d *DihedralRecord) Equal(o *DihedralRecord) bool {
	if d.Kind != o.Kind {
		return false
	}
	if d.Atom1 == o.Atom1 && d.Atom2 == o.Atom2 && d.Atom3 == o.Atom3 && d.Atom4 == o.Atom4 {
		return true
	}
	return d.Atom1 == o.Atom4 && d.Atom2 == o.Atom3 && d.Atom3 == o.Atom2 && d.Atom4 == o.Atom1
}

// ICRecord is one internal-coordinate card: four atoms, two bond lengths,
// two angles and one dihedral. For a proper IC the atoms chain
// 0-1-2-3; for an improper one (third atom written "*X") atom 2 is a branch
// point bonded to atoms 0, 1 and 3.
type ICRecord struct {
	Atoms    [4]string
	Bond1    float64
	Angle1   float64
	Dihedral float64
	Angle2   float64
	Bond2    float64
	Kind     TermKind
}

// Empty is true when any of the two bond lengths or two angles is exactly
// zero. CHARMM uses zeroes as a missing-data marker, not as a physical
// value, so empty ICs must be kept and flagged rather than dropped.
func (ic *ICRecord) Empty() bool {
	return ic.Bond1 == 0 || ic.Angle1 == 0 || ic.Angle2 == 0 || ic.Bond2 == 0
}

// BondedPairs returns the atom pairs the IC implies are bonded, which
// differ between proper and improper kinds.
func (ic *ICRecord) BondedPairs() [][2]string {
	a := ic.Atoms
	if ic.Kind == Improper {
		return [][2]string{{a[0], a[2]}, {a[1], a[2]}, {a[2], a[3]}}
	}
	return [][2]string{{a[0], a[1]}, {a[1], a[2]}, {a[2], a[3]}}
}

// DeleteAtomRecord is a DELETE ATOM card; only PRES blocks carry these.
type DeleteAtomRecord struct {
	Atom string
}
