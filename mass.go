package charmm

import (
	"strconv"
	"strings"
	"unicode"
)

// MassRecord maps one atom type to its mass and element symbol, as read
// from a MASS card. Records are immutable once created.
type MassRecord struct {
	Type    string
	Mass    float64
	Element string
}

// elementFromType guesses an element symbol from an atom-type string when
// the MASS card does not carry one: the first non-digit leading character,
// upper-cased. "?" if the type is all digits or empty.
func elementFromType(atype string) string {
	for _, r := range atype {
		if unicode.IsDigit(r) {
			continue
		}
		return strings.ToUpper(string(r))
	}
	return "?"
}

// MassRegistry accumulates MassRecords across every topology source of a
// run. Lookups are by (upper-cased) atom type.
type MassRegistry struct {
	records map[string]*MassRecord
}

func NewMassRegistry() *MassRegistry {
	return &MassRegistry{records: make(map[string]*MassRecord)}
}

// Add stores rec, replacing (and logging) any previous record for the same
// type. Later sources win, same as residue overrides.
func (M *MassRegistry) Add(rec *MassRecord) {
	if old, ok := M.records[rec.Type]; ok && old.Mass != rec.Mass {
		log.Infow("mass record replaced", "type", rec.Type, "old", old.Mass, "new", rec.Mass)
	}
	M.records[rec.Type] = rec
}

// Lookup returns the record for the given atom type, or nil and false.
func (M *MassRegistry) Lookup(atype string) (*MassRecord, bool) {
	r, ok := M.records[strings.ToUpper(atype)]
	return r, ok
}

// Len returns the number of known atom types.
func (M *MassRegistry) Len() int {
	return len(M.records)
}

// ScanMasses reads every MASS card found anywhere in the text body and adds
// it to the registry. Lines that are not MASS cards are ignored, so the
// whole raw source can be handed in. Malformed MASS cards are logged and
// skipped; they would otherwise poison every residue using the type.
func (M *MassRegistry) ScanMasses(text string) {
	for _, line := range strings.Split(text, "\n") {
		data, _ := linesplit(line)
		f := strings.Fields(data)
		if len(f) < 4 || strings.ToUpper(f[0]) != "MASS" {
			continue
		}
		mass, err := strconv.ParseFloat(f[3], 64)
		if err != nil {
			log.Warnw("malformed MASS card skipped", "line", line, "error", err.Error())
			continue
		}
		atype := strings.ToUpper(f[2])
		elem := elementFromType(atype)
		if len(f) >= 5 {
			elem = strings.ToUpper(f[4][:1])
			if len(f[4]) > 1 {
				// two-letter symbols keep the second letter lower, as in "Cl"
				elem += strings.ToLower(f[4][1:2])
			}
		}
		M.Add(&MassRecord{Type: atype, Mass: mass, Element: elem})
	}
}

// Assign sets mass and element on every atom of res by type lookup.
// An atom type missing from the registry yields ErrUnknownAtomType naming
// the residue and the type; atoms already assigned are left assigned, so
// re-running Assign after loading the missing source completes the job.
func (M *MassRegistry) Assign(res *Residue) error {
	for _, at := range res.Atoms {
		rec, ok := M.records[at.Type]
		if !ok {
			return NewError(ErrUnknownAtomType,
				"residue %s: no MASS record for atom type %s (atom %s)", res.Name, at.Type, at.Name)
		}
		at.Mass = rec.Mass
		at.Element = rec.Element
	}
	return nil
}
