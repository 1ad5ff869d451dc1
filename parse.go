package charmm

import (
	"strconv"
	"strings"
	"unicode"
)

// linesplit cuts a topology line at its first "!". The first return is the
// data half, the second the comment (empty if there is none). A line whose
// first character is "!" has an empty data half.
func linesplit(line string) (string, string) {
	data, comment, found := strings.Cut(line, "!")
	if !found {
		return line, ""
	}
	return data, comment
}

func fi(s string) []string {
	return strings.Fields(s)
}

func parsefloats(s ...string) ([]float64, error) {
	r := make([]float64, 0, len(s))
	for _, v := range s {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		r = append(r, f)
	}
	return r, nil
}

// blockTerminators are the keywords that end a RESI/PRES block when they
// appear as a line's first token. Parameter-file sections (ATOMS, BONDS...)
// share files with residue definitions.
var blockTerminators = map[string]bool{
	"RESI": true, "PRES": true,
	"ATOMS": true, "BONDS": true, "ANGLES": true, "DIHEDRALS": true,
	"END": true,
}

// ExtractBlocks pulls every RESI/PRES block out of a topology text body.
// A block runs from its keyword line to the line before the next
// terminating keyword, or to the end of the text.
func ExtractBlocks(text string) []string {
	lines := strings.Split(text, "\n")
	var blocks []string
	var cur []string
	flush := func() {
		if cur != nil {
			blocks = append(blocks, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, line := range lines {
		data, _ := linesplit(line)
		f := fi(data)
		var kw string
		if len(f) > 0 {
			kw = strings.ToUpper(f[0])
		}
		if blockTerminators[kw] {
			flush()
			if kw == "RESI" || kw == "PRES" {
				cur = []string{line}
			}
			continue
		}
		if cur != nil {
			cur = append(cur, line)
		}
	}
	flush()
	return blocks
}

// ParseResidue parses one RESI/PRES block into a Residue. The title line
// must start with RESI or PRES; anything else is a caller error. Malformed
// cards inside the block never abort it: they set a non-zero ErrorCode and
// parsing continues with whatever did parse.
func ParseResidue(block string) (*Residue, error) {
	lines := strings.Split(block, "\n")
	data, comment := linesplit(lines[0])
	f := fi(data)
	if len(f) < 2 {
		return nil, NewError(ErrBadRecord, "not a RESI/PRES title line: %q", lines[0])
	}
	R := new(Residue)
	switch strings.ToUpper(f[0]) {
	case "RESI":
		R.Kind = KindResidue
	case "PRES":
		R.Kind = KindPatch
	default:
		return nil, NewError(ErrBadRecord, "block does not start with RESI or PRES: %q", lines[0])
	}
	R.Name = strings.ToUpper(f[1])
	R.Synonym = strings.TrimSpace(comment)
	if len(f) >= 3 {
		var err error
		R.Charge, err = strconv.ParseFloat(f[2], 64)
		if err != nil {
			R.markMalformed()
		}
	}

	group := 0
	for _, line := range lines[1:] {
		data, comment := linesplit(line)
		f := fi(data)
		if len(f) == 0 {
			continue
		}
		switch strings.ToUpper(f[0]) {
		case "GROUP", "GROU":
			group++
		case "ATOM":
			if len(f) < 4 {
				R.markMalformed()
				continue
			}
			charge, err := strconv.ParseFloat(f[3], 64)
			if err != nil {
				R.markMalformed()
				continue
			}
			name := strings.ToUpper(f[1])
			R.Atoms = append(R.Atoms, &AtomRecord{
				Name:    name,
				Type:    strings.ToUpper(f[2]),
				Charge:  charge,
				Element: "?",
				Group:   group,
				InPatch: len(name) > 0 && unicode.IsDigit(rune(name[0])),
				Comment: strings.TrimSpace(comment),
			})
		case "BOND":
			R.parseBonds(f[1:], 1)
		case "DOUB":
			R.parseBonds(f[1:], 2)
		case "TRIP":
			R.parseBonds(f[1:], 3)
		case "ANGL", "THET":
			R.parseAngles(f[1:])
		case "DIHE":
			R.parseDihedrals(f[1:], Proper)
		case "IMPR", "IMPH":
			R.parseDihedrals(f[1:], Improper)
		case "IC", "BILD":
			R.parseIC(f[1:])
		case "DELETE", "DELE":
			if len(f) < 3 || strings.ToUpper(f[1]) != "ATOM" {
				R.markMalformed()
				continue
			}
			R.Deletes = append(R.Deletes, &DeleteAtomRecord{Atom: strings.ToUpper(f[2])})
		default:
			// DONOr, ACCEptor, CMAP, PATChing and friends carry no
			// structural information we keep.
			continue
		}
	}
	R.checkICReferences()
	return R, nil
}

func (R *Residue) markMalformed() {
	if R.ErrorCode == ErrCodeOK {
		R.ErrorCode = ErrCodeMalformed
	}
}

// parseBonds consumes an even number of atom-name tokens pairwise; a BOND
// card may carry several bonds.
func (R *Residue) parseBonds(names []string, degree int) {
	if len(names)%2 != 0 {
		R.markMalformed()
		names = names[:len(names)-1]
	}
	for i := 0; i+1 < len(names); i += 2 {
		R.Bonds = append(R.Bonds, &BondRecord{
			Atom1:  strings.ToUpper(names[i]),
			Atom2:  strings.ToUpper(names[i+1]),
			Degree: degree,
		})
	}
}

func (R *Residue) parseAngles(names []string) {
	if len(names)%3 != 0 {
		R.markMalformed()
		names = names[:len(names)-len(names)%3]
	}
	for i := 0; i+2 < len(names); i += 3 {
		R.Angles = append(R.Angles, &AngleRecord{
			Atom1: strings.ToUpper(names[i]),
			Atom2: strings.ToUpper(names[i+1]),
			Atom3: strings.ToUpper(names[i+2]),
		})
	}
}

func (R *Residue) parseDihedrals(names []string, kind TermKind) {
	if len(names)%4 != 0 {
		R.markMalformed()
		names = names[:len(names)-len(names)%4]
	}
	for i := 0; i+3 < len(names); i += 4 {
		R.Dihedrals = append(R.Dihedrals, &DihedralRecord{
			Atom1: strings.ToUpper(names[i]),
			Atom2: strings.ToUpper(names[i+1]),
			Atom3: strings.ToUpper(names[i+2]),
			Atom4: strings.ToUpper(names[i+3]),
			Kind:  kind,
		})
	}
}

// parseIC reads an IC card: four atom names then bond1, angle1, dihedral,
// angle2, bond2. A "*" prefix on the third atom marks the IC improper.
func (R *Residue) parseIC(f []string) {
	if len(f) < 9 {
		R.markMalformed()
		return
	}
	ic := new(ICRecord)
	for i := 0; i < 4; i++ {
		name := strings.ToUpper(f[i])
		if i == 2 && strings.HasPrefix(name, "*") {
			ic.Kind = Improper
			name = name[1:]
		}
		ic.Atoms[i] = name
	}
	vals, err := parsefloats(f[4:9]...)
	if err != nil {
		R.markMalformed()
		return
	}
	ic.Bond1, ic.Angle1, ic.Dihedral, ic.Angle2, ic.Bond2 = vals[0], vals[1], vals[2], vals[3], vals[4]
	R.ICs = append(R.ICs, ic)
}
