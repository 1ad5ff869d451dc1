package charmm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tstBlock = `RESI TST 0.0 ! test resi
ATOM C1 CT1 0.0
ATOM O1 OT 0.0
BOND C1 O1
`

func TestParseMinimalResidue(Te *testing.T) {
	R, err := ParseResidue(tstBlock)
	require.NoError(Te, err)
	assert.Equal(Te, "TST", R.Name)
	assert.Equal(Te, KindResidue, R.Kind)
	assert.Equal(Te, 0.0, R.Charge)
	assert.Equal(Te, "test resi", R.Synonym)
	assert.Equal(Te, 2, R.NumAtoms())
	require.Len(Te, R.Bonds, 1)
	assert.True(Te, R.Bonds[0].Equal(&BondRecord{Atom1: "C1", Atom2: "O1", Degree: 1}))
	assert.Equal(Te, ErrCodeOK, R.ErrorCode)
}

func TestParseGroupsAndComments(Te *testing.T) {
	block := `RESI DMPC 0.00 ! phosphatidylcholine
GROUP
ATOM N  NTL -0.60 ! choline nitrogen
ATOM C12 CTL2 -0.10
GROUP
ATOM P  PL   1.50
ATOM O11 O2L -0.78
BOND N C12  C12 P  P O11
DOUB P O11
`
	R, err := ParseResidue(block)
	require.NoError(Te, err)
	require.Equal(Te, 4, R.NumAtoms())
	assert.Equal(Te, 1, R.Atom("N").Group)
	assert.Equal(Te, 1, R.Atom("C12").Group)
	assert.Equal(Te, 2, R.Atom("P").Group)
	assert.Equal(Te, "choline nitrogen", R.Atom("N").Comment)
	assert.Equal(Te, "", R.Atom("C12").Comment)
	byg := R.AtomsByGroup()
	assert.Len(Te, byg[1], 2)
	assert.Len(Te, byg[2], 2)
	// three single bonds from one BOND card, one double from DOUB
	require.Len(Te, R.Bonds, 4)
	assert.Equal(Te, 2, R.Bonds[3].Degree)
	assert.Equal(Te, ErrCodeOK, R.ErrorCode)
}

func TestParseAnglesDihedralsImpropers(Te *testing.T) {
	block := `RESI GLX 0.0
ATOM C1 CT1 0.0
ATOM C2 CT2 0.0
ATOM C3 CT3 0.0
ATOM O1 OT 0.0
BOND C1 C2 C2 C3 C3 O1
ANGL C1 C2 C3
THET C2 C3 O1
DIHE C1 C2 C3 O1
IMPR C2 C1 C3 O1
`
	R, err := ParseResidue(block)
	require.NoError(Te, err)
	require.Len(Te, R.Angles, 2)
	assert.True(Te, R.Angles[0].Equal(&AngleRecord{Atom1: "C3", Atom2: "C2", Atom3: "C1"}))
	require.Len(Te, R.Dihedrals, 2)
	assert.Equal(Te, Proper, R.Dihedrals[0].Kind)
	assert.Equal(Te, Improper, R.Dihedrals[1].Kind)
	assert.Equal(Te, ErrCodeOK, R.ErrorCode)
}

func TestParsePatch(Te *testing.T) {
	block := `PRES NNEU 0.00 ! neutral N-terminus
ATOM N   NH2  -0.96
ATOM 1HN H    0.34
DELETE ATOM HN2
BOND N 1HN
`
	R, err := ParseResidue(block)
	require.NoError(Te, err)
	assert.Equal(Te, KindPatch, R.Kind)
	assert.False(Te, R.Atom("N").InPatch)
	assert.True(Te, R.Atom("1HN").InPatch)
	require.Len(Te, R.Deletes, 1)
	assert.Equal(Te, "HN2", R.Deletes[0].Atom)
}

func TestParseIC(Te *testing.T) {
	block := `RESI ICT 0.0
ATOM C1 CT1 0.0
ATOM C2 CT2 0.0
ATOM C3 CT3 0.0
ATOM O1 OT 0.0
BOND C1 C2 C2 C3 C3 O1
IC C1 C2 C3 O1 1.53 111.0 180.0 110.5 1.42
IC C1 C2 *C3 O1 1.53 111.0 120.0 110.5 1.42
`
	R, err := ParseResidue(block)
	require.NoError(Te, err)
	require.Len(Te, R.ICs, 2)
	assert.Equal(Te, Proper, R.ICs[0].Kind)
	assert.Equal(Te, Improper, R.ICs[1].Kind)
	assert.Equal(Te, [4]string{"C1", "C2", "C3", "O1"}, R.ICs[1].Atoms)
	assert.Equal(Te, 1.53, R.ICs[0].Bond1)
	assert.Equal(Te, 1.42, R.ICs[0].Bond2)
	assert.Equal(Te, ErrCodeOK, R.ErrorCode)
}

func TestParseDanglingIC(Te *testing.T) {
	block := `RESI BAD 0.0
ATOM C1 CT1 0.0
ATOM C2 CT2 0.0
BOND C1 C2
IC C1 C2 C3 O1 1.53 111.0 180.0 110.5 1.42
`
	R, err := ParseResidue(block)
	require.NoError(Te, err)
	assert.Equal(Te, ErrCodeDangling, R.ErrorCode)
	// the residue stays usable for everything but IC reconstruction
	assert.Equal(Te, 2, R.NumAtoms())
	assert.Len(Te, R.Bonds, 1)
	assert.True(Te, IsKind(R.Validate(), ErrDanglingIC))
}

func TestValidate(Te *testing.T) {
	R, err := ParseResidue(tstBlock)
	require.NoError(Te, err)
	assert.NoError(Te, R.Validate())
	R.ErrorCode = ErrCodeMalformed
	assert.True(Te, IsKind(R.Validate(), ErrBadRecord))
}

func TestParseMalformedCards(Te *testing.T) {
	block := `RESI MLF 0.0
ATOM C1 CT1 0.0
ATOM C2 CT2 notanumber
BOND C1 C2 C2
`
	R, err := ParseResidue(block)
	require.NoError(Te, err)
	assert.Equal(Te, ErrCodeMalformed, R.ErrorCode)
	assert.Equal(Te, 1, R.NumAtoms()) // bad ATOM card dropped
	assert.Len(Te, R.Bonds, 1)       // odd trailing token truncated
}

func TestParseNotABlock(Te *testing.T) {
	_, err := ParseResidue("MASS 1 H 1.008\n")
	require.Error(Te, err)
	assert.True(Te, IsKind(err, ErrBadRecord))
}

func TestExtractBlocks(Te *testing.T) {
	text := `* Topology for test
*
MASS 1 CT1 12.011 C
MASS 2 OT 15.999 O

RESI AAA 0.0
ATOM C1 CT1 0.0
PRES PAA 0.0
ATOM O1 OT 0.0
END
`
	blocks := ExtractBlocks(text)
	require.Len(Te, blocks, 2)
	a, err := ParseResidue(blocks[0])
	require.NoError(Te, err)
	p, err := ParseResidue(blocks[1])
	require.NoError(Te, err)
	assert.Equal(Te, "AAA", a.Name)
	assert.Equal(Te, KindResidue, a.Kind)
	assert.Equal(Te, "PAA", p.Name)
	assert.Equal(Te, KindPatch, p.Kind)
}
