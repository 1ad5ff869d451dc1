package lipid

import (
	"testing"

	charmm "github.com/cameronabrams/charmm"
	"github.com/cameronabrams/charmm/molgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMasses = func() *charmm.MassRegistry {
	M := charmm.NewMassRegistry()
	M.Add(&charmm.MassRecord{Type: "CT", Mass: 12.011, Element: "C"})
	M.Add(&charmm.MassRecord{Type: "OT", Mass: 15.999, Element: "O"})
	M.Add(&charmm.MassRecord{Type: "NT", Mass: 14.007, Element: "N"})
	M.Add(&charmm.MassRecord{Type: "PT", Mass: 30.974, Element: "P"})
	M.Add(&charmm.MassRecord{Type: "ST", Mass: 32.060, Element: "S"})
	return M
}()

func graphFor(Te *testing.T, block string) *molgraph.Graph {
	R, err := charmm.ParseResidue(block)
	require.NoError(Te, err)
	require.NoError(Te, testMasses.Assign(R))
	g, err := molgraph.FromResidue(R, false)
	require.NoError(Te, err)
	return g
}

func TestSelectClassifier(Te *testing.T) {
	assert.Equal(Te, "model", SelectClassifier("lipid", "model").Name())
	assert.Equal(Te, "model", SelectClassifier("lipid", "MODEL").Name())
	assert.Equal(Te, "sterol", SelectClassifier("lipid", "cholesterol").Name())
	assert.Equal(Te, "detergent", SelectClassifier("lipid", "detergent").Name())
	assert.Equal(Te, "generic", SelectClassifier("lipid", "").Name())
	assert.Equal(Te, "generic", SelectClassifier("lipid", "sphingo").Name())
}

func TestModelIsEmpty(Te *testing.T) {
	g := graphFor(Te, `RESI ETHA 0.0
ATOM C1 CT 0.0
ATOM C2 CT 0.0
BOND C1 C2
`)
	ann, err := Model{}.Classify(g)
	require.NoError(Te, err)
	assert.Empty(Te, ann.Heads)
	assert.Empty(Te, ann.Tails)
	assert.Empty(Te, ann.ShortestPaths)
}

func TestSterol(Te *testing.T) {
	// carbon ring with a hydroxyl on C3 and an alkyl chain off C1
	g := graphFor(Te, `RESI STER 0.0
ATOM C1 CT 0.0
ATOM C2 CT 0.0
ATOM C3 CT 0.0
ATOM C4 CT 0.0
ATOM C5 CT 0.0
ATOM C6 CT 0.0
ATOM O1 OT 0.0
ATOM C7 CT 0.0
ATOM C8 CT 0.0
ATOM C9 CT 0.0
BOND C1 C2 C2 C3 C3 C4 C4 C5 C5 C6 C6 C1
BOND C3 O1
BOND C1 C7 C7 C8 C8 C9
`)
	ann, err := Sterol{}.Classify(g)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"C3"}, ann.Heads)
	assert.Equal(Te, []string{"C9"}, ann.Tails)
	assert.Equal(Te, 5, ann.ShortestPaths["C3"]["C9"])
}

func TestSterolNoHydroxyl(Te *testing.T) {
	g := graphFor(Te, `RESI CHX 0.0
ATOM C1 CT 0.0
ATOM C2 CT 0.0
ATOM C3 CT 0.0
BOND C1 C2 C2 C3 C3 C1
`)
	_, err := Sterol{}.Classify(g)
	require.Error(Te, err)
	assert.True(Te, charmm.IsKind(err, charmm.ErrClassifyFailed))
}

func TestDetergent(Te *testing.T) {
	// a short SDS: alkyl chain, ester oxygen, sulfate
	g := graphFor(Te, `RESI SDSS 0.0
ATOM C1 CT 0.0
ATOM C2 CT 0.0
ATOM C3 CT 0.0
ATOM C4 CT 0.0
ATOM O1 OT 0.0
ATOM S1 ST 0.0
ATOM O2 OT 0.0
ATOM O3 OT 0.0
ATOM O4 OT 0.0
BOND C1 C2 C2 C3 C3 C4 C4 O1 O1 S1
BOND S1 O2 S1 O3 S1 O4
`)
	ann, err := Detergent{}.Classify(g)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"S1"}, ann.Heads)
	assert.Equal(Te, []string{"C1"}, ann.Tails)
	assert.Equal(Te, 5, ann.ShortestPaths["S1"]["C1"])
}

func TestDetergentNoSplit(Te *testing.T) {
	g := graphFor(Te, `RESI RING 0.0
ATOM C1 CT 0.0
ATOM C2 CT 0.0
ATOM O1 OT 0.0
BOND C1 C2 C2 O1 O1 C1
`)
	_, err := Detergent{}.Classify(g)
	require.Error(Te, err)
	assert.True(Te, charmm.IsKind(err, charmm.ErrClassifyFailed))
}

func TestGenericTwoTail(Te *testing.T) {
	// phosphorus backbone carrying two independent carbon chains
	g := graphFor(Te, `RESI TWOT 0.0
ATOM P1 PT 0.0
ATOM A1 CT 0.0
ATOM A2 CT 0.0
ATOM A3 CT 0.0
ATOM B1 CT 0.0
ATOM B2 CT 0.0
BOND P1 A1 A1 A2 A2 A3
BOND P1 B1 B1 B2
`)
	ann, err := Generic{}.Classify(g)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"P1"}, ann.Heads)
	assert.ElementsMatch(Te, []string{"A3", "B2"}, ann.Tails)
	assert.Equal(Te, 3, ann.ShortestPaths["P1"]["A3"])
	assert.Equal(Te, 2, ann.ShortestPaths["P1"]["B2"])
}

func TestGenericMultiTail(Te *testing.T) {
	// three chains off a symmetric phosphate-ester head region; the head
	// is the atom splitting that region into balanced halves
	g := graphFor(Te, `RESI TRIT 0.0
ATOM OA OT 0.0
ATOM OB OT 0.0
ATOM P1 PT 0.0
ATOM OC OT 0.0
ATOM OD OT 0.0
ATOM C11 CT 0.0
ATOM C12 CT 0.0
ATOM C21 CT 0.0
ATOM C22 CT 0.0
ATOM C31 CT 0.0
ATOM C32 CT 0.0
BOND OA OB OB P1 P1 OC OC OD
BOND OA C11 C11 C12
BOND OD C21 C21 C22
BOND P1 C31 C31 C32
`)
	ann, err := Generic{}.Classify(g)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"P1"}, ann.Heads)
	assert.ElementsMatch(Te, []string{"C12", "C22", "C32"}, ann.Tails)
	assert.Equal(Te, 4, ann.ShortestPaths["P1"]["C12"])
	assert.Equal(Te, 4, ann.ShortestPaths["P1"]["C22"])
	assert.Equal(Te, 2, ann.ShortestPaths["P1"]["C32"])
}

func TestGenericAllCarbonFails(Te *testing.T) {
	g := graphFor(Te, `RESI CRING 0.0
ATOM C1 CT 0.0
ATOM C2 CT 0.0
ATOM C3 CT 0.0
ATOM C4 CT 0.0
BOND C1 C2 C2 C3 C3 C4 C4 C1
`)
	_, err := Generic{}.Classify(g)
	require.Error(Te, err)
	assert.True(Te, charmm.IsKind(err, charmm.ErrClassifyFailed))
}

func TestGenericOxygenFallbackHead(Te *testing.T) {
	// no non-carbon, non-oxygen atom remains after stripping; the head
	// election falls back to the oxygens
	g := graphFor(Te, `RESI ESTR 0.0
ATOM O1 OT 0.0
ATOM C0 CT 0.0
ATOM O2 OT 0.0
ATOM A1 CT 0.0
ATOM A2 CT 0.0
ATOM B1 CT 0.0
ATOM B2 CT 0.0
BOND O1 C0 C0 O2
BOND O1 A1 A1 A2
BOND O2 B1 B1 B2
`)
	ann, err := Generic{}.Classify(g)
	require.NoError(Te, err)
	require.Len(Te, ann.Heads, 1)
	assert.Contains(Te, []string{"O1", "O2"}, ann.Heads[0])
	assert.ElementsMatch(Te, []string{"A2", "B2"}, ann.Tails)
}

func TestAnnotate(Te *testing.T) {
	block := `RESI TWOT 0.0
ATOM P1 PT 0.0
ATOM A1 CT 0.0
ATOM A2 CT 0.0
ATOM B1 CT 0.0
ATOM B2 CT 0.0
BOND P1 A1 A1 A2
BOND P1 B1 B1 B2
`
	R, err := charmm.ParseResidue(block)
	require.NoError(Te, err)
	require.NoError(Te, testMasses.Assign(R))
	R.Meta = charmm.Metadata{StreamID: "lipid", SubstreamID: "", SourceFile: "t.str"}
	require.NoError(Te, Annotate(R))
	require.NotNil(Te, R.Annotation)
	assert.Equal(Te, []string{"P1"}, R.Annotation.Heads)
	assert.ElementsMatch(Te, []string{"A2", "B2"}, R.Annotation.Tails)

	// model residues annotate to a legitimately empty annotation
	R.Meta.SubstreamID = "model"
	require.NoError(Te, Annotate(R))
	assert.Empty(Te, R.Annotation.Heads)
}
