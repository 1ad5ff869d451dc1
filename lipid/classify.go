/*Package lipid identifies the polar head atom and the non-polar tail
terminus atoms of lipid-like residues from their bond graph alone, plus
the head-to-tail shortest-path table downstream membrane construction
orients molecules with.

Every force-field substream maps to one classifier variant:

	model        -> Model     (synthetic reference compounds, no annotation)
	cholesterol  -> Sterol    (hydroxyl carbon head, graph-eccentric tail)
	detergent    -> Detergent (bridge split into carbon tail / oxygen head)
	anything else -> Generic  (iterative carbon-tail stripping; two-tail
	                           and multi-tail finishes)

Classifiers are pure functions of the hydrogen-free graph; they keep no
state between calls, and every scan runs in the graph's stable atom order
so results are reproducible.*/
package lipid

import (
	"strings"

	charmm "github.com/cameronabrams/charmm"
	"github.com/cameronabrams/charmm/molgraph"
	"gonum.org/v1/gonum/stat"
)

// Classifier is one structural-classification strategy.
type Classifier interface {
	Name() string
	Classify(g *molgraph.Graph) (*charmm.Annotation, error)
}

// SelectClassifier maps stream/substream metadata to the classifier
// variant to use for every residue of that substream. The choice depends
// only on the substream today; the stream is part of the signature because
// it is part of the residue's identity.
func SelectClassifier(streamID, substreamID string) Classifier {
	switch strings.ToLower(substreamID) {
	case "model":
		return Model{}
	case "cholesterol":
		return Sterol{}
	case "detergent":
		return Detergent{}
	}
	return Generic{}
}

// Annotate classifies res on its hydrogen-free bond graph and writes the
// annotation onto it. Calling it again re-annotates; nothing else ever
// touches a residue's annotation.
func Annotate(res *charmm.Residue) error {
	g, err := molgraph.FromResidue(res, false)
	if err != nil {
		return errDecorate(err, "Annotate")
	}
	c := SelectClassifier(res.Meta.StreamID, res.Meta.SubstreamID)
	ann, err := c.Classify(g)
	if err != nil {
		return errDecorate(err, "Annotate")
	}
	res.Annotation = ann
	return nil
}

func emptyAnnotation() *charmm.Annotation {
	return &charmm.Annotation{
		Heads:         []string{},
		Tails:         []string{},
		ShortestPaths: map[string]map[string]int{},
	}
}

func failf(format string, a ...interface{}) error {
	return charmm.NewError(charmm.ErrClassifyFailed, format, a...)
}

func errDecorate(err error, caller string) error {
	if e, ok := err.(*charmm.Error); ok {
		e.Decorate(caller)
		return e
	}
	return err
}

// Model is the no-op classifier for synthetic reference compounds. Its
// annotation is legitimately empty, which is why classification failures
// elsewhere must be errors rather than empty annotations.
type Model struct{}

func (Model) Name() string { return "model" }

func (Model) Classify(g *molgraph.Graph) (*charmm.Annotation, error) {
	return emptyAnnotation(), nil
}

// Sterol classifies cholesterol-like residues: the head is the hydroxyl
// carbon (first carbon with an oxygen neighbor), the tail is the atom at
// maximum shortest-path distance from it.
type Sterol struct{}

func (Sterol) Name() string { return "sterol" }

func (Sterol) Classify(g *molgraph.Graph) (*charmm.Annotation, error) {
	head := ""
	for _, name := range g.Names() {
		if g.Element(name) != "C" {
			continue
		}
		for _, nb := range g.Neighbors(name) {
			if g.Element(nb) == "O" {
				head = name
				break
			}
		}
		if head != "" {
			break
		}
	}
	if head == "" {
		return nil, failf("sterol: no carbon bonded to an oxygen")
	}
	tail, d := g.FarthestFrom(head)
	if tail == "" || tail == head {
		return nil, failf("sterol: no tail atom reachable from head %s", head)
	}
	ann := emptyAnnotation()
	ann.Heads = []string{head}
	ann.Tails = []string{tail}
	ann.ShortestPaths[head] = map[string]int{tail: d}
	return ann, nil
}

// Detergent classifies single-chain detergents: among bridges splitting
// the graph into an all-carbon fragment and an oxygen-bearing fragment, it
// takes the one with the smallest head fragment; the head atom is the
// heaviest atom of that fragment (sulfate sulfur beats its oxygens), the
// tail atom is the tail-fragment atom farthest from the head.
type Detergent struct{}

func (Detergent) Name() string { return "detergent" }

func (Detergent) Classify(g *molgraph.Graph) (*charmm.Annotation, error) {
	var headFrag, tailFrag []string
	found := false
	for _, e := range g.Bridges() {
		comps := g.ComponentsWithout(e[0], e[1])
		if len(comps) != 2 {
			continue
		}
		for i := 0; i < 2; i++ {
			tails, heads := comps[i], comps[1-i]
			if !g.AllElement(tails, "C") || !g.AnyElement(heads, "O") {
				continue
			}
			if !found || len(heads) < len(headFrag) {
				headFrag, tailFrag = heads, tails
				found = true
			}
		}
	}
	if !found {
		return nil, failf("detergent: no bridge separates a carbon tail from an oxygen-bearing head")
	}
	head := g.MaxMassAtom(headFrag)
	dist := g.PathLengths(head)
	tail, bestd := "", -1
	for _, t := range tailFrag {
		if d, ok := dist[t]; ok && d > bestd {
			tail, bestd = t, d
		}
	}
	if tail == "" {
		return nil, failf("detergent: tail fragment unreachable from head %s", head)
	}
	ann := emptyAnnotation()
	ann.Heads = []string{head}
	ann.Tails = []string{tail}
	ann.ShortestPaths[head] = map[string]int{tail: bestd}
	return ann, nil
}

// Generic classifies glycerophospholipids and their relatives by
// iteratively stripping carbon tail chains off a working copy of the
// graph, then electing a head atom among what remains. Exactly two
// stripped chains means the common two-tail case; any other count falls
// through to the balanced-split multi-tail election (cardiolipins,
// branched glycolipids).
type Generic struct{}

func (Generic) Name() string { return "generic" }

// tailChain is one stripped all-carbon chain and the bridge that cut it.
type tailChain struct {
	atoms    []string
	cut      [2]string
	tailSide string // the cut-bond endpoint inside the chain
}

func (Generic) Classify(g *molgraph.Graph) (*charmm.Annotation, error) {
	work := g.Clone()
	chains := stripTails(work)
	termini, err := chainTermini(g, chains)
	if err != nil {
		return nil, err
	}
	if len(chains) == 2 {
		return twoTailFinish(g, work, chains, termini)
	}
	return multiTailFinish(g, work, chains, termini)
}

// stripTails repeatedly cuts the bridge whose removal frees the largest
// all-carbon fragment, until no bridge frees one. Freed fragments are
// removed from the working graph either way; only fragments of more than
// one atom count as tail chains (a lone methyl is not a tail).
func stripTails(work *molgraph.Graph) []tailChain {
	var chains []tailChain
	for {
		var frag []string
		var cut [2]string
		for _, e := range work.Bridges() {
			comps := work.ComponentsWithout(e[0], e[1])
			if len(comps) != 2 {
				continue
			}
			for _, side := range comps {
				if work.AllElement(side, "C") && len(side) > len(frag) {
					frag, cut = side, e
				}
			}
		}
		if frag == nil {
			return chains
		}
		if len(frag) > 1 {
			c := tailChain{atoms: frag, cut: cut}
			for _, a := range frag {
				if a == cut[0] || a == cut[1] {
					c.tailSide = a
				}
			}
			chains = append(chains, c)
		}
		work.RemoveAtoms(frag...)
	}
}

// chainTermini finds, for each chain, its externally visible tail atom:
// the chain atom with exactly one neighbor in the original graph.
func chainTermini(g *molgraph.Graph, chains []tailChain) ([]string, error) {
	termini := make([]string, 0, len(chains))
	for _, c := range chains {
		term := ""
		for _, a := range c.atoms {
			if g.Degree(a) == 1 {
				term = a
				break
			}
		}
		if term == "" {
			return nil, failf("tail chain cut at %s-%s has no terminus", c.cut[0], c.cut[1])
		}
		termini = append(termini, term)
	}
	return termini, nil
}

// twoTailFinish elects a head by claim tallying: every head candidate in
// the stripped graph (elements other than C and O, falling back to O) is
// scored per cut bond by its distance from the bond's tail-side endpoint,
// each bond "claims" its farthest candidate, and the candidate with the
// most claims wins. Ties break on the stable atom order; the tally itself
// has no deeper rationale than matching validated outputs, so its order
// must not be "cleaned up".
func twoTailFinish(g, work *molgraph.Graph, chains []tailChain, termini []string) (*charmm.Annotation, error) {
	candidates := headCandidates(work)
	if len(candidates) == 0 {
		return nil, failf("two-tail: no non-carbon head candidate after tail stripping")
	}
	claims := make(map[string]int)
	for _, c := range chains {
		dist := g.PathLengths(c.tailSide)
		claimed, bestd := "", -1
		for _, cand := range candidates {
			if d, ok := dist[cand]; ok && d > bestd {
				claimed, bestd = cand, d
			}
		}
		if claimed != "" {
			claims[claimed]++
		}
	}
	head, best := "", -1
	for _, cand := range candidates {
		if claims[cand] > best {
			head, best = cand, claims[cand]
		}
	}
	if head == "" {
		return nil, failf("two-tail: no candidate claimed by any cut bond")
	}
	return annotate(g, head, termini)
}

// multiTailFinish handles any chain count other than two: within the
// stripped head region, the head is the atom whose removal splits the
// region into at least two non-singleton fragments with the most balanced
// sizes (smallest population standard deviation).
func multiTailFinish(g, work *molgraph.Graph, chains []tailChain, termini []string) (*charmm.Annotation, error) {
	if work.Len() == 0 {
		return nil, failf("multi-tail: nothing left after tail stripping")
	}
	head, bestsd := "", 0.0
	for _, a := range work.Names() {
		rem := work.Clone()
		rem.RemoveAtoms(a)
		var sizes []float64
		for _, frag := range rem.Components() {
			if len(frag) > 1 {
				sizes = append(sizes, float64(len(frag)))
			}
		}
		if len(sizes) < 2 {
			continue
		}
		sd := stat.PopStdDev(sizes, nil)
		if head == "" || sd < bestsd {
			head, bestsd = a, sd
		}
	}
	if head == "" {
		return nil, failf("multi-tail: no atom splits the head region into balanced fragments")
	}
	return annotate(g, head, termini)
}

// headCandidates returns the stripped graph's atoms that are neither
// carbon nor oxygen, in stable order; if there are none, its oxygens.
func headCandidates(work *molgraph.Graph) []string {
	var other, oxy []string
	for _, name := range work.Names() {
		switch work.Element(name) {
		case "C":
		case "O":
			oxy = append(oxy, name)
		default:
			other = append(other, name)
		}
	}
	if len(other) > 0 {
		return other
	}
	return oxy
}

// annotate builds the annotation for one head and the tail termini, with
// path lengths measured on the original graph. Stripped chains hang off
// bridges, so they cannot shorten any path among the atoms that remain;
// the original graph gives the same distances as the working graph did,
// for every pair that working graph still contains.
func annotate(g *molgraph.Graph, head string, termini []string) (*charmm.Annotation, error) {
	dist := g.PathLengths(head)
	ann := emptyAnnotation()
	ann.Heads = []string{head}
	ann.ShortestPaths[head] = make(map[string]int, len(termini))
	for _, t := range termini {
		d, ok := dist[t]
		if !ok {
			return nil, failf("tail terminus %s unreachable from head %s", t, head)
		}
		ann.Tails = append(ann.Tails, t)
		ann.ShortestPaths[head][t] = d
	}
	return ann, nil
}
