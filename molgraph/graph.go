/*Package molgraph turns a parsed residue into an undirected molecular
graph and provides the graph primitives the lipid classifiers are built
from: connected components, bridge detection, and breadth-first
shortest-path tables.

The graph is backed by gonum, but every accessor that enumerates atoms,
neighbors, edges or components does so in a stable order derived from the
residue's atom order. Classification tie-breaks depend on that order, and
downstream results must be reproducible run to run.*/
package molgraph

import (
	"sort"

	charmm "github.com/cameronabrams/charmm"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

// Atom is a graph node: an atom name tagged with its element and mass.
type Atom struct {
	id      int64
	Name    string
	Element string
	Mass    float64
}

// ID implements gonum's graph.Node.
func (a *Atom) ID() int64 { return a.id }

// Graph is an undirected molecular graph over atom names.
type Graph struct {
	u     *simple.UndirectedGraph
	atoms map[string]*Atom
	order []string // atom order of the source residue; all iteration follows it
	rank  map[string]int
}

// FromResidue builds the graph of a residue's bonds. With includeHydrogens
// false, bonds touching a hydrogen are omitted entirely and atoms left
// without edges are excluded from the graph. Every bonded atom must have a
// resolved element (the mass tally must have run); an unresolved one yields
// ErrUnresolvedElement. Bonds naming atoms the residue does not declare are
// skipped with a log entry, which keeps patches usable; self-bonds are
// skipped the same way.
func FromResidue(res *charmm.Residue, includeHydrogens bool) (*Graph, error) {
	type pair struct{ a1, a2 *charmm.AtomRecord }
	var kept []pair
	for _, b := range res.Bonds {
		a1, a2 := res.Atom(b.Atom1), res.Atom(b.Atom2)
		if a1 == nil || a2 == nil {
			charmm.Logger().Warnw("bond to undeclared atom skipped",
				"residue", res.Name, "atom1", b.Atom1, "atom2", b.Atom2)
			continue
		}
		if a1 == a2 {
			charmm.Logger().Warnw("self-bond skipped",
				"residue", res.Name, "atom", b.Atom1)
			continue
		}
		if a1.Element == "" || a1.Element == "?" {
			return nil, charmm.NewError(charmm.ErrUnresolvedElement,
				"residue %s: atom %s has no element; run the mass tally first", res.Name, a1.Name)
		}
		if a2.Element == "" || a2.Element == "?" {
			return nil, charmm.NewError(charmm.ErrUnresolvedElement,
				"residue %s: atom %s has no element; run the mass tally first", res.Name, a2.Name)
		}
		if !includeHydrogens && (a1.Element == "H" || a2.Element == "H") {
			continue
		}
		kept = append(kept, pair{a1, a2})
	}
	G := &Graph{
		u:     simple.NewUndirectedGraph(),
		atoms: make(map[string]*Atom),
		rank:  make(map[string]int),
	}
	// nodes in residue atom order, only atoms that kept at least one bond
	bonded := make(map[string]bool)
	for _, p := range kept {
		bonded[p.a1.Name] = true
		bonded[p.a2.Name] = true
	}
	for _, at := range res.Atoms {
		if bonded[at.Name] {
			G.addAtom(at.Name, at.Element, at.Mass)
		}
	}
	for _, p := range kept {
		G.u.SetEdge(simple.Edge{F: G.atoms[p.a1.Name], T: G.atoms[p.a2.Name]})
	}
	return G, nil
}

func (G *Graph) addAtom(name, element string, mass float64) {
	a := &Atom{id: int64(len(G.order)), Name: name, Element: element, Mass: mass}
	G.atoms[name] = a
	G.rank[name] = len(G.order)
	G.order = append(G.order, name)
	G.u.AddNode(a)
}

// Len returns the number of atoms in the graph.
func (G *Graph) Len() int { return len(G.order) }

// Names returns the atom names in stable order.
func (G *Graph) Names() []string {
	ret := make([]string, len(G.order))
	copy(ret, G.order)
	return ret
}

// Has tells whether the graph contains the named atom.
func (G *Graph) Has(name string) bool {
	_, ok := G.atoms[name]
	return ok
}

// Atom returns the named atom, or nil.
func (G *Graph) Atom(name string) *Atom { return G.atoms[name] }

// Element returns the element of the named atom ("" if absent).
func (G *Graph) Element(name string) string {
	a, ok := G.atoms[name]
	if !ok {
		return ""
	}
	return a.Element
}

// Neighbors returns the names bonded to name, in stable order.
func (G *Graph) Neighbors(name string) []string {
	a, ok := G.atoms[name]
	if !ok {
		return nil
	}
	var ret []string
	it := G.u.From(a.ID())
	for it.Next() {
		ret = append(ret, it.Node().(*Atom).Name)
	}
	G.sortStable(ret)
	return ret
}

// Degree returns the number of neighbors of name.
func (G *Graph) Degree(name string) int {
	return len(G.Neighbors(name))
}

// Edges returns every bond once, as ordered name pairs, in stable order.
func (G *Graph) Edges() [][2]string {
	var ret [][2]string
	for _, name := range G.order {
		for _, nb := range G.Neighbors(name) {
			if G.rank[name] < G.rank[nb] {
				ret = append(ret, [2]string{name, nb})
			}
		}
	}
	return ret
}

// Clone returns an independent copy: the working-graph counterpart to this
// graph, safe to mutate while the original keeps serving lookups.
func (G *Graph) Clone() *Graph {
	N := &Graph{
		u:     simple.NewUndirectedGraph(),
		atoms: make(map[string]*Atom, len(G.atoms)),
		rank:  make(map[string]int, len(G.rank)),
	}
	N.order = make([]string, len(G.order))
	copy(N.order, G.order)
	for i, name := range N.order {
		a := G.atoms[name]
		na := &Atom{id: a.id, Name: a.Name, Element: a.Element, Mass: a.Mass}
		N.atoms[name] = na
		N.rank[name] = i
		N.u.AddNode(na)
	}
	for _, e := range G.Edges() {
		N.u.SetEdge(simple.Edge{F: N.atoms[e[0]], T: N.atoms[e[1]]})
	}
	return N
}

// RemoveAtoms deletes the named atoms and their edges.
func (G *Graph) RemoveAtoms(names ...string) {
	for _, name := range names {
		a, ok := G.atoms[name]
		if !ok {
			continue
		}
		G.u.RemoveNode(a.ID())
		delete(G.atoms, name)
	}
	order := G.order[:0]
	for _, n := range G.order {
		if _, ok := G.atoms[n]; ok {
			order = append(order, n)
		}
	}
	G.order = order
	for i, n := range G.order {
		G.rank[n] = i
	}
}

// Components returns the connected components, each sorted in stable
// order, ordered by their first atom.
func (G *Graph) Components() [][]string {
	comps := topo.ConnectedComponents(G.u)
	ret := make([][]string, 0, len(comps))
	for _, c := range comps {
		names := make([]string, 0, len(c))
		for _, n := range c {
			names = append(names, n.(*Atom).Name)
		}
		G.sortStable(names)
		ret = append(ret, names)
	}
	sort.Slice(ret, func(i, j int) bool {
		return G.rank[ret[i][0]] < G.rank[ret[j][0]]
	})
	return ret
}

// ComponentsWithout returns the connected components of the graph with the
// edge a-b removed. The graph itself is unchanged.
func (G *Graph) ComponentsWithout(a, b string) [][]string {
	na, ok1 := G.atoms[a]
	nb, ok2 := G.atoms[b]
	if !ok1 || !ok2 || G.u.Edge(na.ID(), nb.ID()) == nil {
		return G.Components()
	}
	G.u.RemoveEdge(na.ID(), nb.ID())
	comps := G.Components()
	G.u.SetEdge(simple.Edge{F: na, T: nb})
	return comps
}

// Bridges returns every bridge edge, in stable edge order: the edges whose
// removal increases the number of connected components.
func (G *Graph) Bridges() [][2]string {
	base := len(G.Components())
	var ret [][2]string
	for _, e := range G.Edges() {
		if len(G.ComponentsWithout(e[0], e[1])) > base {
			ret = append(ret, e)
		}
	}
	return ret
}

// PathLengths returns the BFS shortest-path length, in edge counts, from
// the named atom to every reachable atom (including itself, at 0).
func (G *Graph) PathLengths(from string) map[string]int {
	a, ok := G.atoms[from]
	if !ok {
		return nil
	}
	dist := make(map[string]int, len(G.atoms))
	bfs := traverse.BreadthFirst{}
	bfs.Walk(G.u, a, func(n graph.Node, d int) bool {
		dist[n.(*Atom).Name] = d
		return false
	})
	return dist
}

// PathLen returns the shortest-path length between two atoms, or -1 if
// they are disconnected or absent.
func (G *Graph) PathLen(a, b string) int {
	d, ok := G.PathLengths(a)[b]
	if !ok {
		return -1
	}
	return d
}

// FarthestFrom returns the atom with the maximum shortest-path length from
// the given one, and that length. Ties go to the earlier atom in stable
// order.
func (G *Graph) FarthestFrom(from string) (string, int) {
	dist := G.PathLengths(from)
	best, bestd := "", -1
	for _, name := range G.order {
		if d, ok := dist[name]; ok && d > bestd {
			best, bestd = name, d
		}
	}
	return best, bestd
}

// AllElement tells whether every named atom has the given element.
func (G *Graph) AllElement(names []string, element string) bool {
	for _, n := range names {
		if G.Element(n) != element {
			return false
		}
	}
	return true
}

// AnyElement tells whether any named atom has the given element.
func (G *Graph) AnyElement(names []string, element string) bool {
	for _, n := range names {
		if G.Element(n) == element {
			return true
		}
	}
	return false
}

// MaxMassAtom returns the heaviest of the named atoms; ties go to the
// earlier atom in stable order.
func (G *Graph) MaxMassAtom(names []string) string {
	best, bestm := "", -1.0
	for _, n := range names {
		a, ok := G.atoms[n]
		if ok && a.Mass > bestm {
			best, bestm = n, a.Mass
		}
	}
	return best
}

func (G *Graph) sortStable(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return G.rank[names[i]] < G.rank[names[j]]
	})
}
