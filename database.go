package charmm

import (
	"sort"
	"strings"
)

// Source is one topology text body to be loaded, with its provenance.
// Resolve marks sources that carry the set/if/endif mini-language and need
// ResolveConditionals before block extraction.
type Source struct {
	Text        string
	SubstreamID string
	SourceFile  string
	Resolve     bool
}

// ResidueDatabase aggregates residues and patches from many named streams.
// It owns every Residue it holds. Loading is strictly sequential and
// deterministic: on a name collision the residue loaded last wins, and the
// override is always logged.
type ResidueDatabase struct {
	residues map[string]*Residue
	patches  map[string]*Residue
	streams  []string
	Masses   *MassRegistry
}

func NewResidueDatabase() *ResidueDatabase {
	return &ResidueDatabase{
		residues: make(map[string]*Residue),
		patches:  make(map[string]*Residue),
		Masses:   NewMassRegistry(),
	}
}

// LoadFromSource parses one topology text body: conditional resolution if
// requested, MASS scan, block extraction, per-block parse, metadata
// tagging. It returns the new residues and patches in block order, without
// merging them into the database; AddSource does that. A residue name
// appearing twice in the same body keeps only the later block (logged).
func (D *ResidueDatabase) LoadFromSource(text, streamID, substreamID, sourceFile string, resolve ...bool) ([]*Residue, []*Residue) {
	if len(resolve) > 0 && resolve[0] {
		text, _ = ResolveConditionals(text)
	}
	D.Masses.ScanMasses(text)
	var residues, patches []*Residue
	seen := make(map[string]int)
	for _, block := range ExtractBlocks(text) {
		R, err := ParseResidue(block)
		if err != nil {
			log.Warnw("unparseable block skipped", "source", sourceFile, "error", err.Error())
			continue
		}
		R.Meta = Metadata{StreamID: streamID, SubstreamID: substreamID, SourceFile: sourceFile}
		if R.Kind == KindPatch {
			patches = append(patches, R)
			continue
		}
		if i, ok := seen[R.Name]; ok {
			log.Infow("residue redefined within one source, later block wins",
				"residue", R.Name, "source", sourceFile)
			residues[i] = R
			continue
		}
		seen[R.Name] = len(residues)
		residues = append(residues, R)
	}
	return residues, patches
}

// AddSource loads one source and merges the results, then re-runs the full
// mass tally. The re-tally covers every residue known so far, not just the
// new ones: a residue loaded earlier may use a type whose MASS record only
// arrived with this source.
func (D *ResidueDatabase) AddSource(text, streamID, substreamID, sourceFile string, resolve ...bool) error {
	residues, patches := D.LoadFromSource(text, streamID, substreamID, sourceFile, resolve...)
	for _, R := range residues {
		if old, ok := D.residues[R.Name]; ok {
			log.Infow("residue overridden, last loaded wins",
				"residue", R.Name, "old_source", old.Meta.SourceFile, "new_source", sourceFile)
		}
		D.residues[R.Name] = R
	}
	for _, P := range patches {
		if old, ok := D.patches[P.Name]; ok {
			log.Infow("patch overridden, last loaded wins",
				"patch", P.Name, "old_source", old.Meta.SourceFile, "new_source", sourceFile)
		}
		D.patches[P.Name] = P
	}
	if !D.hasStream(streamID) {
		D.streams = append(D.streams, streamID)
	}
	err := D.Retally()
	if err != nil {
		return errDecorate(err, "AddSource")
	}
	return nil
}

// AddStream loads every source of one stream, then re-tallies once.
func (D *ResidueDatabase) AddStream(streamID string, sources ...Source) error {
	for _, s := range sources {
		residues, patches := D.LoadFromSource(s.Text, streamID, s.SubstreamID, s.SourceFile, s.Resolve)
		for _, R := range residues {
			if old, ok := D.residues[R.Name]; ok {
				log.Infow("residue overridden, last loaded wins",
					"residue", R.Name, "old_source", old.Meta.SourceFile, "new_source", s.SourceFile)
			}
			D.residues[R.Name] = R
		}
		for _, P := range patches {
			if old, ok := D.patches[P.Name]; ok {
				log.Infow("patch overridden, last loaded wins",
					"patch", P.Name, "old_source", old.Meta.SourceFile, "new_source", s.SourceFile)
			}
			D.patches[P.Name] = P
		}
	}
	if !D.hasStream(streamID) {
		D.streams = append(D.streams, streamID)
	}
	err := D.Retally()
	if err != nil {
		return errDecorate(err, "AddStream")
	}
	return nil
}

// Retally assigns mass and element to every atom of every known residue
// and patch from the combined mass registry. It visits everything even
// after a failure, so one residue with an unknown type leaves the rest
// fully tallied; the first failure is returned.
func (D *ResidueDatabase) Retally() error {
	var first error
	for _, name := range sortedKeys(D.residues) {
		if err := D.Masses.Assign(D.residues[name]); err != nil {
			log.Warnw("mass tally failed", "residue", name, "error", err.Error())
			if first == nil {
				first = err
			}
		}
	}
	for _, name := range sortedKeys(D.patches) {
		if err := D.Masses.Assign(D.patches[name]); err != nil {
			log.Warnw("mass tally failed", "patch", name, "error", err.Error())
			if first == nil {
				first = err
			}
		}
	}
	if first != nil {
		return errDecorate(first, "Retally")
	}
	return nil
}

// GetResidue returns the residue with the given name, or nil. A miss is a
// logged warning, never an error: unknown names are routine when a
// configuration references streams that were not loaded.
func (D *ResidueDatabase) GetResidue(name string) *Residue {
	R, ok := D.residues[strings.ToUpper(name)]
	if !ok {
		log.Warnw("residue not found", "residue", name)
		return nil
	}
	return R
}

// GetPatch returns the patch with the given name, or nil (logged).
func (D *ResidueDatabase) GetPatch(name string) *Residue {
	P, ok := D.patches[strings.ToUpper(name)]
	if !ok {
		log.Warnw("patch not found", "patch", name)
		return nil
	}
	return P
}

func (D *ResidueDatabase) ContainsResidue(name string) bool {
	_, ok := D.residues[strings.ToUpper(name)]
	return ok
}

// ResidueNamesOfStream returns the sorted names of all residues whose
// metadata matches streamID, and substreamID if given. An unloaded stream
// logs a warning and returns nothing.
func (D *ResidueDatabase) ResidueNamesOfStream(streamID string, substreamID ...string) []string {
	if !D.hasStream(streamID) {
		log.Warnw("stream not loaded", "stream", streamID)
		return nil
	}
	var names []string
	for name, R := range D.residues {
		if R.Meta.StreamID != streamID {
			continue
		}
		if len(substreamID) > 0 && R.Meta.SubstreamID != substreamID[0] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StreamsLoaded returns the stream IDs in load order.
func (D *ResidueDatabase) StreamsLoaded() []string {
	ret := make([]string, len(D.streams))
	copy(ret, D.streams)
	return ret
}

func (D *ResidueDatabase) NumResidues() int { return len(D.residues) }
func (D *ResidueDatabase) NumPatches() int  { return len(D.patches) }

func (D *ResidueDatabase) hasStream(id string) bool {
	for _, s := range D.streams {
		if s == id {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]*Residue) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
