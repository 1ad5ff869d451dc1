package lipid

import (
	"sort"

	charmm "github.com/cameronabrams/charmm"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// StreamDistances collects every annotated head-to-tail path length, in
// bond counts, across the residues of one stream. Unannotated residues
// contribute nothing. Residues are visited in sorted-name order so the
// returned slice is reproducible.
func StreamDistances(db *charmm.ResidueDatabase, streamID string) []float64 {
	var dists []float64
	for _, name := range db.ResidueNamesOfStream(streamID) {
		res := db.GetResidue(name)
		if res == nil || res.Annotation == nil {
			continue
		}
		heads := append([]string{}, res.Annotation.Heads...)
		sort.Strings(heads)
		for _, h := range heads {
			tails := res.Annotation.ShortestPaths[h]
			tnames := make([]string, 0, len(tails))
			for t := range tails {
				tnames = append(tnames, t)
			}
			sort.Strings(tnames)
			for _, t := range tnames {
				dists = append(dists, float64(tails[t]))
			}
		}
	}
	return dists
}

// DistanceHistogram plots a histogram of head-to-tail distances to a PNG
// file. It is meant for eyeballing a freshly classified force-field
// stream: a population far from the expected chain lengths usually means
// the wrong classifier was selected for a substream.
func DistanceHistogram(dists []float64, bins int, pngname string) error {
	if len(dists) == 0 {
		return failf("distance histogram: no annotated distances to plot")
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = "Head-tail distances"
	p.X.Label.Text = "Bonds"
	p.Y.Label.Text = "Count"
	h, err := plotter.NewHist(plotter.Values(dists), bins)
	if err != nil {
		return err
	}
	p.Add(h)
	return p.Save(5*vg.Inch, 4*vg.Inch, pngname)
}
