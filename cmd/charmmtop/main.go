// charmmtop loads CHARMM residue topology files into a database and
// reports on or structurally classifies what it finds.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	charmm "github.com/cameronabrams/charmm"
	"github.com/cameronabrams/charmm/lipid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	streamID    string
	substreamID string
	resolve     bool
	verbose     bool
	histfile    string
	histbins    int
)

var rootCmd = &cobra.Command{
	Use:   "charmmtop",
	Short: "Parse and classify CHARMM residue topology files",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := zap.NewDevelopmentConfig()
		if !verbose {
			cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		charmm.SetLogger(l.Sugar())
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan FILE...",
	Short: "Load topology files and list the residues found",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := loadAll(args)
		if err != nil {
			return err
		}
		for _, name := range db.ResidueNamesOfStream(streamID) {
			res := db.GetResidue(name)
			status := "ok"
			if res.ErrorCode != charmm.ErrCodeOK {
				status = fmt.Sprintf("error %d", res.ErrorCode)
			}
			fmt.Printf("%-8s %-12s %3d atoms  %8.3f amu  charge %+.2f  %s\n",
				res.Name, res.Formula(), res.NumAtoms(), res.Mass(), res.Charge, status)
		}
		fmt.Printf("%d residues, %d patches, %d atom types\n",
			db.NumResidues(), db.NumPatches(), db.Masses.Len())
		return nil
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify FILE...",
	Short: "Load topology files and annotate lipid heads and tails",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := loadAll(args)
		if err != nil {
			return err
		}
		for _, name := range db.ResidueNamesOfStream(streamID) {
			res := db.GetResidue(name)
			if err := lipid.Annotate(res); err != nil {
				fmt.Printf("%-8s FAILED: %v\n", res.Name, err)
				continue
			}
			ann := res.Annotation
			if len(ann.Heads) == 0 {
				fmt.Printf("%-8s (unclassified)\n", res.Name)
				continue
			}
			head := ann.Heads[0]
			parts := make([]string, 0, len(ann.Tails))
			for _, t := range ann.Tails {
				parts = append(parts, fmt.Sprintf("%s(%d)", t, ann.ShortestPaths[head][t]))
			}
			fmt.Printf("%-8s head %-6s tails %s\n", res.Name, head, strings.Join(parts, " "))
		}
		if histfile != "" {
			dists := lipid.StreamDistances(db, streamID)
			if err := lipid.DistanceHistogram(dists, histbins, histfile); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d distances)\n", histfile, len(dists))
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show RESNAME FILE...",
	Short: "Print one residue in full",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := loadAll(args[1:])
		if err != nil {
			return err
		}
		name := strings.ToUpper(args[0])
		res := db.GetResidue(name)
		if res == nil {
			res = db.GetPatch(name)
		}
		if res == nil {
			return charmm.NewError(charmm.ErrNotFound, "no residue or patch named %s in the loaded sources", name)
		}
		fmt.Printf("%s %s %+.2f ! %s\n", res.Kind, res.Name, res.Charge, res.Synonym)
		fmt.Printf("formula %s  mass %.3f  stream %s/%s  source %s\n",
			res.Formula(), res.Mass(), res.Meta.StreamID, res.Meta.SubstreamID, res.Meta.SourceFile)
		if err := res.Validate(); err != nil {
			fmt.Printf("parse defect: %v\n", err)
		}
		for _, at := range res.Atoms {
			fmt.Printf("  ATOM %-4s %-6s %+.2f  %-2s group %d\n", at.Name, at.Type, at.Charge, at.Element, at.Group)
		}
		for _, b := range res.Bonds {
			fmt.Printf("  BOND %s %s (degree %d)\n", b.Atom1, b.Atom2, b.Degree)
		}
		for _, d := range res.Deletes {
			fmt.Printf("  DELETE ATOM %s\n", d.Atom)
		}
		return nil
	},
}

// loadAll reads every file (transparently decompressing zstd and gzip)
// into one database under the stream named by --stream.
func loadAll(files []string) (*charmm.ResidueDatabase, error) {
	db := charmm.NewResidueDatabase()
	sources := make([]charmm.Source, 0, len(files))
	for _, fname := range files {
		f, err := os.Open(fname)
		if err != nil {
			return nil, err
		}
		text, err := charmm.DecompressText(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fname, err)
		}
		sources = append(sources, charmm.Source{
			Text:        text,
			SubstreamID: substreamID,
			SourceFile:  filepath.Base(fname),
			Resolve:     resolve,
		})
	}
	if err := db.AddStream(streamID, sources...); err != nil {
		return nil, err
	}
	return db, nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&streamID, "stream", "lipid", "force-field stream the files belong to")
	rootCmd.PersistentFlags().StringVar(&substreamID, "substream", "", "substream within the stream (model, cholesterol, detergent, ...)")
	rootCmd.PersistentFlags().BoolVar(&resolve, "resolve", false, "resolve set/if/endif conditionals before parsing")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	classifyCmd.Flags().StringVar(&histfile, "histogram", "", "write a head-tail distance histogram PNG to this file")
	classifyCmd.Flags().IntVar(&histbins, "bins", 10, "histogram bin count")
	rootCmd.AddCommand(scanCmd, classifyCmd, showCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
