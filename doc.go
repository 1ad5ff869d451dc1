/*Package charmm reads CHARMM-style topology text (RESI/PRES records, MASS
lines, stream files with embedded set/if/endif conditionals) and builds an
in-memory database of molecular residues: atoms, bonds, angles, dihedrals,
internal coordinates and per-residue metadata.

The package does no file I/O of its own. Callers hand it decoded text (see
DecompressText for zstd/gzip archives) together with the stream/substream
the text belongs to. Residues parsed from later sources replace earlier
ones of the same name; the replacement is logged, never an error, and is
fully deterministic given a fixed load order.

Graph-based analysis of the parsed residues (hydrogen-free bond graphs,
bridge detection, head/tail classification of lipid-like molecules) lives
in the molgraph and lipid subpackages.*/
package charmm
