package charmm

import (
	"bufio"
	"compress/gzip"
	"io"

	"github.com/klauspost/compress/zstd"
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

// DecompressText reads all of r and returns it as text, transparently
// decoding zstd and gzip by magic-number sniffing. Topology collections
// are routinely shipped compressed; the parser itself only ever sees
// plain text.
func DecompressText(r io.Reader) (string, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return "", errDecorate(err, "DecompressText")
	}
	var in io.Reader = br
	switch {
	case len(head) >= 4 && string(head[:4]) == string(zstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return "", errDecorate(err, "DecompressText")
		}
		defer dec.Close()
		in = dec
	case len(head) >= 2 && string(head[:2]) == string(gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return "", errDecorate(err, "DecompressText")
		}
		defer gz.Close()
		in = gz
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", errDecorate(err, "DecompressText")
	}
	return string(b), nil
}
