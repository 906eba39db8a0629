// Command dump_sequence prints the raw integer stream of every chunk in a
// lotpack, one line per chunk.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/INLOpen/lotcodec/lotheader"
	"github.com/INLOpen/lotcodec/lotpack"
	"github.com/INLOpen/lotcodec/sys"
)

func main() {
	var headerPath, lotpackPath, outPath string
	flag.StringVar(&headerPath, "header", "", "path to the cell's .lotheader")
	flag.StringVar(&lotpackPath, "lotpack", "", "path to the cell's .lotpack")
	flag.StringVar(&outPath, "out", "", "output file (default stdout)")
	flag.Parse()
	if headerPath == "" || lotpackPath == "" {
		fmt.Println("provide -header and -lotpack paths")
		os.Exit(2)
	}
	if err := run(headerPath, lotpackPath, outPath, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "dump failed: %v\n", err)
		os.Exit(1)
	}
}

func run(headerPath, lotpackPath, outPath string, stdout io.Writer) error {
	h, err := lotheader.ReadFile(headerPath)
	if err != nil {
		return err
	}
	buf, err := os.ReadFile(lotpackPath)
	if err != nil {
		return err
	}
	seqs, err := lotpack.DumpSequences(buf, h)
	if err != nil {
		return fmt.Errorf("decode %s: %w", lotpackPath, err)
	}
	if outPath == "" {
		return lotpack.WriteSequences(stdout, seqs)
	}
	return sys.WriteAtomic(outPath, 0o644, func(w io.Writer) error {
		return lotpack.WriteSequences(w, seqs)
	})
}
