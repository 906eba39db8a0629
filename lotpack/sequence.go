package lotpack

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/INLOpen/lotcodec/lotheader"
)

// Sequence is the raw integer stream of one chunk payload.
type Sequence struct {
	Chunk  int
	Offset int
	Values []int32
}

// DumpSequences decodes buf and returns the raw integer stream of every
// chunk, which is how the run-length layout is inspected by hand.
func DumpSequences(buf []byte, h *lotheader.Header) ([]Sequence, error) {
	_, spans, err := decode(buf, h)
	if err != nil {
		return nil, err
	}
	seqs := make([]Sequence, len(spans))
	for i, span := range spans {
		values := make([]int32, (span.end-span.start)/4)
		for j := range values {
			values[j] = int32(binary.LittleEndian.Uint32(buf[span.start+j*4:]))
		}
		seqs[i] = Sequence{Chunk: i, Offset: span.start, Values: values}
	}
	return seqs, nil
}

// WriteSequences prints one line per chunk: "chunk offset: v0 v1 ...".
func WriteSequences(w io.Writer, seqs []Sequence) error {
	bw := bufio.NewWriter(w)
	for _, s := range seqs {
		if _, err := fmt.Fprintf(bw, "%d %d:", s.Chunk, s.Offset); err != nil {
			return err
		}
		for _, v := range s.Values {
			if _, err := fmt.Fprintf(bw, " %d", v); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
