package mapfiles

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/INLOpen/lotcodec/core"
	"github.com/INLOpen/lotcodec/hooks"
	"github.com/INLOpen/lotcodec/lotheader"
	"github.com/INLOpen/lotcodec/lotpack"
)

// ErrHeaderUnavailable marks a lotpack that was not checked because its
// lotheader failed.
var ErrHeaderUnavailable = errors.New("companion lotheader unavailable")

// FileResult is the outcome of round-tripping one file.
type FileResult struct {
	Path     string
	Kind     hooks.FileKind
	Size     int
	Digest   uint64 // xxhash of the original bytes
	Duration time.Duration
	Err      error
}

func (r FileResult) OK() bool { return r.Err == nil }

// Result covers both files of a cell. Lotpack.Path is empty when the cell has
// no lotpack.
type Result struct {
	Cell    Cell
	Header  FileResult
	Lotpack FileResult
}

// Files returns the results of the files the cell actually has.
func (r Result) Files() []FileResult {
	if r.Lotpack.Path == "" {
		return []FileResult{r.Header}
	}
	return []FileResult{r.Header, r.Lotpack}
}

func (r Result) OK() bool {
	for _, f := range r.Files() {
		if !f.OK() {
			return false
		}
	}
	return true
}

// Report summarizes a batch.
type Report struct {
	Results  []Result
	Files    int
	Failed   int
	Duration time.Duration
}

// Failures returns every failed file result in cell order.
func (rep Report) Failures() []FileResult {
	var out []FileResult
	for _, r := range rep.Results {
		for _, f := range r.Files() {
			if !f.OK() {
				out = append(out, f)
			}
		}
	}
	return out
}

// Verify decodes and re-encodes both files of cell and checks the encoding
// reproduces the original bytes. Failures are reported in the Result.
func (s *Service) Verify(ctx context.Context, cell Cell) Result {
	res := Result{Cell: cell}
	var h *lotheader.Header
	res.Header = s.verifyFile(ctx, cell.HeaderPath, hooks.KindHeader, func(buf []byte) ([]byte, error) {
		var err error
		if h, err = s.decodeHeader(ctx, cell.HeaderPath, buf); err != nil {
			return nil, err
		}
		s.dump(cell.HeaderPath, func(name string) error { return s.dumper.WriteHeader(name, h) })
		return lotheader.Encode(h)
	})
	if res.Header.OK() {
		s.headers.Put(cell.Key(), h)
	}

	if cell.LotpackPath == "" {
		return res
	}
	if h == nil {
		res.Lotpack = FileResult{Path: cell.LotpackPath, Kind: hooks.KindLotpack, Err: ErrHeaderUnavailable}
		s.fileFailed(ctx, res.Lotpack)
		return res
	}
	res.Lotpack = s.verifyFile(ctx, cell.LotpackPath, hooks.KindLotpack, func(buf []byte) ([]byte, error) {
		f, err := s.decodeLotpack(ctx, cell.LotpackPath, buf, h)
		if err != nil {
			return nil, err
		}
		s.dump(cell.LotpackPath, func(name string) error { return s.dumper.WriteLotpack(name, f) })
		return lotpack.Encode(f)
	})
	return res
}

func (s *Service) verifyFile(ctx context.Context, path string, kind hooks.FileKind, roundTrip func([]byte) ([]byte, error)) FileResult {
	ctx, span := s.tracer.Start(ctx, "MapFiles.verifyFile", trace.WithAttributes(
		attribute.String("path", path),
		attribute.String("kind", string(kind)),
	))
	defer span.End()

	start := time.Now()
	res := FileResult{Path: path, Kind: kind}

	pooled, err := readFile(path)
	if err == nil {
		buf := pooled.Bytes()
		s.metrics.bytesRead.Add(int64(len(buf)))
		res.Size = len(buf)
		res.Digest = xxhash.Sum64(buf)
		var encoded []byte
		if encoded, err = roundTrip(buf); err == nil {
			err = compareEncoding(path, buf, res.Digest, encoded)
		}
		readBuffers.Put(pooled)
	}
	res.Err = err
	res.Duration = time.Since(start)

	s.metrics.filesVerified.Add(1)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, core.ErrorKind(err))
		s.fileFailed(ctx, res)
		return res
	}
	s.trigger(ctx, hooks.NewPostVerifyFileEvent(hooks.VerifyPayload{
		Path: path, Kind: kind, Size: res.Size, Identical: true, Duration: res.Duration,
	}))
	return res
}

func (s *Service) fileFailed(ctx context.Context, res FileResult) {
	s.metrics.filesFailed.Add(1)
	s.metrics.failuresByKind.Add(core.ErrorKind(res.Err), 1)
	s.trigger(ctx, hooks.NewOnFileErrorEvent(hooks.FileErrorPayload{Path: res.Path, Kind: res.Kind, Err: res.Err}))
}

// compareEncoding checks encoded against the original bytes by digest and
// length, locating the first differing byte on mismatch.
func compareEncoding(path string, original []byte, digest uint64, encoded []byte) error {
	if len(original) == len(encoded) && digest == xxhash.Sum64(encoded) {
		return nil
	}
	n := min(len(original), len(encoded))
	offset := n
	for i := 0; i < n; i++ {
		if original[i] != encoded[i] {
			offset = i
			break
		}
	}
	return &core.RoundTripMismatchError{Path: path, Offset: offset, Length: len(original), EncodedLength: len(encoded)}
}

func (s *Service) dump(path string, write func(name string) error) {
	if s.dumper == nil {
		return
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := write(name); err != nil {
		s.logger.Warn("Dump failed", "path", path, "error", err)
	}
}

// VerifyAll verifies cells concurrently. A failing file never stops the batch;
// only a PreVerifyBatch hook or context cancellation does. On cancellation the
// partial report is returned with the context's error, and cells that never
// started carry that error.
func (s *Service) VerifyAll(ctx context.Context, dir string, cells []Cell) (Report, error) {
	ctx, span := s.tracer.Start(ctx, "MapFiles.VerifyAll", trace.WithAttributes(
		attribute.String("dir", dir),
		attribute.Int("cells", len(cells)),
	))
	defer span.End()

	if err := s.hooks.Trigger(ctx, hooks.NewPreVerifyBatchEvent(hooks.BatchPayload{Dir: dir, Cells: len(cells)})); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancelled_by_hook")
		return Report{}, fmt.Errorf("verify batch: %w", err)
	}

	start := time.Now()
	results := make([]Result, len(cells))
	started := make([]bool, len(cells))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, cell := range cells {
		if gctx.Err() != nil {
			break
		}
		started[i] = true
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = notStarted(cell, err)
				return nil
			}
			results[i] = s.Verify(gctx, cell)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	rep := Report{Results: results}
	for i, r := range results {
		if !started[i] {
			results[i] = notStarted(cells[i], ctx.Err())
			r = results[i]
		}
		for _, f := range r.Files() {
			rep.Files++
			if !f.OK() {
				rep.Failed++
			}
		}
	}
	rep.Duration = time.Since(start)

	s.logger.Info("Verification finished", "dir", dir, "cells", len(cells), "files", rep.Files, "failed", rep.Failed, "duration", rep.Duration)
	s.trigger(ctx, hooks.NewPostVerifyBatchEvent(hooks.BatchPayload{
		Dir: dir, Cells: len(cells), Failed: rep.Failed, Duration: rep.Duration,
	}))
	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, "cancelled")
		return rep, err
	}
	if rep.Failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d files failed", rep.Failed))
	}
	return rep, nil
}

func notStarted(cell Cell, err error) Result {
	res := Result{
		Cell:   cell,
		Header: FileResult{Path: cell.HeaderPath, Kind: hooks.KindHeader, Err: err},
	}
	if cell.LotpackPath != "" {
		res.Lotpack = FileResult{Path: cell.LotpackPath, Kind: hooks.KindLotpack, Err: err}
	}
	return res
}
