package mapfiles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/INLOpen/lotcodec/cache"
	"github.com/INLOpen/lotcodec/core"
	"github.com/INLOpen/lotcodec/hooks"
	"github.com/INLOpen/lotcodec/lotheader"
	"github.com/INLOpen/lotcodec/lotpack"
)

// ErrNoLotpack is returned when a cell has no lotpack file next to its header.
var ErrNoLotpack = errors.New("cell has no lotpack")

// readBuffers holds whole-file buffers; very large ones are not retained.
var readBuffers = core.NewBufferPool(core.DefaultReadBufferSize, 64<<20)

// readFile reads path into a pooled buffer. The caller returns it with
// readBuffers.Put once nothing refers to its bytes.
func readFile(path string) (*bytes.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := readBuffers.Get()
	if fi, err := f.Stat(); err == nil {
		buf.Grow(int(fi.Size()))
	}
	if _, err := buf.ReadFrom(f); err != nil {
		readBuffers.Put(buf)
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return buf, nil
}

// Dumper receives decoded files for debugging. Implemented by dump.Writer.
type Dumper interface {
	WriteHeader(name string, h *lotheader.Header) error
	WriteLotpack(name string, f *lotpack.File) error
}

// Options configures a Service. Zero values are usable.
type Options struct {
	Logger        *slog.Logger
	Hooks         hooks.HookManager
	Tracer        trace.Tracer
	Workers       int // concurrent cells in VerifyAll; <= 0 means GOMAXPROCS
	CacheCapacity int // decoded headers kept by LoadHeader; <= 0 disables caching
	Dumper        Dumper
}

// Service loads and verifies the map files of one directory tree.
type Service struct {
	logger  *slog.Logger
	hooks   hooks.HookManager
	tracer  trace.Tracer
	workers int
	dumper  Dumper
	headers cache.Interface[int, *lotheader.Header]
	metrics *metrics
}

func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	hm := opts.Hooks
	if hm == nil {
		hm = hooks.NewHookManager(logger)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("lotcodec/mapfiles")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	s := &Service{
		logger:  logger.With("component", "MapFiles"),
		hooks:   hm,
		tracer:  tracer,
		workers: workers,
		dumper:  opts.Dumper,
		metrics: newMetrics(),
	}
	// Cache callbacks run under the cache lock; listeners must not reenter it.
	s.headers = cache.NewLRU(opts.CacheCapacity, cache.Callbacks[int, *lotheader.Header]{
		OnHit: func(key int) {
			s.trigger(context.Background(), hooks.NewOnCacheHitEvent(hooks.CachePayload{Key: key}))
		},
		OnMiss: func(key int) {
			s.trigger(context.Background(), hooks.NewOnCacheMissEvent(hooks.CachePayload{Key: key}))
		},
		OnEvicted: func(key int, _ *lotheader.Header) {
			s.trigger(context.Background(), hooks.NewOnCacheEvictionEvent(hooks.CachePayload{Key: key}))
		},
	})
	s.headers.SetMetrics(s.metrics.cacheHits, s.metrics.cacheMisses)
	return s
}

func (s *Service) trigger(ctx context.Context, event hooks.HookEvent) {
	if err := s.hooks.Trigger(ctx, event); err != nil {
		s.logger.Warn("Hook failed", "event", event.Type(), "error", err)
	}
}

// CacheHitRate reports the header cache hit rate.
func (s *Service) CacheHitRate() float64 { return s.headers.GetHitRate() }

// LoadHeader returns the decoded lotheader of cell, from cache when possible.
func (s *Service) LoadHeader(ctx context.Context, cell Cell) (*lotheader.Header, error) {
	if h, ok := s.headers.Get(cell.Key()); ok {
		return h, nil
	}
	_, span := s.tracer.Start(ctx, "MapFiles.LoadHeader", trace.WithAttributes(attribute.String("path", cell.HeaderPath)))
	defer span.End()

	buf, err := readFile(cell.HeaderPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read_failed")
		return nil, err
	}
	defer readBuffers.Put(buf)
	s.metrics.bytesRead.Add(int64(buf.Len()))
	h, err := s.decodeHeader(ctx, cell.HeaderPath, buf.Bytes())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode_failed")
		return nil, err
	}
	s.headers.Put(cell.Key(), h)
	return h, nil
}

// LoadCell returns the header and lotpack of cell.
func (s *Service) LoadCell(ctx context.Context, cell Cell) (*lotheader.Header, *lotpack.File, error) {
	h, err := s.LoadHeader(ctx, cell)
	if err != nil {
		return nil, nil, err
	}
	if cell.LotpackPath == "" {
		return nil, nil, fmt.Errorf("%s: %w", cell, ErrNoLotpack)
	}
	_, span := s.tracer.Start(ctx, "MapFiles.LoadLotpack", trace.WithAttributes(attribute.String("path", cell.LotpackPath)))
	defer span.End()

	buf, err := readFile(cell.LotpackPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read_failed")
		return nil, nil, err
	}
	defer readBuffers.Put(buf)
	s.metrics.bytesRead.Add(int64(buf.Len()))
	f, err := s.decodeLotpack(ctx, cell.LotpackPath, buf.Bytes(), h)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode_failed")
		return nil, nil, err
	}
	return h, f, nil
}

func (s *Service) decodeHeader(ctx context.Context, path string, buf []byte) (*lotheader.Header, error) {
	start := time.Now()
	h, err := lotheader.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	s.trigger(ctx, hooks.NewPostDecodeHeaderEvent(hooks.DecodePayload{
		Path: path, Kind: hooks.KindHeader, Version: h.Version, Size: len(buf), Duration: time.Since(start),
	}))
	return h, nil
}

func (s *Service) decodeLotpack(ctx context.Context, path string, buf []byte, h *lotheader.Header) (*lotpack.File, error) {
	start := time.Now()
	f, err := lotpack.Decode(buf, h)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	s.trigger(ctx, hooks.NewPostDecodeLotpackEvent(hooks.DecodePayload{
		Path: path, Kind: hooks.KindLotpack, Version: f.Version, Size: len(buf), Duration: time.Since(start),
	}))
	return f, nil
}
