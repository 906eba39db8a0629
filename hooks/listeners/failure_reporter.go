package listeners

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sync"

	"github.com/INLOpen/lotcodec/core"
	"github.com/INLOpen/lotcodec/hooks"
)

// FailureReporter logs every contained file failure and tallies them by kind.
type FailureReporter struct {
	logger *slog.Logger
	mu     sync.Mutex
	counts map[string]int
}

func NewFailureReporter(logger *slog.Logger) *FailureReporter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FailureReporter{
		logger: logger.With("component", "FailureReporter"),
		counts: make(map[string]int),
	}
}

func (l *FailureReporter) OnEvent(ctx context.Context, event hooks.HookEvent) error {
	if event.Type() != hooks.EventOnFileError {
		return nil
	}
	payload, ok := event.Payload().(hooks.FileErrorPayload)
	if !ok {
		l.logger.Error("Received OnFileError event with incorrect payload type", "payload_type", fmt.Sprintf("%T", event.Payload()))
		return nil
	}

	kind := core.ErrorKind(payload.Err)
	l.mu.Lock()
	l.counts[kind]++
	l.mu.Unlock()

	attrs := []any{"path", payload.Path, "file_kind", payload.Kind, "error_kind", kind, "error", payload.Err}
	var truncated *core.TruncatedDataError
	if errors.As(payload.Err, &truncated) {
		attrs = append(attrs, "offset", truncated.Offset, "length", truncated.Length)
	}
	var mismatch *core.RoundTripMismatchError
	if errors.As(payload.Err, &mismatch) {
		attrs = append(attrs, "offset", mismatch.Offset, "encoded_length", mismatch.EncodedLength)
	}
	l.logger.Warn("Map file failed", attrs...)
	return nil
}

// Counts returns a snapshot of failures per error kind.
func (l *FailureReporter) Counts() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.counts)
}

func (l *FailureReporter) Priority() int { return 10 }

func (l *FailureReporter) IsAsync() bool { return false }
