package listeners

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/INLOpen/lotcodec/hooks"
)

// SlowFileRule sets the acceptable decode time for one kind of file. Files
// smaller than MinSize are never reported.
type SlowFileRule struct {
	Kind    hooks.FileKind
	Max     time.Duration
	MinSize int
}

// SlowFileListener warns about decodes that take longer than their rule allows.
type SlowFileListener struct {
	logger *slog.Logger
	rules  map[hooks.FileKind]SlowFileRule
}

func NewSlowFileListener(logger *slog.Logger, rules []SlowFileRule) *SlowFileListener {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ruleMap := make(map[hooks.FileKind]SlowFileRule, len(rules))
	for _, r := range rules {
		ruleMap[r.Kind] = r
	}
	return &SlowFileListener{
		logger: logger.With("component", "SlowFileListener"),
		rules:  ruleMap,
	}
}

func (l *SlowFileListener) OnEvent(ctx context.Context, event hooks.HookEvent) error {
	switch event.Type() {
	case hooks.EventPostDecodeHeader, hooks.EventPostDecodeLotpack:
	default:
		return nil
	}
	payload, ok := event.Payload().(hooks.DecodePayload)
	if !ok {
		l.logger.Error("Received decode event with incorrect payload type", "payload_type", fmt.Sprintf("%T", event.Payload()))
		return nil
	}
	rule, ok := l.rules[payload.Kind]
	if !ok || payload.Size < rule.MinSize || payload.Duration <= rule.Max {
		return nil
	}
	l.logger.Warn("Slow decode",
		"path", payload.Path,
		"file_kind", payload.Kind,
		"size", payload.Size,
		"duration", payload.Duration,
		"max", rule.Max,
	)
	return nil
}

func (l *SlowFileListener) Priority() int { return 100 }

// IsAsync is true: nothing waits on the warning.
func (l *SlowFileListener) IsAsync() bool { return true }
