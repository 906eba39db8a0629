package hooks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// EventType defines the type of a hook event.
type EventType string

const (
	// Batch lifecycle. Pre events run synchronously and may cancel the batch.
	EventPreVerifyBatch  EventType = "PreVerifyBatch"
	EventPostVerifyBatch EventType = "PostVerifyBatch"

	// Per file.
	EventPostDecodeHeader  EventType = "PostDecodeHeader"
	EventPostDecodeLotpack EventType = "PostDecodeLotpack"
	EventPostVerifyFile    EventType = "PostVerifyFile"
	EventOnFileError       EventType = "OnFileError"

	// Header cache.
	EventOnCacheHit      EventType = "OnCacheHit"
	EventOnCacheMiss     EventType = "OnCacheMiss"
	EventOnCacheEviction EventType = "OnCacheEviction"
)

// HookManager registers listeners and dispatches events to them.
type HookManager interface {
	Register(eventType EventType, listener HookListener)
	Trigger(ctx context.Context, event HookEvent) error
	// Stop waits for asynchronous listeners to finish.
	Stop()
}

// HookListener reacts to events.
type HookListener interface {
	// OnEvent handles the event. An error from a Pre-event listener cancels
	// the operation; errors from other listeners are only logged.
	OnEvent(ctx context.Context, event HookEvent) error
	// Priority orders listeners; lower runs first.
	Priority() int
	// IsAsync requests background execution. Ignored for Pre events.
	IsAsync() bool
}

// HookEvent is what listeners receive.
type HookEvent interface {
	Type() EventType
	Payload() interface{}
}

// BaseEvent is the HookEvent implementation used by all constructors here.
type BaseEvent struct {
	eventType EventType
	payload   interface{}
}

func (e *BaseEvent) Type() EventType      { return e.eventType }
func (e *BaseEvent) Payload() interface{} { return e.payload }

// FileKind tells lotheader and lotpack files apart in payloads.
type FileKind string

const (
	KindHeader  FileKind = "lotheader"
	KindLotpack FileKind = "lotpack"
)

// BatchPayload describes a verification batch.
type BatchPayload struct {
	Dir      string
	Cells    int
	Failed   int
	Duration time.Duration
}

func NewPreVerifyBatchEvent(payload BatchPayload) HookEvent {
	return &BaseEvent{eventType: EventPreVerifyBatch, payload: payload}
}

func NewPostVerifyBatchEvent(payload BatchPayload) HookEvent {
	return &BaseEvent{eventType: EventPostVerifyBatch, payload: payload}
}

// DecodePayload is sent after a file decoded successfully.
type DecodePayload struct {
	Path     string
	Kind     FileKind
	Version  int32
	Size     int
	Duration time.Duration
}

func NewPostDecodeHeaderEvent(payload DecodePayload) HookEvent {
	return &BaseEvent{eventType: EventPostDecodeHeader, payload: payload}
}

func NewPostDecodeLotpackEvent(payload DecodePayload) HookEvent {
	return &BaseEvent{eventType: EventPostDecodeLotpack, payload: payload}
}

// VerifyPayload reports the round trip of one file.
type VerifyPayload struct {
	Path      string
	Kind      FileKind
	Size      int
	Identical bool
	Duration  time.Duration
}

func NewPostVerifyFileEvent(payload VerifyPayload) HookEvent {
	return &BaseEvent{eventType: EventPostVerifyFile, payload: payload}
}

// FileErrorPayload carries a failure contained to one file.
type FileErrorPayload struct {
	Path string
	Kind FileKind
	Err  error
}

func NewOnFileErrorEvent(payload FileErrorPayload) HookEvent {
	return &BaseEvent{eventType: EventOnFileError, payload: payload}
}

// CachePayload identifies a cached cell.
type CachePayload struct {
	Key int
}

func NewOnCacheHitEvent(payload CachePayload) HookEvent {
	return &BaseEvent{eventType: EventOnCacheHit, payload: payload}
}

func NewOnCacheMissEvent(payload CachePayload) HookEvent {
	return &BaseEvent{eventType: EventOnCacheMiss, payload: payload}
}

func NewOnCacheEvictionEvent(payload CachePayload) HookEvent {
	return &BaseEvent{eventType: EventOnCacheEviction, payload: payload}
}

type registeredListener struct {
	listener HookListener
	priority int
}

// DefaultHookManager keeps listeners per event type sorted by priority.
type DefaultHookManager struct {
	mu        sync.RWMutex
	listeners map[EventType][]registeredListener
	wg        sync.WaitGroup
	logger    *slog.Logger
}

// NewHookManager creates a new DefaultHookManager.
func NewHookManager(logger *slog.Logger) HookManager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DefaultHookManager{
		listeners: make(map[EventType][]registeredListener),
		logger:    logger.With("component", "HookManager"),
	}
}

// Register adds a listener. Listeners of equal priority run in registration order.
func (m *DefaultHookManager) Register(eventType EventType, listener HookListener) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := registeredListener{listener: listener, priority: listener.Priority()}
	list := m.listeners[eventType]
	idx, _ := slices.BinarySearchFunc(list, item.priority+1, func(l registeredListener, p int) int {
		return l.priority - p
	})
	m.listeners[eventType] = slices.Insert(list, idx, item)
}

// Trigger runs the listeners of event in priority order.
func (m *DefaultHookManager) Trigger(ctx context.Context, event HookEvent) error {
	m.mu.RLock()
	list := m.listeners[event.Type()]
	m.mu.RUnlock()
	if len(list) == 0 {
		return nil
	}

	isPre := strings.HasPrefix(string(event.Type()), "Pre")
	for _, item := range list {
		if !isPre && item.listener.IsAsync() {
			m.wg.Add(1)
			go func(l registeredListener) {
				defer m.wg.Done()
				if err := l.listener.OnEvent(ctx, event); err != nil {
					m.logger.Error("Asynchronous listener failed", "event", event.Type(), "priority", l.priority, "error", err)
				}
			}(item)
			continue
		}

		if err := item.listener.OnEvent(ctx, event); err != nil {
			if isPre {
				return fmt.Errorf("pre-hook for event %s (priority %d) failed: %w", event.Type(), item.priority, err)
			}
			m.logger.Error("Listener failed", "event", event.Type(), "priority", item.priority, "error", err)
		}
	}
	return nil
}

// Stop waits for all asynchronous listeners to complete.
func (m *DefaultHookManager) Stop() {
	m.wg.Wait()
}
