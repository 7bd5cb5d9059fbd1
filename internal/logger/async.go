package logger

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Closer flushes buffered log output on shutdown.
type Closer interface {
	Close()
}

type nopCloser struct{}

func (nopCloser) Close() {}

// queue is the shared buffer behind every derived AsyncHandler. Derived
// handlers (WithAttrs, WithGroup) enqueue into the same channel, so one
// drain goroutine serves the whole logger tree.
type queue struct {
	ch      chan queuedRecord
	done    chan struct{}
	dropped atomic.Int64
}

type queuedRecord struct {
	handler slog.Handler
	record  slog.Record
}

// AsyncHandler decouples log emission from record handling: Handle
// enqueues and returns immediately, a single goroutine writes in arrival
// order. A full buffer drops the record rather than blocking the caller.
type AsyncHandler struct {
	inner slog.Handler
	q     *queue
}

// NewAsyncHandler wraps inner with a buffer of the given capacity and
// starts the drain goroutine.
func NewAsyncHandler(inner slog.Handler, capacity int) *AsyncHandler {
	q := &queue{
		ch:   make(chan queuedRecord, capacity),
		done: make(chan struct{}),
	}
	go func() {
		defer close(q.done)
		for item := range q.ch {
			_ = item.handler.Handle(context.Background(), item.record)
		}
	}()
	return &AsyncHandler{inner: inner, q: q}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(_ context.Context, rec slog.Record) error {
	select {
	case h.q.ch <- queuedRecord{handler: h.inner, record: rec}:
	default:
		h.q.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithAttrs(attrs), q: h.q}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithGroup(name), q: h.q}
}

// DroppedCount reports how many records were discarded on a full buffer.
func (h *AsyncHandler) DroppedCount() int64 {
	return h.q.dropped.Load()
}

// Close stops accepting records, waits for the buffer to drain and
// reports any drops through the inner handler.
func (h *AsyncHandler) Close() {
	close(h.q.ch)
	<-h.q.done
	if n := h.q.dropped.Load(); n > 0 {
		rec := slog.NewRecord(time.Now(), slog.LevelWarn, "log records dropped", 0)
		rec.AddAttrs(slog.Int64("count", n))
		_ = h.inner.Handle(context.Background(), rec)
	}
}
