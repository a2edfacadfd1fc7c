package audit

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mssola/useragent"
)

// Recorder decouples request handling from audit delivery. Record enqueues
// without blocking; a background loop drains the inbox into the publisher.
// Audit here is fail-open: a full inbox or a failed publish is logged and
// dropped rather than failing the user-facing operation.
type Recorder struct {
	publisher Publisher
	logger    *slog.Logger
	inbox     chan Event
}

func NewRecorder(publisher Publisher, logger *slog.Logger, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	return &Recorder{
		publisher: publisher,
		logger:    logger,
		inbox:     make(chan Event, buffer),
	}
}

// Record enqueues the event, stamping the timestamp if unset.
func (r *Recorder) Record(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case r.inbox <- event:
	default:
		r.logger.Warn("audit inbox full, dropping event", "action", event.Action)
	}
}

// Run drains the inbox until ctx is cancelled, then flushes what remains.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.flush()
			return ctx.Err()
		case event := <-r.inbox:
			r.publish(event)
		}
	}
}

func (r *Recorder) flush() {
	for {
		select {
		case event := <-r.inbox:
			r.publish(event)
		default:
			return
		}
	}
}

func (r *Recorder) publish(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.logger.Error("audit publish failed", "action", event.Action, "error", err)
	}
}

// DeviceName renders a User-Agent header as a short human-readable device
// description for audit trails, e.g. "Firefox 126 on Linux".
func DeviceName(rawUA string) string {
	if rawUA == "" {
		return "unknown"
	}
	ua := useragent.New(rawUA)
	browser, version := ua.Browser()
	if browser == "" {
		return "unknown"
	}
	name := browser
	if version != "" {
		major, _, _ := strings.Cut(version, ".")
		name += " " + major
	}
	if os := ua.OSInfo().Name; os != "" {
		name += " on " + os
	}
	return name
}
