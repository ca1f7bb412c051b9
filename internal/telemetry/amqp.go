package telemetry

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"reorder-system/internal/common/logger"
	"reorder-system/internal/connections/rabbitmq"
)

// AMQP publishes events to the telemetry fanout exchange. Emit enqueues into
// a buffered channel drained by a single goroutine, so a slow or dead broker
// never stalls the coordinator; a full buffer drops the event.
type AMQP struct {
	client *rabbitmq.Client
	lg     *logger.Logger
	queue  chan Event
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

const publishBuffer = 256

func NewAMQP(client *rabbitmq.Client, lg *logger.Logger) (*AMQP, error) {
	if err := client.DeclareTelemetry(); err != nil {
		return nil, err
	}
	a := &AMQP{
		client: client,
		lg:     lg,
		queue:  make(chan Event, publishBuffer),
		done:   make(chan struct{}),
	}
	go a.drain()
	return a, nil
}

func (a *AMQP) Emit(eventType string, fields map[string]string) {
	ev := Event{TimestampMs: nowMs(), Type: eventType, Fields: fields}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		// in-flight handlers may still emit during shutdown; drop
		return
	}
	select {
	case a.queue <- ev:
	default:
		// buffer full: drop rather than block the caller
	}
}

// Close stops the drain loop after the queue empties. Emit calls arriving
// afterwards are dropped. Safe to call twice.
func (a *AMQP) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()
	<-a.done
}

func (a *AMQP) drain() {
	defer close(a.done)
	for ev := range a.queue {
		body, err := json.Marshal(ev)
		if err != nil {
			a.lg.Error("telemetry_marshal_failed", err, map[string]any{"type": ev.Type})
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = a.client.Publish(ctx, rabbitmq.TelemetryExchange, "", body, amqp.Table{
			"x-event-type": ev.Type,
		})
		cancel()
		if err != nil {
			a.lg.Error("telemetry_publish_failed", err, map[string]any{"type": ev.Type})
		}
	}
}
