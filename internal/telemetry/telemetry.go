// Package telemetry is the fire-and-forget side channel for coordinator
// events. Emit never blocks and never returns an error to the caller; a sink
// that cannot keep up drops events.
package telemetry

import "time"

// Well-known event names emitted by the coordinator and the HTTP layer.
const (
	EventDetectionReceived = "detection_received"
	EventIntentCreated     = "intent_created"
	EventIntentThrottled   = "intent_throttled"
	EventDecisionRecorded  = "decision_recorded"
	EventOrderSubmitted    = "order_submitted"
	EventOrderFailed       = "order_failed"
)

type Event struct {
	TimestampMs int64             `json:"timestamp_ms"`
	Type        string            `json:"type"`
	Fields      map[string]string `json:"fields,omitempty"`
}

type Sink interface {
	Emit(eventType string, fields map[string]string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Emit(string, map[string]string) {}

func nowMs() int64 { return time.Now().UnixMilli() }
