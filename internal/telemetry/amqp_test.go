package telemetry

import "testing"

// newIdleAMQP builds a sink whose drain loop discards events, standing in for
// the broker-backed loop during shutdown tests.
func newIdleAMQP() *AMQP {
	a := &AMQP{
		queue: make(chan Event, publishBuffer),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(a.done)
		for range a.queue {
		}
	}()
	return a
}

func TestAMQP_EmitAfterCloseIsDropped(t *testing.T) {
	a := newIdleAMQP()
	a.Emit(EventDetectionReceived, map[string]string{"device_id": "d1"})
	a.Close()

	// Handlers abandoned by the server's shutdown deadline may still emit.
	a.Emit(EventOrderSubmitted, map[string]string{"order_id": "o1"})
	a.Emit(EventOrderFailed, nil)
}

func TestAMQP_CloseTwice(t *testing.T) {
	a := newIdleAMQP()
	a.Close()
	a.Close()
}
