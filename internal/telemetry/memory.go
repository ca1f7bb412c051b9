package telemetry

import "sync"

// Memory keeps the most recent events in a bounded ring. Default sink when no
// broker is configured; also what the /telemetry/summary endpoint reads.
type Memory struct {
	mu     sync.Mutex
	events []Event
	next   int
	filled bool
}

const defaultCapacity = 200

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Memory{events: make([]Event, capacity)}
}

func (m *Memory) Emit(eventType string, fields map[string]string) {
	ev := Event{TimestampMs: nowMs(), Type: eventType, Fields: fields}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[m.next] = ev
	m.next++
	if m.next == len(m.events) {
		m.next = 0
		m.filled = true
	}
}

// Recent returns up to n most recent events, oldest first.
func (m *Memory) Recent(n int) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	size := m.next
	if m.filled {
		size = len(m.events)
	}
	if n <= 0 || n > size {
		n = size
	}
	out := make([]Event, 0, n)
	for i := size - n; i < size; i++ {
		idx := i
		if m.filled {
			idx = (m.next + i) % len(m.events)
		}
		out = append(out, m.events[idx])
	}
	return out
}

// Summary counts stored events by type, plus detections by object class.
func (m *Memory) Summary() map[string]map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	size := m.next
	if m.filled {
		size = len(m.events)
	}
	byType := make(map[string]int)
	byObject := make(map[string]int)
	for i := 0; i < size; i++ {
		idx := i
		if m.filled {
			idx = (m.next + i) % len(m.events)
		}
		ev := m.events[idx]
		byType[ev.Type]++
		if ev.Type == EventDetectionReceived {
			class := ev.Fields["object_class"]
			if class == "" {
				class = "unknown"
			}
			byObject[class]++
		}
	}
	return map[string]map[string]int{
		"events":               byType,
		"detections_by_object": byObject,
	}
}
