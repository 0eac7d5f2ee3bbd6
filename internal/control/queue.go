package control

import "sync/atomic"

// GateKind is the type of a gate event.
type GateKind uint8

const (
	// GateTrigger starts a note: latch Note as sounding and trigger the envelope.
	GateTrigger GateKind = iota + 1
	// GateRelease releases Note if it is the sounding note.
	GateRelease
	// GateStopAll forces the envelope into decay from any stage.
	GateStopAll
)

// GateEvent travels from the control context to the audio context. The note
// and the request are one value, so a new note can never be observed before
// its trigger.
type GateEvent struct {
	Kind GateKind
	Note Note
}

// GateQueueSize is the ring capacity; it must be a power of two.
const GateQueueSize = 64

// GateQueue is a bounded single-producer/single-consumer ring. Push never
// blocks (it fails when full) and Pop never blocks (it fails when empty).
type GateQueue struct {
	head atomic.Uint32 // next slot to read, owned by the consumer
	tail atomic.Uint32 // next slot to write, owned by the producer
	ring [GateQueueSize]GateEvent
}

func NewGateQueue() *GateQueue {
	return &GateQueue{}
}

// Push appends ev. It reports false when the queue is full; the event is
// dropped rather than waiting on the audio context.
func (q *GateQueue) Push(ev GateEvent) bool {
	tail := q.tail.Load()
	if tail-q.head.Load() >= GateQueueSize {
		return false
	}
	q.ring[tail&(GateQueueSize-1)] = ev
	q.tail.Store(tail + 1)
	return true
}

// Pop removes the oldest event.
func (q *GateQueue) Pop() (GateEvent, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return GateEvent{}, false
	}
	ev := q.ring[head&(GateQueueSize-1)]
	q.head.Store(head + 1)
	return ev, true
}

// Len is the number of pending events. It is exact only when called from
// one of the two owning contexts.
func (q *GateQueue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}
