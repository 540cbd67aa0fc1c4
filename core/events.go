package core

// MotionEvent captures a timing-critical event for post-mortem
// analysis. Recording is a ring-buffer write, safe from the tick
// handler; nothing here formats or allocates.
type MotionEvent struct {
	EventType uint8
	Axis      Axis
	Value     uint32
}

// Event type codes
const (
	EvtMotorStart    = 1 // step generator booted
	EvtStopRequest   = 2 // graceful stop requested
	EvtEmergencyStop = 3 // timer disabled synchronously
	EvtGotoDecel     = 4 // deceleration marker reached
	EvtStopped       = 5 // axis came to rest
	EvtJogOverride   = 6 // jog input took over speed/direction
)

const eventRingSize = 32

// EventRing keeps the last eventRingSize motion events.
type EventRing struct {
	events [eventRingSize]MotionEvent
	head   uint32
}

func (r *EventRing) record(evtType uint8, axis Axis, value uint32) {
	r.events[r.head%eventRingSize] = MotionEvent{
		EventType: evtType,
		Axis:      axis,
		Value:     value,
	}
	r.head++
}

// Snapshot returns the recorded events, oldest first. Foreground use
// only; a concurrent record can smear the oldest entry, which is
// acceptable for post-mortem data.
func (r *EventRing) Snapshot() []MotionEvent {
	n := int(r.head)
	if n > eventRingSize {
		n = eventRingSize
	}
	out := make([]MotionEvent, 0, n)
	start := r.head - uint32(n)
	for i := 0; i < n; i++ {
		out = append(out, r.events[(start+uint32(i))%eventRingSize])
	}
	return out
}

// Events exposes the controller's motion event ring.
func (c *Controller) Events() []MotionEvent {
	return c.events.Snapshot()
}
