package core

// StepTimer abstracts the per-axis hardware compare timer that paces
// the step generator. One implementation exists per target platform;
// the motion engine depends only on this interface.
//
// The callback registered with SetCallback runs in interrupt context
// and must be run-to-completion: it is never re-entered for the same
// axis.
type StepTimer interface {
	// SetCallback registers the compare-match handler.
	SetCallback(fn func())

	// EnableClock starts the counter. The callback begins firing.
	EnableClock()

	// DisableClock stops the counter and masks the compare interrupt.
	// Synchronous: no callback runs after DisableClock returns.
	DisableClock()

	// MaskIRQ suppresses the compare interrupt without stopping the
	// counter. Used as the axis critical section for multi-word reads;
	// hold only around the minimal access, never across computation.
	MaskIRQ()

	// UnmaskIRQ restores compare interrupt delivery.
	UnmaskIRQ()

	// SetReload sets the counter top: ticks until the next compare
	// match. Rewritten from inside the callback on every step edge.
	SetReload(ticks uint16)

	// ZeroCount resets the running counter, so the next compare match
	// arrives a full reload interval from now.
	ZeroCount()
}
