package core

import "testing"

func TestEventRingSnapshotPartial(t *testing.T) {
	var r EventRing
	for i := 0; i < 5; i++ {
		r.record(EvtMotorStart, RA, uint32(i))
	}
	got := r.Snapshot()
	if len(got) != 5 {
		t.Fatalf("snapshot length = %d, want 5", len(got))
	}
	for i, e := range got {
		if e.Value != uint32(i) {
			t.Errorf("event %d value = %d, want %d", i, e.Value, i)
		}
	}
}

func TestEventRingSnapshotAfterLongRun(t *testing.T) {
	var r EventRing
	const total = 257
	for i := 0; i < total; i++ {
		r.record(EvtStopped, Dec, uint32(i))
	}
	got := r.Snapshot()
	if len(got) != eventRingSize {
		t.Fatalf("snapshot length = %d, want full ring %d", len(got), eventRingSize)
	}
	// Oldest first, ending with the most recent record.
	if first := got[0].Value; first != total-eventRingSize {
		t.Errorf("oldest value = %d, want %d", first, total-eventRingSize)
	}
	if last := got[len(got)-1].Value; last != total-1 {
		t.Errorf("newest value = %d, want %d", last, total-1)
	}
}
