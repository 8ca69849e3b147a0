package session

import (
	"testing"
	"time"
)

func TestReaper_SweepExpiresIdleOnly(t *testing.T) {
	st := NewStore()
	base := time.Now()
	timeout := 30 * time.Second

	st.CreateOrReset("idle", "whatsapp", "c1", "A", base)
	st.CreateOrReset("active", "whatsapp", "c2", "B", base)
	st.Touch("active", base.Add(50*time.Second))

	r := NewReaper(st, timeout, time.Minute)
	removed := r.Sweep(base.Add(60 * time.Second))

	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, ok := st.Get("idle"); ok {
		t.Error("idle session should have been reaped")
	}
	if _, ok := st.Get("active"); !ok {
		t.Error("active session should survive the sweep")
	}
}

func TestReaper_SweepAtExactTimeoutKeeps(t *testing.T) {
	st := NewStore()
	base := time.Now()

	st.CreateOrReset("u1", "whatsapp", "c1", "A", base)

	r := NewReaper(st, 30*time.Second, time.Minute)
	if removed := r.Sweep(base.Add(30 * time.Second)); removed != 0 {
		t.Errorf("removed = %d at exact timeout, want 0", removed)
	}
	if removed := r.Sweep(base.Add(30*time.Second + time.Millisecond)); removed != 1 {
		t.Errorf("removed = %d past timeout, want 1", removed)
	}
}

func TestReaper_StartStop(t *testing.T) {
	st := NewStore()
	r := NewReaper(st, 30*time.Second, time.Minute)

	if err := r.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := r.Start(); err == nil {
		t.Error("second Start should fail")
	}
	r.Stop()

	// Stop when already stopped is harmless
	r.Stop()

	if err := r.Start(); err != nil {
		t.Fatalf("restart error: %v", err)
	}
	r.Stop()
}
