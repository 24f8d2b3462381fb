package timeutil

import (
	"testing"
	"time"
)

func TestRealClock(t *testing.T) {
	var c Clock = RealClock{}

	start := c.Now()
	if c.Since(start) < 0 {
		t.Error("Since returned a negative duration")
	}

	ticker := c.NewTicker(time.Millisecond)
	defer ticker.Stop()
	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		t.Fatal("real ticker did not fire")
	}
}

func TestMockClock_Advance(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMockClock(base)

	c.Advance(5 * time.Second)
	if got := c.Since(base); got != 5*time.Second {
		t.Errorf("Since = %v, want 5s", got)
	}
}

func TestMockTicker_FiresOnInterval(t *testing.T) {
	c := NewMockClock(time.Unix(0, 0))
	ticker := c.NewTicker(16 * time.Millisecond)

	c.Advance(10 * time.Millisecond)
	select {
	case <-ticker.C():
		t.Fatal("ticker fired before its interval")
	default:
	}

	c.Advance(6 * time.Millisecond)
	select {
	case <-ticker.C():
	default:
		t.Fatal("ticker did not fire at its interval")
	}
}

func TestMockTicker_DropsWhenFull(t *testing.T) {
	c := NewMockClock(time.Unix(0, 0))
	ticker := c.NewTicker(time.Millisecond)

	c.Advance(time.Millisecond)
	c.Advance(time.Millisecond)
	c.Advance(time.Millisecond)

	<-ticker.C()
	select {
	case <-ticker.C():
		t.Fatal("expected buffered ticks beyond one to be dropped")
	default:
	}
}

func TestMockTicker_Stop(t *testing.T) {
	c := NewMockClock(time.Unix(0, 0))
	ticker := c.NewTicker(time.Millisecond)
	ticker.Stop()

	c.Advance(time.Second)
	select {
	case <-ticker.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestMockTimer_StopAndReset(t *testing.T) {
	c := NewMockClock(time.Unix(0, 0))
	timer := c.NewTimer(100 * time.Millisecond)

	if !timer.Stop() {
		t.Error("Stop on an active timer should report true")
	}
	c.Advance(time.Second)
	select {
	case <-timer.C():
		t.Fatal("stopped timer fired")
	default:
	}

	timer.Reset(50 * time.Millisecond)
	c.Advance(49 * time.Millisecond)
	select {
	case <-timer.C():
		t.Fatal("timer fired before reset deadline")
	default:
	}
	c.Advance(time.Millisecond)
	select {
	case <-timer.C():
	default:
		t.Fatal("timer did not fire at reset deadline")
	}
}
