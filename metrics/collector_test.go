package metrics

import (
	"sync"
	"testing"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("inv-1", "/opt/proguard/lib/proguard.jar")

	c.IncRunStarted()
	c.IncLaunchSuccess()
	c.IncStdoutLines(3)
	c.IncStderrLines(1)
	c.AddBytesRead(128)
	c.SetArgsEmitted(7)
	c.IncPublishSuccess()
	c.IncPublishFailure()
	c.IncRunCompleted()

	s := c.Snapshot()
	if s.RunsStarted != 1 || s.RunsCompleted != 1 || s.RunsFailed != 0 {
		t.Errorf("run counters = %d/%d/%d", s.RunsStarted, s.RunsCompleted, s.RunsFailed)
	}
	if s.StdoutLines != 3 || s.StderrLines != 1 {
		t.Errorf("line counters = %d/%d, want 3/1", s.StdoutLines, s.StderrLines)
	}
	if s.BytesRead != 128 {
		t.Errorf("BytesRead = %d, want 128", s.BytesRead)
	}
	if s.ArgsEmitted != 7 {
		t.Errorf("ArgsEmitted = %d, want 7", s.ArgsEmitted)
	}
	if s.PublishSuccess != 1 || s.PublishFailure != 1 {
		t.Errorf("publish counters = %d/%d, want 1/1", s.PublishSuccess, s.PublishFailure)
	}
	if s.InvocationID != "inv-1" {
		t.Errorf("InvocationID = %q", s.InvocationID)
	}
}

func TestCollector_NilReceiverSafe(t *testing.T) {
	var c *Collector

	// None of these may panic.
	c.IncRunStarted()
	c.IncRunCompleted()
	c.IncRunFailed()
	c.IncLaunchSuccess()
	c.IncLaunchFailure()
	c.IncStdoutLines(1)
	c.IncStderrLines(1)
	c.AddBytesRead(1)
	c.SetArgsEmitted(1)
	c.IncPublishSuccess()
	c.IncPublishFailure()

	if s := c.Snapshot(); s.RunsStarted != 0 {
		t.Errorf("nil collector snapshot = %+v", s)
	}
}

func TestCollector_ConcurrentIncrements(t *testing.T) {
	c := NewCollector("inv-1", "proguard.jar")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncStdoutLines(1)
				c.AddBytesRead(10)
			}
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	if s.StdoutLines != 800 {
		t.Errorf("StdoutLines = %d, want 800", s.StdoutLines)
	}
	if s.BytesRead != 8000 {
		t.Errorf("BytesRead = %d, want 8000", s.BytesRead)
	}
}
