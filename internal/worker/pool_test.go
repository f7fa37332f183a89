package worker

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_BoundsConcurrency(t *testing.T) {
	p := NewPool(3)

	var running, peak atomic.Int32
	for i := 0; i < 20; i++ {
		p.Go(func() {
			n := running.Add(1)
			for {
				cur := peak.Load()
				if n <= cur || peak.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			running.Add(-1)
		})
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	if peak.Load() > 3 {
		t.Errorf("Expected at most 3 concurrent tasks, saw %d", peak.Load())
	}
	if running.Load() != 0 {
		t.Errorf("Expected every task to finish before Wait returned")
	}
}

func TestPool_WaitJoinsAll(t *testing.T) {
	p := NewPool(2)
	results := make([]int, 50)
	for i := range results {
		p.Go(func() { results[i] = i * 2 })
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	for i, v := range results {
		if v != i*2 {
			t.Fatalf("results[%d] = %d, want %d", i, v, i*2)
		}
	}
}

func TestPool_PanicReported(t *testing.T) {
	p := NewPool(1)
	p.Go(func() { panic("boom") })
	p.Go(func() {})

	if err := p.Wait(); err == nil {
		t.Fatal("Expected panic to be reported")
	}
	if err := p.Wait(); err != nil {
		t.Errorf("Expected panics to be cleared after Wait, got %v", err)
	}
}

func TestNewPool_DefaultSize(t *testing.T) {
	if NewPool(0).Size() < 1 {
		t.Error("Expected default size of at least one")
	}
	if NewPool(4).Size() != 4 {
		t.Error("Expected size 4")
	}
}
