package web2pdf

import (
	"runtime"
	"sync"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire() *Renderer
	Release(*Renderer)
	Size() int
	Close() error
} = (*RendererPool)(nil)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit=1 for sequential",
			workers: 1,
			want:    1,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolvePoolSize(tt.workers)
			if got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestRendererPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(2)
	defer pool.Close()

	r1 := pool.Acquire()
	if r1 == nil {
		t.Fatal("Acquire() returned nil")
	}

	r2 := pool.Acquire()
	if r2 == nil {
		t.Fatal("Acquire() returned nil")
	}

	// Renderers should be different instances
	if r1 == r2 {
		t.Error("expected different renderer instances")
	}

	// Release and re-acquire
	pool.Release(r1)
	r3 := pool.Acquire()

	if r3 != r1 {
		t.Error("expected to get back released renderer")
	}

	pool.Release(r2)
	pool.Release(r3)
}

func TestRendererPool_OptionsReachRenderers(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(1, WithTimeout(time.Minute), WithStrategy(StrategySignal))
	defer pool.Close()

	r := pool.Acquire()
	defer pool.Release(r)

	if r.cfg.timeout != time.Minute {
		t.Errorf("timeout = %v, want 1m", r.cfg.timeout)
	}
	if r.cfg.strategy != StrategySignal {
		t.Errorf("strategy = %v, want signal", r.cfg.strategy)
	}
}

func TestRendererPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"size 1", 1, 1},
		{"size 4", 4, 4},
		{"size 0 becomes 1", 0, 1},
		{"negative becomes 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := NewRendererPool(tt.size)
			defer pool.Close()

			if got := pool.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRendererPool_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(4)
	defer pool.Close()

	var wg sync.WaitGroup
	iterations := 20

	for i := 0; i < iterations; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := pool.Acquire()
			time.Sleep(5 * time.Millisecond) // Simulate work
			pool.Release(r)
		}()
	}

	// Should complete without deadlock
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(5 * time.Second)
	defer timer.Stop()

	select {
	case <-done:
		// Success
	case <-timer.C:
		t.Fatal("concurrent access test timed out - possible deadlock")
	}
}

func TestRendererPool_ClosePreventsFurtherRelease(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(2)

	r := pool.Acquire()
	pool.Close()

	// Release after close should not panic
	pool.Release(r) // Should be safe (no-op)
}

func TestRendererPool_DoubleClose(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(1)

	if err := pool.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}

	// Second close should not panic
	pool.Close()
}
