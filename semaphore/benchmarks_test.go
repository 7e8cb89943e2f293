package semaphore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	xsemaphore "golang.org/x/sync/semaphore"
)

func benchmarkAtomic(b *testing.B) {
	var value int32

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			atomic.AddInt32(&value, 1)
		}
	})
}

func benchmarkSyncMutex(b *testing.B) {
	var (
		value int
		lock  sync.Mutex
	)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			lock.Lock()
			value++
			lock.Unlock()
		}
	})
}

// benchmarkXSyncWeighted is the baseline: a mutex built on golang.org/x/sync/semaphore.
func benchmarkXSyncWeighted(b *testing.B) {
	var (
		value int
		s     = xsemaphore.NewWeighted(1)
		ctx   = context.Background()
	)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = s.Acquire(ctx, 1)
			value++
			s.Release(1)
		}
	})
}

func benchmarkMutex(b *testing.B) {
	var (
		value int
		m     = NewMutex()
	)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Lock()
			value++
			m.Unlock()
		}
	})
}

func benchmarkWeighted(b *testing.B) {
	var (
		value int
		s     = NewWeighted(1)
	)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			g, _ := s.Acquire(1)
			value++
			g.Release()
		}
	})
}

func BenchmarkSingleResource(b *testing.B) {
	b.Run("atomic", benchmarkAtomic)
	b.Run("sync.Mutex", benchmarkSyncMutex)
	b.Run("x/sync", benchmarkXSyncWeighted)
	b.Run("semaphore", func(b *testing.B) {
		b.Run("mutex", benchmarkMutex)
		b.Run("weighted", benchmarkWeighted)
	})
}

func BenchmarkMixedWeights(b *testing.B) {
	s := NewWeighted(8)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		weight := 1
		for pb.Next() {
			g, _ := s.Acquire(weight)
			g.Release()
			weight = weight%4 + 1
		}
	})
}
