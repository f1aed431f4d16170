package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runQueue(t *testing.T, q *Serial) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = q.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestSerialOrdering(t *testing.T) {
	t.Parallel()

	q := NewSerial("test")
	runQueue(t, q)

	var mu sync.Mutex
	var got []int
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)
		require.NoError(t, q.Submit(context.Background(), func() {
			defer wg.Done()
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}
	wg.Wait()

	require.Len(t, got, 50)
	for i, v := range got {
		assert.Equal(t, i, v, "tasks must run in submission order")
	}
}

func TestSerialDo(t *testing.T) {
	t.Parallel()

	q := NewSerial("test")
	runQueue(t, q)

	ran := false
	require.NoError(t, q.Do(context.Background(), func() { ran = true }))
	assert.True(t, ran, "Do must not return before the task has run")
}

func TestSerialStop(t *testing.T) {
	t.Parallel()

	t.Run("stop before run", func(t *testing.T) {
		q := NewSerial("test")
		q.Stop()
		err := q.Submit(context.Background(), func() {})
		assert.ErrorIs(t, err, ErrQueueStopped)
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		q := NewSerial("test")
		runQueue(t, q)
		q.Stop()
		q.Stop()
	})

	t.Run("submit after stop fails", func(t *testing.T) {
		q := NewSerial("test")
		runQueue(t, q)
		q.Stop()
		assert.Eventually(t, func() bool {
			return q.Submit(context.Background(), func() {}) != nil
		}, time.Second, 5*time.Millisecond)
	})
}

func TestSerialDoubleRun(t *testing.T) {
	t.Parallel()

	q := NewSerial("test")
	runQueue(t, q)

	// Give the first Run a moment to claim the queue.
	require.NoError(t, q.Do(context.Background(), func() {}))
	assert.Error(t, q.Run(context.Background()))
}

func TestSerialNilTask(t *testing.T) {
	t.Parallel()

	q := NewSerial("test")
	assert.NoError(t, q.Submit(context.Background(), nil))
	assert.Equal(t, 0, q.Len())
}
