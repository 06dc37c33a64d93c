package async_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novakinetix/mailkit/pkg/async"
)

func TestAsync_Await(t *testing.T) {
	t.Parallel()

	f := async.Async(context.Background(), 21, func(_ context.Context, n int) (int, error) {
		time.Sleep(10 * time.Millisecond)
		return n * 2, nil
	})

	got, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.True(t, f.IsComplete())
}

func TestAsync_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	f := async.Async(context.Background(), "x", func(context.Context, string) (string, error) {
		return "", boom
	})

	_, err := f.Await()
	assert.ErrorIs(t, err, boom)
}

func TestAsync_RecoversPanic(t *testing.T) {
	t.Parallel()

	f := async.Async(context.Background(), struct{}{}, func(context.Context, struct{}) (int, error) {
		panic("nil map write")
	})

	got, err := f.Await()
	assert.Zero(t, got)
	assert.ErrorIs(t, err, async.ErrPanic)
	assert.Equal(t, "panic: nil map write", err.Error())
}

func TestAsync_PreCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	f := async.Async(ctx, 1, func(context.Context, int) (int, error) {
		called = true
		return 1, nil
	})

	_, err := f.Await()
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestFuture_AwaitContext(t *testing.T) {
	t.Parallel()

	t.Run("completes first", func(t *testing.T) {
		t.Parallel()

		f := async.Async(context.Background(), "ok", func(_ context.Context, s string) (string, error) {
			return s, nil
		})
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		got, err := f.AwaitContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
	})

	t.Run("deadline first", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		defer close(release)

		f := async.Async(context.Background(), 0, func(context.Context, int) (int, error) {
			<-release
			return 1, nil
		})
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := f.AwaitContext(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
		assert.False(t, f.IsComplete())
	})
}

func TestAsync_Concurrent(t *testing.T) {
	t.Parallel()

	const n = 100
	futures := make([]*async.Future[int], n)
	for i := range n {
		futures[i] = async.Async(context.Background(), i, func(_ context.Context, v int) (int, error) {
			return v, nil
		})
	}

	var wg sync.WaitGroup
	for i, f := range futures {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := f.Await()
			assert.NoError(t, err)
			assert.Equal(t, i, got)
		}()
	}
	wg.Wait()
}
