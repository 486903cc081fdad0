package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := context.Background()

	const numGoroutines = 50
	done := make(chan bool, numGoroutines)

	ctx = WithSuppressHeader(ctx)
	ctx = withRunID(ctx, "run-1")

	for i := range numGoroutines {
		go func(id int) {
			defer func() { done <- true }()

			suppress := shouldSuppressHeader(ctx)
			runID, ok := getRunID(ctx)

			assert.True(t, suppress, "Goroutine %d: shouldSuppressHeader should be true", id)
			assert.True(t, ok, "Goroutine %d: getRunID should return true", id)
			assert.Equal(t, "run-1", runID, "Goroutine %d: runID should be run-1", id)
		}(i)
	}

	for range numGoroutines {
		<-done
	}
}

// TestContextIsolation tests that different contexts maintain isolation.
func TestContextIsolation(t *testing.T) {
	baseCtx := context.Background()

	ctx1 := withRunID(baseCtx, "a")
	ctx2 := withRunID(baseCtx, "")
	ctx3 := WithSuppressHeader(baseCtx)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		id1, ok1 := getRunID(ctx1)
		assert.True(t, ok1)
		assert.Equal(t, "a", id1)
		assert.False(t, shouldSuppressHeader(ctx1))
	}()

	go func() {
		defer wg.Done()
		_, ok2 := getRunID(ctx2)
		assert.False(t, ok2, "empty run IDs are treated as absent")
	}()

	go func() {
		defer wg.Done()
		id3, ok3 := getRunID(ctx3)
		assert.False(t, ok3)
		assert.Empty(t, id3)
		assert.True(t, shouldSuppressHeader(ctx3))
	}()

	wg.Wait()
}
