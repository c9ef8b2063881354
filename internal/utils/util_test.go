package utils

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebounce_CoalescesCalls(t *testing.T) {
	var d Debouncer
	var calls atomic.Int32
	done := make(chan struct{}, 4)

	for i := 0; i < 5; i++ {
		d.Debounce(20*time.Millisecond, func() {
			calls.Add(1)
			done <- struct{}{}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebounce_Stop(t *testing.T) {
	var d Debouncer
	var calls atomic.Int32

	assert.False(t, d.Stop())
	d.Debounce(time.Hour, func() { calls.Add(1) })
	assert.True(t, d.Stop())
	assert.False(t, d.Stop())
	assert.Zero(t, calls.Load())
}

func TestDebounce_FiredTimerDoesNotClearNewerCall(t *testing.T) {
	var d Debouncer
	var stale atomic.Int32

	// Hold the lock so the first timer fires and waits for it, then
	// schedule a newer call the way Debounce does before releasing it.
	d.Debounce(time.Millisecond, func() { stale.Add(1) })
	d.mutex.Lock()
	time.Sleep(30 * time.Millisecond)
	d.timer.Stop()
	d.timer = time.AfterFunc(time.Hour, func() {})
	d.mutex.Unlock()

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, stale.Load())
	assert.True(t, d.Stop())
}
