package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newNop() *zap.Logger { l, _ := zap.NewDevelopment(); return l }

func TestAddTicker_Fires(t *testing.T) {
	s := New(newNop(), time.UTC)
	defer s.Stop()

	var count int32
	s.AddTicker("tick", 20*time.Millisecond, func() {
		atomic.AddInt32(&count, 1)
	})

	time.Sleep(120 * time.Millisecond)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&count), int32(3))
	assert.Equal(t, []string{"tick"}, s.ListTickers())
}

func TestAddDelay_Debounces(t *testing.T) {
	s := New(newNop(), time.UTC)
	defer s.Stop()

	var count int32
	for i := 0; i < 5; i++ {
		s.AddDelay("save", 40*time.Millisecond, func() { atomic.AddInt32(&count, 1) })
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, s.Pending("save"))

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&count))
	assert.False(t, s.Pending("save"))
}

func TestAddDelayMax_FiresUnderSteadyReadds(t *testing.T) {
	s := New(newNop(), time.UTC)
	defer s.Stop()

	var count int32
	for i := 0; i < 10; i++ {
		s.AddDelayMax("save", 100*time.Millisecond, 250*time.Millisecond, func() { atomic.AddInt32(&count, 1) })
		time.Sleep(60 * time.Millisecond)
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&count), int32(1), "max wait must cut through the debounce")
}

func TestAddDelay_ReplacesCancelsOld(t *testing.T) {
	s := New(newNop(), time.UTC)
	defer s.Stop()

	var count int32
	s.AddDelay("d", 500*time.Millisecond, func() { atomic.AddInt32(&count, 1) })
	s.AddDelay("d", 30*time.Millisecond, func() { atomic.AddInt32(&count, 10) })
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(10), atomic.LoadInt32(&count))
}

func TestFlush_RunsPendingNow(t *testing.T) {
	s := New(newNop(), time.UTC)
	defer s.Stop()

	var count int32
	s.AddDelay("save", time.Hour, func() { atomic.AddInt32(&count, 1) })

	require.True(t, s.Flush("save"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&count))
	assert.False(t, s.Flush("save"), "nothing left to flush")
}

func TestPanicIsRecovered(t *testing.T) {
	s := New(newNop(), time.UTC)
	defer s.Stop()

	s.AddDelay("boom", time.Hour, func() { panic("boom") })
	assert.NotPanics(t, func() { s.Flush("boom") })
}

func TestRemove(t *testing.T) {
	s := New(newNop(), time.UTC)
	defer s.Stop()

	var count int32
	s.AddTicker("task", 20*time.Millisecond, func() { atomic.AddInt32(&count, 1) })
	s.AddDelay("task", 30*time.Millisecond, func() { atomic.AddInt32(&count, 100) })
	time.Sleep(10 * time.Millisecond)
	s.Remove("task")
	snap := atomic.LoadInt32(&count)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, snap, atomic.LoadInt32(&count))
	assert.Empty(t, s.ListTickers())
}

func TestAddCron(t *testing.T) {
	s := New(newNop(), time.UTC)
	defer s.Stop()

	assert.Error(t, s.AddCron("bad", "not a spec", func() {}))

	require.NoError(t, s.AddCron("rollover", "0 0 * * *", func() {}))
	next, ok := s.NextRun("rollover")
	require.True(t, ok)
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now()))

	s.Remove("rollover")
	_, ok = s.NextRun("rollover")
	assert.False(t, ok)
}

func TestStopIsIdempotent(t *testing.T) {
	s := New(newNop(), time.UTC)
	var count int32
	s.AddDelay("late", 20*time.Millisecond, func() { atomic.AddInt32(&count, 1) })

	s.Stop()
	s.Stop()
	s.AddDelay("after", time.Millisecond, func() { atomic.AddInt32(&count, 1) })

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&count))
}
