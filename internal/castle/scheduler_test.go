package castle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodicTaskAccumulates(t *testing.T) {
	n := 0
	task := NewPeriodicTask("physics", 50*time.Millisecond, 8, func() { n++ })

	assert.Equal(t, 0, task.Advance(16*time.Millisecond))
	assert.Equal(t, 0, task.Advance(16*time.Millisecond))
	assert.Equal(t, 0, task.Advance(16*time.Millisecond))
	assert.Equal(t, 1, task.Advance(16*time.Millisecond)) // 64ms
	assert.Equal(t, 2, task.Advance(100*time.Millisecond))
	assert.Equal(t, 3, n)
	assert.Equal(t, uint64(3), task.Runs())
	assert.Equal(t, "physics", task.Name())
}

func TestPeriodicTaskCatchUpCap(t *testing.T) {
	n := 0
	task := NewPeriodicTask("physics", 50*time.Millisecond, 8, func() { n++ })

	assert.Equal(t, 8, task.Advance(2*time.Second))
	assert.Equal(t, uint64(32), task.Dropped())
	// The backlog is gone; the next short frame runs nothing.
	assert.Equal(t, 0, task.Advance(10*time.Millisecond))
}

func TestPeriodicTaskEveryAdvance(t *testing.T) {
	n := 0
	task := NewPeriodicTask("frame", 0, 1, func() { n++ })
	task.Advance(0)
	task.Advance(time.Hour)
	task.Step()
	assert.Equal(t, 3, n)

	task.Stop()
	assert.True(t, task.Stopped())
	assert.Equal(t, 0, task.Advance(time.Second))
	task.Step()
	assert.Equal(t, 3, n)
}
