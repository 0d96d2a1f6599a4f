package infrastructure

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationGuard_SecondTurnRejected(t *testing.T) {
	g := NewConversationGuard()

	require.True(t, g.TryAcquire("c1"))
	assert.False(t, g.TryAcquire("c1"))
	assert.True(t, g.TryAcquire("c2"), "other conversations are independent")
	assert.Equal(t, 2, g.InFlight())

	g.Release("c1")
	assert.True(t, g.TryAcquire("c1"))
}

func TestConversationGuard_ReleaseUnknownIsNoop(t *testing.T) {
	g := NewConversationGuard()
	g.Release("missing")
	assert.Zero(t, g.InFlight())
}

func TestConversationGuard_ConcurrentAcquire(t *testing.T) {
	g := NewConversationGuard()

	var (
		wg       sync.WaitGroup
		acquired atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire("same") {
				acquired.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), acquired.Load())
}
