package finalize

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	t.Parallel()

	k := newKeyedMutex()

	var (
		wg      sync.WaitGroup
		inside  atomic.Int32
		overlap atomic.Bool
	)

	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			unlock := k.Lock("/out/A.app")
			defer unlock()

			if inside.Add(1) > 1 {
				overlap.Store(true)
			}

			inside.Add(-1)
		}()
	}

	wg.Wait()

	require.False(t, overlap.Load())
	require.Zero(t, k.size())
}

func TestKeyedMutex_DifferentKeysDoNotBlock(t *testing.T) {
	t.Parallel()

	k := newKeyedMutex()

	unlockA := k.Lock("/out/A.app")
	unlockB := k.Lock("/out/B.app")

	require.Equal(t, 2, k.size())

	unlockA()
	unlockB()

	require.Zero(t, k.size())
}
