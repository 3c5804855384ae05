package lifecycle

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyedMutex(t *testing.T) {
	t.Parallel()

	k := newKeyedMutex()
	counters := map[string]int{"a": 0, "b": 0}
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		for _, key := range []string{"a", "b"} {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				unlock := k.Lock(key)
				defer unlock()
				counters[key]++
			}(key)
		}
	}
	wg.Wait()

	unlockA := k.Lock("a")
	require.Equal(t, 100, counters["a"])
	require.Equal(t, 100, counters["b"])
	require.Equal(t, 1, k.size())
	unlockA()
	require.Equal(t, 0, k.size())
}
