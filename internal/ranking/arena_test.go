package ranking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArenaMallocAdvancesCursor(t *testing.T) {
	a := NewArena(16)
	b, ok := a.Malloc(8, 1)
	require.True(t, ok)
	require.Len(t, b, 8)
	require.Equal(t, 8, a.Size())

	b2, ok := a.Malloc(8, 1)
	require.True(t, ok)
	require.Len(t, b2, 8)
	require.Equal(t, 16, a.Size())
}

func TestArenaMallocFailsWhenExhausted(t *testing.T) {
	a := NewArena(4)
	_, ok := a.Malloc(8, 1)
	require.False(t, ok)
	require.Equal(t, 0, a.Size())
}

func TestArenaAlignmentInsertsPadding(t *testing.T) {
	a := NewArena(32)
	_, ok := a.Malloc(3, 1)
	require.True(t, ok)
	require.Equal(t, 3, a.Size())

	_, ok = a.Malloc(8, 8)
	require.True(t, ok)
	require.Equal(t, 16, a.Size(), "alignment should pad to the next 8-byte boundary before allocating")
}

func TestArenaRewindResetsCursor(t *testing.T) {
	a := NewArena(16)
	_, _ = a.Malloc(10, 1)
	a.Rewind()
	require.Equal(t, 0, a.Size())
	b, ok := a.Malloc(16, 1)
	require.True(t, ok)
	require.Len(t, b, 16)
}

func TestConcurrentArenaRaceFreeAllocation(t *testing.T) {
	a := NewConcurrentArena(32 * 1024)
	const goroutines = 32
	const perGoroutine = 64
	done := make(chan int, goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			count := 0
			for i := 0; i < perGoroutine; i++ {
				if _, ok := a.Malloc(16, 1); ok {
					count++
				}
			}
			done <- count
		}()
	}
	total := 0
	for g := 0; g < goroutines; g++ {
		total += <-done
	}
	require.Equal(t, goroutines*perGoroutine, total)
	require.Equal(t, goroutines*perGoroutine*16, a.Size())
}
