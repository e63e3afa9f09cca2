package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionalMutexDisabled(t *testing.T) {
	var m OptionalMutex
	// Without UseMutex, repeated locking must not deadlock
	m.Lock()
	m.Lock()
	m.Unlock()
	m.Unlock()
}

func TestOptionalMutexEnabled(t *testing.T) {
	m := OptionalMutex{UseMutex: true}

	var wg sync.WaitGroup
	var count int
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Lock()
				count++
				m.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1600, count)
}
