package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBackoffDoublesToCap(t *testing.T) {
	bo := newBackoff(500*time.Millisecond, 30*time.Second)

	want := []time.Duration{
		500 * time.Millisecond,
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for i, expected := range want {
		require.Equal(t, expected, bo.NextBackOff(), "step %d", i)
	}
}

func TestBackoffResetsToFloor(t *testing.T) {
	bo := newBackoff(500*time.Millisecond, 30*time.Second)
	for i := 0; i < 5; i++ {
		bo.NextBackOff()
	}
	bo.Reset()
	require.Equal(t, 500*time.Millisecond, bo.NextBackOff())
}
