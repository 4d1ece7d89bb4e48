package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIPLimiter(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiter(3, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		require.True(t, l.allow("10.0.0.1"))
	}
	require.False(t, l.allow("10.0.0.1"))
	require.True(t, l.allow("10.0.0.2"), "limits are per client")

	now = now.Add(25 * time.Second)
	require.True(t, l.allow("10.0.0.1"), "one token refills every 20s")
	require.False(t, l.allow("10.0.0.1"))

	now = now.Add(10 * time.Minute)
	require.True(t, l.allow("10.0.0.3"))
	require.Len(t, l.visitors, 1, "idle clients are swept")
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	long := make([]byte, maxPrintLen+10)
	require.Len(t, truncate(string(long)), maxPrintLen)
	require.Equal(t, "short", truncate("short"))
}
