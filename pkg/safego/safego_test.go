package safego

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hatcher/todoai/pkg/logs"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestGoRecoversPanic(t *testing.T) {
	var out syncBuffer
	logs.SetOutput(&out)
	t.Cleanup(func() { logs.SetOutput(os.Stderr) })

	done := make(chan struct{})
	Go(context.Background(), func() {
		defer close(done)
		panic("boom")
	})
	<-done
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "panic = boom")
	}, time.Second, 10*time.Millisecond)
}
