package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler_NilWriter(t *testing.T) {
	handler := NewInterruptHandler(nil, "stopped", "")
	assert.NotNil(t, handler.writer)
	assert.False(t, handler.WasInterrupted())
}

func TestHandleInterrupts(t *testing.T) {
	tests := []struct {
		name     string
		hint     string
		wantHint bool
	}{
		{name: "with hint", hint: "Expenses imported so far are kept.", wantHint: true},
		{name: "without hint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := &syncBuffer{}
			handler := NewInterruptHandler(output, "Import interrupted!", tt.hint)
			ctx := handler.HandleInterrupts(context.Background())
			defer handler.Stop()

			select {
			case <-ctx.Done():
				t.Fatal("context canceled before interrupt")
			default:
			}

			handler.sigChan <- os.Interrupt

			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
				t.Fatal("context not canceled after interrupt")
			}

			assert.True(t, handler.WasInterrupted())
			assert.Contains(t, output.String(), "Import interrupted!")
			if tt.wantHint {
				assert.Contains(t, output.String(), tt.hint)
			}
		})
	}
}

func TestMultipleInterrupts(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output, "Import interrupted!", "")
	_ = handler.HandleInterrupts(context.Background())
	defer handler.Stop()

	handler.interrupt()
	handler.interrupt()

	assert.Equal(t, 1, strings.Count(output.String(), "Import interrupted!"))
}

func TestStop_WithoutInterrupt(t *testing.T) {
	handler := NewInterruptHandler(&syncBuffer{}, "Import interrupted!", "")
	ctx := handler.HandleInterrupts(context.Background())

	handler.Stop()
	handler.Stop()

	require.NoError(t, ctx.Err())
	assert.False(t, handler.WasInterrupted())
}
