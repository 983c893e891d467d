package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	r := NewReader(strings.NewReader("  user@example.com  \nsecond\n"))

	line, err := r.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", line)

	line, err = r.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", line)
}

func TestReadLineCancelled(t *testing.T) {
	// A pipe-like reader that never produces input.
	r := NewReader(blockingReader{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

type blockingReader struct{}

func (blockingReader) Read(_ []byte) (int, error) {
	select {}
}
