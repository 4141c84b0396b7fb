package errors

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracer_CodeAndMessage(t *testing.T) {
	err := NewTracer(OrderLogCorruptError).WithMessagef("truncated record at offset %d", 128)

	assert.Equal(t, "order_log_corrupt: truncated record at offset 128", err.Error())
	assert.Equal(t, OrderLogCorruptError, CodeOf(err))
	assert.True(t, IsCorrupt(err))
	assert.False(t, IsNotFound(err))
}

func TestTracer_WrapPreservesChain(t *testing.T) {
	err := NewTracer(ArchiveIOError).Wrap(io.ErrUnexpectedEOF)

	require.NotNil(t, err.Unwrap())
	assert.True(t, HasCode(err, ArchiveIOError))
	assert.NotNil(t, err.StackTrace())
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(io.EOF))
	assert.False(t, IsDecompression(io.EOF))
}
