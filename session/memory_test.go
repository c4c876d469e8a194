package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMemoryOmitsZeroOffset(t *testing.T) {
	s, stub := newTestSession(t)
	ctx, cancel := withTimeout(t)
	defer cancel()

	done := make(chan []MemoryBlock, 1)
	go func() {
		out, err := s.ReadMemory(ctx, "0x1000", 0, 16)
		require.NoError(t, err)
		done <- out
	}()

	tok, cmd := stub.nextCommand()
	assert.Equal(t, "data-read-memory-bytes -- 0x1000 16", cmd)
	stub.reply(tok, `done,memory=[{begin="0x1000",offset="0x0",end="0x1010",contents="00112233"}]`)

	out := <-done
	require.Len(t, out, 1)
	assert.Equal(t, "0x1000", out[0].Begin)
	assert.Equal(t, "00112233", out[0].Contents)
}

func TestReadMemoryAddsOffsetArithmetic(t *testing.T) {
	s, stub := newTestSession(t)
	ctx, cancel := withTimeout(t)
	defer cancel()

	go func() { _, _ = s.ReadMemory(ctx, "0x1000", 8, 16) }()
	tok, cmd := stub.nextCommand()
	assert.Equal(t, "data-read-memory-bytes -- 0x1000+8 16", cmd)
	stub.reply(tok, `done,memory=[]`)
}

func TestWriteMemoryRoundTrips(t *testing.T) {
	s, stub := newTestSession(t)
	ctx, cancel := withTimeout(t)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.WriteMemory(ctx, "0x1000", 0, "ff") }()
	tok, cmd := stub.nextCommand()
	assert.Equal(t, "data-write-memory-bytes -- 0x1000 ff", cmd)
	stub.reply(tok, "done")
	require.NoError(t, <-done)
}
