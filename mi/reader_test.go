package mi

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineReaderSplitsMultipleRecordsInOneChunk(t *testing.T) {
	lr := NewLineReader(strings.NewReader("~\"a\"\n*stopped,reason=\"x\"\n(gdb)\n"))

	l1, err := lr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, `~"a"`, l1)

	l2, err := lr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, `*stopped,reason="x"`, l2)

	l3, err := lr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "(gdb)", l3)

	_, err = lr.ReadLine()
	require.ErrorIs(t, err, io.EOF)
}

func TestLineReaderHoldsPartialRecordUntilComplete(t *testing.T) {
	pr, pw := io.Pipe()
	lr := NewLineReader(pr)

	done := make(chan struct{})
	var got string
	var gotErr error
	go func() {
		got, gotErr = lr.ReadLine()
		close(done)
	}()

	_, _ = pw.Write([]byte("~\"partial"))
	select {
	case <-done:
		t.Fatal("ReadLine returned before the line was terminated")
	default:
	}
	_, _ = pw.Write([]byte(" line\"\n"))
	<-done
	require.NoError(t, gotErr)
	require.Equal(t, `~"partial line"`, got)
	pw.Close()
}

func TestLineReaderSurfacesUnterminatedFinalFragment(t *testing.T) {
	lr := NewLineReader(strings.NewReader("~\"no newline at all\""))
	line, err := lr.ReadLine()
	require.ErrorIs(t, err, ErrUnterminatedLine)
	require.Equal(t, `~"no newline at all"`, line)
}

func TestLineReaderHandlesCRLF(t *testing.T) {
	lr := NewLineReader(strings.NewReader("(gdb)\r\n"))
	line, err := lr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "(gdb)", line)
}
