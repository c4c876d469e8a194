package session

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// stubDebugger is the test double for the far end of a Session's
// stream: it reads one MI command line at a time and lets the test
// script a reply, mirroring how correlator_test.go drives
// miproto.Correlator directly but one layer up, through the full
// Session read loop.
type stubDebugger struct {
	t    *testing.T
	conn net.Conn
	in   *bufio.Scanner
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *stubDebugger) {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	t.Cleanup(func() {
		clientConn.Close()
		serverConn.Close()
	})
	s := NewSession(context.Background(), clientConn, opts...)
	stub := &stubDebugger{t: t, conn: serverConn, in: bufio.NewScanner(serverConn)}
	return s, stub
}

// nextCommand blocks until the session writes one command line and
// returns its token and name, e.g. "1-break-insert ..." -> (1,
// "break-insert ...").
func (d *stubDebugger) nextCommand() (uint64, string) {
	d.t.Helper()
	if !d.in.Scan() {
		d.t.Fatalf("stubDebugger: no command received: %v", d.in.Err())
	}
	line := d.in.Text()
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	tok, err := strconv.ParseUint(line[:i], 10, 64)
	require.NoError(d.t, err)
	return tok, line[i+1:]
}

// reply writes one "token^class,..." result line followed by the
// batch-terminating prompt, matching real MI output framing.
func (d *stubDebugger) reply(token uint64, classAndData string) {
	d.t.Helper()
	line := strconv.FormatUint(token, 10) + "^" + classAndData + "\n(gdb)\n"
	_, err := d.conn.Write([]byte(line))
	require.NoError(d.t, err)
}

// emit writes a raw, unframed record line (an async/stream record not
// correlated to any token).
func (d *stubDebugger) emit(line string) {
	d.t.Helper()
	_, err := d.conn.Write([]byte(line + "\n"))
	require.NoError(d.t, err)
}

func withTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), 2*time.Second)
}

