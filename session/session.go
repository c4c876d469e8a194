// Package session is the façade (spec §4.7): one method per MI
// operation, binding the encoder, correlator, and event dispatcher in
// package miproto to the domain types a debugger front end actually
// wants (Breakpoint, StackFrame, Watch, ...).
package session

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dbgmi/gomi/internal/logging"
	"github.com/dbgmi/gomi/mi"
	"github.com/dbgmi/gomi/miproto"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// State is the session-level lifecycle (spec §4.7).
type State int

const (
	StateFresh State = iota
	StateAttached
	StateRunning
	StateStopped
	StateExited
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateAttached:
		return "attached"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateExited:
		return "exited"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Session owns a duplex byte stream, the token correlator, and the
// event dispatcher (spec §3 Session). It does not own the debugger
// process; NewSession is handed an already-connected stream.
type Session struct {
	rw io.ReadWriter

	correlator *miproto.Correlator
	dispatcher *miproto.Dispatcher
	log        zerolog.Logger

	writeMu sync.Mutex

	mu    sync.Mutex
	state State

	ctx    context.Context
	cancel context.CancelFunc
	eg     *errgroup.Group
}

// Option configures a Session at construction time. Grounded on
// schmitthub-clawker/internal/docker.ClientOption — a small functional
// options surface over a constructor, not a configuration-file loader
// (spec §1 keeps configuration loading out of the core's scope).
type Option func(*Session)

// WithLogger overrides the session's zerolog.Logger. The default is
// internal/logging.Default().
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// NewSession wraps rw (an already-connected duplex stream to a GDB or
// LLDB-MI subprocess) and starts its read loop under ctx. Cancelling
// ctx, or calling End, stops the session.
func NewSession(ctx context.Context, rw io.ReadWriter, opts ...Option) *Session {
	cctx, cancel := context.WithCancel(ctx)
	eg, gctx := errgroup.WithContext(cctx)

	s := &Session{
		rw:     rw,
		log:    logging.Default(),
		state:  StateFresh,
		ctx:    gctx,
		cancel: cancel,
		eg:     eg,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.correlator = miproto.NewCorrelator(s.log)
	s.dispatcher = miproto.NewDispatcher(s.log)

	eg.Go(func() error {
		return s.readLoop(gctx)
	})

	return s
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Subscribe registers fn for events named name (spec §4.5, §6). It
// may be called concurrently with the read loop.
func (s *Session) Subscribe(name miproto.EventName, fn miproto.Subscriber) miproto.SubscriptionID {
	return s.dispatcher.Subscribe(name, fn)
}

// Unsubscribe removes a previously registered subscriber.
func (s *Session) Unsubscribe(id miproto.SubscriptionID) {
	s.dispatcher.Unsubscribe(id)
}

// End terminates the session locally: it cancels the read loop,
// rejects every pending command with SessionClosed, and clears every
// subscriber (spec §4.4 on_disconnect, §8 "no leak" property). No
// command other than End is accepted once the session is Exited or
// Ended (spec §4.7).
func (s *Session) End() error {
	s.mu.Lock()
	alreadyEnded := s.state == StateEnded || s.state == StateExited
	s.state = StateEnded
	s.mu.Unlock()

	s.cancel()
	err := s.eg.Wait()
	s.correlator.DisconnectAll()
	s.dispatcher.Clear()
	if alreadyEnded {
		return nil
	}
	return err
}

// Wait blocks until the read loop exits (transport EOF/error, or
// End/context cancellation) and returns its terminal error, if any.
func (s *Session) Wait() error {
	return s.eg.Wait()
}

func (s *Session) readLoop(ctx context.Context) error {
	lr := mi.NewLineReader(s.rw)
	for {
		if ctx.Err() != nil {
			s.correlator.DisconnectAll()
			return ctx.Err()
		}
		line, err := lr.ReadLine()
		if err != nil && line == "" {
			s.handleTransportClose(err)
			if err == io.EOF {
				return nil
			}
			return &miproto.TransportError{Err: err}
		}
		s.processLine(line)
		if err != nil {
			// ErrUnterminatedLine: the fragment above was still
			// processed (best effort), then the stream is done.
			s.handleTransportClose(err)
			return nil
		}
	}
}

func (s *Session) handleTransportClose(err error) {
	s.mu.Lock()
	if s.state != StateEnded {
		s.state = StateEnded
	}
	s.mu.Unlock()
	s.correlator.DisconnectAll()
	s.dispatcher.Clear()
	if err != nil && err != io.EOF {
		s.log.Warn().Err(err).Msg("mi transport closed")
	}
}

func (s *Session) processLine(line string) {
	rec, err := mi.ParseRecord(line)
	if err != nil {
		s.log.Warn().Str("line", line).Err(err).Msg("mi: could not parse record")
		return
	}

	switch r := rec.(type) {
	case mi.PromptRecord:
		// Batch boundary only; no buffered state to flush since
		// stream events are dispatched as they arrive (spec §5: batch
		// grouping is a reader-level detail, not a semantic guarantee).
	case *mi.ResultRecord:
		// Mark the session Exited before ^exit wakes the pending
		// callers, so a caller resolved with SessionEnded already
		// observes StateExited.
		if r.Class == mi.ResultExit {
			s.setState(StateExited)
		}
		s.correlator.Resolve(r)
	case *mi.AsyncExecRecord:
		s.trackStateFromExecAsync(r.Class)
		s.dispatcher.DispatchRecord(r)
	default:
		s.dispatcher.DispatchRecord(rec)
	}
}

func (s *Session) trackStateFromExecAsync(class string) {
	switch class {
	case "running":
		s.setState(StateRunning)
	case "stopped":
		s.setState(StateStopped)
	}
}

// writeLine serializes cmd to the wire, guarded by writeMu so
// concurrent façade calls never interleave partial command lines
// (spec §5: "writes to the stream are serialized by the encoder and
// the stream mutex").
func (s *Session) writeLine(line string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err := fmt.Fprintf(s.rw, "%s\n", line)
	return err
}

// acceptingCommands enforces the session state machine: no command
// other than End is accepted once the session has exited or ended
// (spec §4.7). Per spec §8 seed scenario 6, façade calls issued after
// the session has already gone terminal — whether via ^exit
// (StateExited) or a later DisconnectAll/End (StateEnded) — reject
// with SessionClosed; SessionEnded is reserved for the handles that
// were pending when ^exit itself arrived (miproto.Correlator.Resolve).
func (s *Session) acceptingCommands() error {
	switch s.State() {
	case StateExited, StateEnded:
		return miproto.SessionClosed{}
	default:
		return nil
	}
}

// execute issues cmd, writes it to the wire, and waits for its
// result, honoring ctx for cancellation.
func (s *Session) execute(ctx context.Context, cmd *miproto.Command) (mi.Tuple, error) {
	if err := s.acceptingCommands(); err != nil {
		return nil, err
	}
	tok, handle := s.correlator.Issue()
	cmd.Token = tok
	if err := s.writeLine(cmd.Encode()); err != nil {
		handle.Cancel()
		return nil, &miproto.TransportError{Err: err}
	}
	data, err := handle.WaitContext(ctx)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// newToken is a placeholder kept for façade files that build a
// Command before a token is known; token assignment always happens
// inside execute via the correlator, never the encoder.
const newToken uint64 = 0

func newCommand(name string) *miproto.Command {
	return miproto.NewCommand(newToken, name)
}
