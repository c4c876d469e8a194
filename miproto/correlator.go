package miproto

import (
	"context"
	"sync"

	"github.com/dbgmi/gomi/mi"
	"github.com/rs/zerolog"
)

// CommandResult pairs a result class with its parsed data. Handle.Wait
// and Handle.WaitContext do not return it: they return the parsed data
// of a "done"/"running"/"connected" result, or an error (DebuggerError,
// SessionEnded, or SessionClosed), directly.
type CommandResult struct {
	Class mi.ResultClass
	Data  mi.Tuple
}

// pending is one outstanding command: its token and the one-shot
// channel its result (or rejection) is delivered on. Grounded on the
// teacher's gdb_command.result channel plus open_commands map in
// gdbmi.go's dispatch goroutine, generalized into its own type so it
// is not tangled with command encoding (spec §9 redesign note).
type pending struct {
	token    uint64
	resultCh chan result
	detached bool
}

type result struct {
	data mi.Tuple
	err  error
}

// Correlator assigns tokens to outgoing commands and matches incoming
// result records back to them (spec §4.4). It owns the pending map
// exclusively; Issue, Cancel, Resolve and DisconnectAll may be called
// from different goroutines (callers issuing commands, the session's
// single read loop), so every access to the map holds mu.
type Correlator struct {
	mu        sync.Mutex
	nextToken uint64
	table     map[uint64]*pending
	log       zerolog.Logger
}

// NewCorrelator creates a Correlator starting at token 1 (0 is
// reserved so a zero-value token always means "no token", matching
// mi.Record's *uint64 absence convention).
func NewCorrelator(log zerolog.Logger) *Correlator {
	return &Correlator{table: make(map[uint64]*pending), nextToken: 1, log: log}
}

// Handle is the caller-facing side of a pending command: a one-shot
// wait for its result.
type Handle struct {
	token uint64
	ch    chan result
	c     *Correlator
}

// Token returns the token this handle was issued under.
func (h *Handle) Token() uint64 { return h.token }

// Wait blocks until the command resolves or rejects.
func (h *Handle) Wait() (mi.Tuple, error) {
	r := <-h.ch
	return r.data, r.err
}

// WaitContext blocks until the command resolves/rejects or ctx is
// done, whichever comes first. On context cancellation the handle is
// cancelled (spec §5 cancellation): the eventual reply, if the
// debugger still sends one, is discarded rather than delivered.
func (h *Handle) WaitContext(ctx context.Context) (mi.Tuple, error) {
	select {
	case r := <-h.ch:
		return r.data, r.err
	case <-ctx.Done():
		h.Cancel()
		return nil, ctx.Err()
	}
}

// Cancel detaches the handle from the correlator: the eventual result
// (if any) is consumed and discarded rather than delivered, per spec
// §5 ("cancellation detaches the completion handle but DOES NOT
// retract the command from the debugger"). Cancel does not block.
func (h *Handle) Cancel() {
	h.c.mu.Lock()
	defer h.c.mu.Unlock()
	if p, ok := h.c.table[h.token]; ok {
		p.detached = true
	}
}

// Issue allocates a fresh, strictly increasing token, registers a
// pending completion for it, and returns both the token (for the
// caller to encode into the command line) and the Handle to wait on.
func (c *Correlator) Issue() (uint64, *Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tok := c.nextToken
	c.nextToken++
	ch := make(chan result, 1)
	c.table[tok] = &pending{token: tok, resultCh: ch}
	return tok, &Handle{token: tok, ch: ch, c: c}
}

// Resolve handles an inbound ResultRecord. Per spec §4.4:
//   - no token at all is not this component's concern (callers route
//     tokenless records to the dispatcher instead);
//   - an unknown token yields UnexpectedResultError, logged, not
//     returned to any caller;
//   - done/running/connected resolves the matching handle with data;
//   - error rejects it with DebuggerError;
//   - exit resolves every outstanding handle with SessionEnded and
//     reports the session should become terminal (the bool return).
func (c *Correlator) Resolve(rec *mi.ResultRecord) (sessionEnded bool) {
	if rec.Class == mi.ResultExit {
		c.resolveAllWith(result{err: SessionEnded{}})
		return true
	}
	if rec.Token == nil {
		return false
	}
	tok := *rec.Token

	c.mu.Lock()
	p, ok := c.table[tok]
	if ok {
		delete(c.table, tok)
	}
	c.mu.Unlock()

	if !ok {
		c.log.Warn().Err(&UnexpectedResultError{Token: tok}).Uint64("token", tok).Msg("result for unknown token")
		return false
	}
	if p.detached {
		return false
	}

	switch rec.Class {
	case mi.ResultDone, mi.ResultRunning, mi.ResultConnected:
		p.resultCh <- result{data: rec.Data}
	case mi.ResultError:
		msg, _ := rec.Data.Str("msg")
		code, _ := rec.Data.Str("code")
		p.resultCh <- result{err: &DebuggerError{Msg: msg, Code: code}}
	default:
		p.resultCh <- result{data: rec.Data}
	}
	return false
}

// DisconnectAll rejects every pending handle with SessionClosed. It
// is called on a transport EOF/error or a local end() (spec §4.4
// on_disconnect, §7 SessionClosed).
func (c *Correlator) DisconnectAll() {
	c.resolveAllWith(result{err: SessionClosed{}})
}

func (c *Correlator) resolveAllWith(r result) {
	c.mu.Lock()
	table := c.table
	c.table = make(map[uint64]*pending)
	c.mu.Unlock()

	for _, p := range table {
		if p.detached {
			continue
		}
		p.resultCh <- r
	}
}

// Pending reports how many commands are currently outstanding —
// used by tests asserting the "no leak" property (spec §8).
func (c *Correlator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.table)
}
