package session

import (
	"context"

	"github.com/dbgmi/gomi/miproto"
)

// SetExecutableFile sets the executable gdb/lldb-mi should load,
// equivalent to "-file-exec-and-symbols" (spec §4.7 setExecutableFile).
// On success the session transitions Fresh -> Attached.
func (s *Session) SetExecutableFile(ctx context.Context, path string) error {
	cmd := newCommand("file-exec-and-symbols").ParamRaw(path)
	_, err := s.execute(ctx, cmd)
	if err != nil {
		return err
	}
	s.setState(StateAttached)
	return nil
}

// StartInferior runs the target from the beginning ("-exec-run"),
// equivalent to startInferior in spec §4.7. all requests every
// inferior in the thread group run; threadGroup optionally scopes the
// run to one thread group.
func (s *Session) StartInferior(ctx context.Context, all bool, threadGroup *string) error {
	cmd := newCommand("exec-run").
		OptionWhen(all, "all").
		OptionValue("thread-group", threadGroup)
	_, err := s.execute(ctx, cmd)
	if err != nil {
		return err
	}
	s.setState(StateRunning)
	return nil
}

// StepOverLine executes one source line, stepping over calls
// ("-exec-next").
func (s *Session) StepOverLine(ctx context.Context, threadID *int, reverse bool) error {
	cmd := newCommand("exec-next").Thread(threadID).OptionWhen(reverse, "reverse")
	_, err := s.execute(ctx, cmd)
	return err
}

// StepIntoLine executes one source line, stepping into calls
// ("-exec-step").
func (s *Session) StepIntoLine(ctx context.Context, threadID *int, reverse bool) error {
	cmd := newCommand("exec-step").Thread(threadID).OptionWhen(reverse, "reverse")
	_, err := s.execute(ctx, cmd)
	return err
}

// StepOutOfFrame finishes the current function ("-exec-finish").
func (s *Session) StepOutOfFrame(ctx context.Context, threadID *int, reverse bool) error {
	cmd := newCommand("exec-finish").Thread(threadID).OptionWhen(reverse, "reverse")
	_, err := s.execute(ctx, cmd)
	return err
}

// ContinueAll resumes execution ("-exec-continue"). all resumes every
// thread group (vs. just the current one); reverse requests reverse
// execution where the debugger supports it.
func (s *Session) ContinueAll(ctx context.Context, all bool, reverse bool) error {
	cmd := newCommand("exec-continue").OptionWhen(all, "all").OptionWhen(reverse, "reverse")
	_, err := s.execute(ctx, cmd)
	return err
}

// InterruptInferior stops a running target ("-exec-interrupt"). This
// is the one façade operation issued while the stream may already be
// mid-command for other callers; the encoder/writeMu serialization in
// Session.writeLine makes that safe.
func (s *Session) InterruptInferior(ctx context.Context, all bool, threadGroup *string) error {
	cmd := newCommand("exec-interrupt").
		OptionWhen(all, "all").
		OptionValue("thread-group", threadGroup)
	_, err := s.execute(ctx, cmd)
	return err
}

// GdbExit terminates the debugger session itself ("-gdb-exit"), distinct
// from Session.End which only tears down the local client-side state.
// It is valid to call even mid-command; the debugger's own "^exit"
// reply, when it arrives, is what actually flips the session to
// Exited via the correlator.
func (s *Session) GdbExit(ctx context.Context) error {
	cmd := newCommand("gdb-exit")
	_, err := s.execute(ctx, cmd)
	if err != nil {
		if _, ok := err.(miproto.SessionEnded); ok {
			return nil
		}
		return err
	}
	return nil
}
