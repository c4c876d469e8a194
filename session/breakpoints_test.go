package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBreakpointEncodesOptionsAndMapsResult(t *testing.T) {
	s, stub := newTestSession(t)
	ctx, cancel := withTimeout(t)
	defer cancel()

	type outcome struct {
		bp  *Breakpoint
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		cond := "x > 0"
		bp, err := s.AddBreakpoint(ctx, "main.c:10", BreakpointOptions{
			Temporary: true,
			Condition: &cond,
		})
		done <- outcome{bp, err}
	}()

	tok, cmd := stub.nextCommand()
	require.True(t, strings.HasPrefix(cmd, "break-insert"))
	assert.Contains(t, cmd, "-t")
	assert.Contains(t, cmd, `-c "x > 0"`)
	assert.Contains(t, cmd, "-- main.c:10")

	stub.reply(tok, `done,bkpt={number="1",type="breakpoint",disp="keep",enabled="y",`+
		`addr="0x0000000000401106",func="main",file="main.c",fullname="/src/main.c",`+
		`line="10",cond="x > 0",times="0",original-location="main.c:10"}`)

	out := <-done
	require.NoError(t, out.err)
	require.NotNil(t, out.bp)
	assert.Equal(t, "1", out.bp.Number)
	assert.Equal(t, BreakpointTypeBreakpoint, out.bp.Type)
	assert.True(t, out.bp.Enabled)
	assert.Equal(t, "main", out.bp.Function)
	assert.Equal(t, 10, out.bp.Line)
	assert.Equal(t, "x > 0", out.bp.Condition)
}

func TestAddBreakpointMissingBkptFieldIsShapeError(t *testing.T) {
	s, stub := newTestSession(t)
	ctx, cancel := withTimeout(t)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := s.AddBreakpoint(ctx, "main.c:10", BreakpointOptions{})
		done <- err
	}()

	tok, _ := stub.nextCommand()
	stub.reply(tok, `done`)

	err := <-done
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bkpt")
}

func TestRemoveBreakpointEncodesMultipleNumbers(t *testing.T) {
	s, stub := newTestSession(t)
	ctx, cancel := withTimeout(t)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.RemoveBreakpoint(ctx, "1", "2")
	}()

	tok, cmd := stub.nextCommand()
	assert.True(t, strings.HasPrefix(cmd, "break-delete"))
	assert.Contains(t, cmd, "-- 1 2")
	stub.reply(tok, "done")
	require.NoError(t, <-done)
}

func TestSetBreakpointConditionQuotesExpression(t *testing.T) {
	s, stub := newTestSession(t)
	ctx, cancel := withTimeout(t)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.SetBreakpointCondition(ctx, "1", "count == 3")
	}()

	tok, cmd := stub.nextCommand()
	assert.Contains(t, cmd, `-- 1 "count == 3"`)
	stub.reply(tok, "done")
	require.NoError(t, <-done)
}
