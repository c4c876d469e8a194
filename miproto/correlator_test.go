package miproto

import (
	"sync"
	"testing"

	"github.com/dbgmi/gomi/mi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func u64p(v uint64) *uint64 { return &v }

func TestTokenUniquenessAndMonotonicity(t *testing.T) {
	c := NewCorrelator(zerolog.Nop())
	var tokens []uint64
	for i := 0; i < 50; i++ {
		tok, _ := c.Issue()
		tokens = append(tokens, tok)
	}
	seen := make(map[uint64]bool)
	for i, tok := range tokens {
		require.False(t, seen[tok], "token %d reused", tok)
		seen[tok] = true
		if i > 0 {
			require.Greater(t, tok, tokens[i-1])
		}
	}
}

func TestCorrelationAcrossInterleaving(t *testing.T) {
	c := NewCorrelator(zerolog.Nop())
	tokA, hA := c.Issue()
	tokB, hB := c.Issue()
	require.EqualValues(t, 1, tokA)
	require.EqualValues(t, 2, tokB)

	ended := c.Resolve(&mi.ResultRecord{Token: u64p(tokB), Class: mi.ResultDone, Data: mi.Tuple{"x": mi.Const("2")}})
	require.False(t, ended)
	ended = c.Resolve(&mi.ResultRecord{Token: u64p(tokA), Class: mi.ResultDone, Data: mi.Tuple{"y": mi.Const("1")}})
	require.False(t, ended)

	dataA, err := hA.Wait()
	require.NoError(t, err)
	y, _ := dataA.Str("y")
	require.Equal(t, "1", y)

	dataB, err := hB.Wait()
	require.NoError(t, err)
	x, _ := dataB.Str("x")
	require.Equal(t, "2", x)
}

func TestErrorPropagationKeepsSessionLive(t *testing.T) {
	c := NewCorrelator(zerolog.Nop())
	tok, h := c.Issue()
	ended := c.Resolve(&mi.ResultRecord{Token: u64p(tok), Class: mi.ResultError, Data: mi.Tuple{"msg": mi.Const("Undefined command")}})
	require.False(t, ended)

	_, err := h.Wait()
	require.Error(t, err)
	var de *DebuggerError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "Undefined command", de.Msg)

	// session remains usable: subsequent commands still correlate.
	tok2, h2 := c.Issue()
	c.Resolve(&mi.ResultRecord{Token: u64p(tok2), Class: mi.ResultDone, Data: mi.Tuple{}})
	_, err = h2.Wait()
	require.NoError(t, err)
}

func TestSessionExitResolvesAllPendingWithSessionEnded(t *testing.T) {
	c := NewCorrelator(zerolog.Nop())
	_, h1 := c.Issue()
	_, h2 := c.Issue()

	ended := c.Resolve(&mi.ResultRecord{Class: mi.ResultExit})
	require.True(t, ended)

	_, err1 := h1.Wait()
	_, err2 := h2.Wait()
	require.ErrorAs(t, err1, new(SessionEnded))
	require.ErrorAs(t, err2, new(SessionEnded))
	require.Equal(t, 0, c.Pending())
}

func TestUnknownTokenIsNonFatal(t *testing.T) {
	c := NewCorrelator(zerolog.Nop())
	ended := c.Resolve(&mi.ResultRecord{Token: u64p(999), Class: mi.ResultDone, Data: mi.Tuple{}})
	require.False(t, ended)
}

func TestDisconnectRejectsAllPending(t *testing.T) {
	c := NewCorrelator(zerolog.Nop())
	_, h := c.Issue()
	c.DisconnectAll()
	_, err := h.Wait()
	require.ErrorAs(t, err, new(SessionClosed))
}

func TestCancelDiscardsEventualResult(t *testing.T) {
	c := NewCorrelator(zerolog.Nop())
	tok, h := c.Issue()
	h.Cancel()
	// The eventual result still arrives from the transport's point of
	// view (Resolve does not know about cancellation) but must not
	// block the correlator or be delivered anywhere.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Resolve(&mi.ResultRecord{Token: u64p(tok), Class: mi.ResultDone, Data: mi.Tuple{}})
	}()
	wg.Wait()
	require.Equal(t, 0, c.Pending())
}

func TestRoundTripCorrelationResolvesExactlyOnce(t *testing.T) {
	c := NewCorrelator(zerolog.Nop())
	const n = 20
	handles := make([]*Handle, n)
	tokens := make([]uint64, n)
	for i := 0; i < n; i++ {
		tokens[i], handles[i] = c.Issue()
	}
	for i := n - 1; i >= 0; i-- { // resolve in reverse issue order
		c.Resolve(&mi.ResultRecord{Token: u64p(tokens[i]), Class: mi.ResultDone, Data: mi.Tuple{}})
	}
	for _, h := range handles {
		_, err := h.Wait()
		require.NoError(t, err)
	}
	require.Equal(t, 0, c.Pending())
}
