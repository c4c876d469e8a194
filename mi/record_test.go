package mi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseResultRecord(t *testing.T) {
	line := `42^done,bkpt={number="1",type="breakpoint",disp="keep",enabled="y",addr="0x0040113c",func="main",file="a.c",fullname="/p/a.c",line="6",times="0"}`
	rec, err := ParseRecord(line)
	require.NoError(t, err)

	res, ok := rec.(*ResultRecord)
	require.True(t, ok)
	require.NotNil(t, res.Token)
	require.EqualValues(t, 42, *res.Token)
	require.Equal(t, ResultDone, res.Class)

	bkpt, ok := res.Data.Tuple("bkpt")
	require.True(t, ok)
	number, ok := bkpt.Str("number")
	require.True(t, ok)
	require.Equal(t, "1", number)
	line6, ok := bkpt.Str("line")
	require.True(t, ok)
	require.Equal(t, "6", line6)
}

func TestParseKeyedListWithDuplicateKeys(t *testing.T) {
	line := `^done,frame={level="0",func="f"},frame={level="1",func="g"}`
	rec, err := ParseRecord(line)
	require.NoError(t, err)

	res := rec.(*ResultRecord)
	require.Nil(t, res.Token)

	// Top-level duplicate keys in the Tuple itself collapse (a Tuple's
	// keys are unique by the grammar); duplicate keys only survive
	// inside an explicit keyed list. Exercise that shape directly.
	listLine := `^done,stack=[frame={level="0",func="f"},frame={level="1",func="g"}]`
	rec2, err := ParseRecord(listLine)
	require.NoError(t, err)
	res2 := rec2.(*ResultRecord)
	stack, ok := res2.Data.List("stack")
	require.True(t, ok)
	frames := stack.AllTuples("frame")
	require.Len(t, frames, 2)
	lvl0, _ := frames[0].Str("level")
	lvl1, _ := frames[1].Str("level")
	require.Equal(t, "0", lvl0)
	require.Equal(t, "1", lvl1)
}

func TestParseAsyncStopped(t *testing.T) {
	line := `*stopped,reason="breakpoint-hit",bkptno="3",thread-id="1",stopped-threads="all",frame={addr="0x4011f0",func="main",file="a.c",line="12"}`
	rec, err := ParseRecord(line)
	require.NoError(t, err)

	async, ok := rec.(*AsyncExecRecord)
	require.True(t, ok)
	require.Nil(t, async.Token)
	require.Equal(t, "stopped", async.Class)
	reason, _ := async.Data.Str("reason")
	require.Equal(t, "breakpoint-hit", reason)
	frame, ok := async.Data.Tuple("frame")
	require.True(t, ok)
	lineNo, _ := frame.Str("line")
	require.Equal(t, "12", lineNo)
}

func TestParseStreamRecordsUnescape(t *testing.T) {
	rec, err := ParseRecord(`~"hello\n\tworld\""`)
	require.NoError(t, err)
	console, ok := rec.(ConsoleStreamRecord)
	require.True(t, ok)
	require.Equal(t, "hello\n\tworld\"", string(console))

	rec2, err := ParseRecord(`@"target output"`)
	require.NoError(t, err)
	require.Equal(t, TargetStreamRecord("target output"), rec2)

	rec3, err := ParseRecord(`&"log line"`)
	require.NoError(t, err)
	require.Equal(t, LogStreamRecord("log line"), rec3)
}

func TestParsePrompt(t *testing.T) {
	rec, err := ParseRecord("(gdb)")
	require.NoError(t, err)
	require.Equal(t, PromptRecord{}, rec)
}

func TestParseEmptyTupleAndList(t *testing.T) {
	rec, err := ParseRecord(`^done,a={},b=[]`)
	require.NoError(t, err)
	res := rec.(*ResultRecord)

	a, ok := res.Data.Tuple("a")
	require.True(t, ok)
	require.Empty(t, a)

	b, ok := res.Data.List("b")
	require.True(t, ok)
	require.Nil(t, b.Positional)
	require.Nil(t, b.Keyed)
}

func TestParseMalformedRecordFails(t *testing.T) {
	_, err := ParseRecord(`^done,bkpt={number=`)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestUnescapeStreamPayload(t *testing.T) {
	got, err := UnescapeStreamPayload(`"\n\t\""`)
	require.NoError(t, err)
	require.Equal(t, "\n\t\"", got)
}

func TestErrorRecordCarriesMessage(t *testing.T) {
	rec, err := ParseRecord(`7^error,msg="Undefined command"`)
	require.NoError(t, err)
	res := rec.(*ResultRecord)
	require.Equal(t, ResultError, res.Class)
	require.NotNil(t, res.Token)
	require.EqualValues(t, 7, *res.Token)
	msg, ok := res.Data.Str("msg")
	require.True(t, ok)
	require.Equal(t, "Undefined command", msg)
}
