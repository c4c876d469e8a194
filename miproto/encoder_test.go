package miproto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestEncodeSimpleCommand(t *testing.T) {
	c := NewCommand(1, "exec-next")
	require.Equal(t, "1-exec-next", c.Encode())
}

func TestEncodeOmitsMissingOptionalArguments(t *testing.T) {
	c := NewCommand(3, "break-insert").
		OptionWhen(false, "t").
		OptionValue("c", nil).
		OptionInt("i", nil).
		ParamRaw("main.c:10")
	require.Equal(t, "3-break-insert -- main.c:10", c.Encode())
}

func TestEncodeIncludesProvidedOptions(t *testing.T) {
	cond := "x > 3"
	ignore := 5
	c := NewCommand(3, "break-insert").
		OptionWhen(true, "t").
		OptionValue("c", &cond).
		OptionInt("i", &ignore).
		ParamRaw("main.c:10")
	require.Equal(t, `3-break-insert -t -c "x > 3" -i 5 -- main.c:10`, c.Encode())
}

func TestEncodeThreadAndFrameUseDoubleDash(t *testing.T) {
	c := NewCommand(7, "stack-list-locals").Thread(intp(2)).Frame(intp(0)).Param("1")
	require.Equal(t, "7-stack-list-locals --thread 2 --frame 0 -- 1", c.Encode())
}

func TestEncodeWatchFormatAndDetail(t *testing.T) {
	c := NewCommand(9, "var-update").Detail(DetailAllValues).Param("watch1")
	require.Equal(t, "9-var-update --all-values -- watch1", c.Encode())

	c2 := NewCommand(10, "var-set-format").Format(FormatHexadecimal).Param("watch1")
	require.Equal(t, "10-var-set-format -f hexadecimal -- watch1", c2.Encode())
}

func TestEncodeQuotesArgumentsWithSpecialCharacters(t *testing.T) {
	c := NewCommand(2, "data-evaluate-expression").Param(`a "quoted" \ value`)
	require.Contains(t, c.Encode(), `\"quoted\"`)
	require.Contains(t, c.Encode(), `\\`)
}

func TestEncodeLeavesPlainIdentifiersUnquoted(t *testing.T) {
	c := NewCommand(2, "break-insert").Param("main")
	require.Equal(t, "2-break-insert -- main", c.Encode())
}
