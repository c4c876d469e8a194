package session

import (
	"strconv"

	"github.com/dbgmi/gomi/mi"
	"github.com/dbgmi/gomi/miproto"
)

// optInt parses an optional numeric field, defaulting to 0 when
// absent — mirrors the teacher's repeated fmt.Sscanf(..., "%d", &x)
// idiom in breakpoint.go/stack.go, generalized into one helper per
// the per-command schema redesign note (spec §9).
func optInt(t mi.Tuple, field string) int {
	v, ok := t.Str(field)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func optBoolYN(t mi.Tuple, field string) bool {
	v, _ := t.Str(field)
	return v == "y"
}

func optStr(t mi.Tuple, field string) string {
	v, _ := miproto.OptionalString(t, field)
	return v
}

// itoa is a tiny local alias so façade files building ParamRaw
// arguments out of ints don't each import strconv on their own.
func itoa(n int) string {
	return strconv.Itoa(n)
}

// requireNonEmpty validates a required string argument before it ever
// reaches the encoder (spec §4.7 step 1, §4.6: "unknown arguments are
// an encoding error, not silently dropped"). The error never reaches
// the wire (spec §7 EncoderError).
func requireNonEmpty(operation, field, value string) error {
	if value == "" {
		return &miproto.EncoderError{Operation: operation, Reason: field + " must not be empty"}
	}
	return nil
}

// requireNonEmptySlice validates that a variadic argument list
// required by an operation (e.g. the breakpoint numbers to delete)
// was not left empty.
func requireNonEmptySlice(operation, field string, n int) error {
	if n == 0 {
		return &miproto.EncoderError{Operation: operation, Reason: field + " must not be empty"}
	}
	return nil
}

// requireNonNegative validates an integer argument that GDB/LLDB-MI
// rejects when negative (register numbers, frame levels, byte counts).
func requireNonNegative(operation, field string, value int) error {
	if value < 0 {
		return &miproto.EncoderError{Operation: operation, Reason: field + " must not be negative"}
	}
	return nil
}

// requirePositive validates an integer argument that must be strictly
// positive (e.g. a memory read's byte count).
func requirePositive(operation, field string, value int) error {
	if value <= 0 {
		return &miproto.EncoderError{Operation: operation, Reason: field + " must be positive"}
	}
	return nil
}
