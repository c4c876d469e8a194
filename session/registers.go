package session

import (
	"context"

	"github.com/dbgmi/gomi/mi"
	"github.com/dbgmi/gomi/miproto"
)

// RegisterValue pairs a register's index (its position in
// GetRegisterNames' result, which "-data-list-register-values" keys
// its own entries by) with its formatted value.
type RegisterValue struct {
	Number int
	Value  string
}

// GetRegisterNames lists the target's register names, in register
// number order ("-data-list-register-names"), spec §4.7
// getRegisterNames. regno optionally restricts the listing to that
// subset of register numbers.
func (s *Session) GetRegisterNames(ctx context.Context, regno ...int) ([]string, error) {
	for _, n := range regno {
		if err := requireNonNegative("getRegisterNames", "regno", n); err != nil {
			return nil, err
		}
	}
	cmd := newCommand("data-list-register-names")
	for _, n := range regno {
		cmd.ParamRaw(itoa(n))
	}
	data, err := s.execute(ctx, cmd)
	if err != nil {
		return nil, err
	}
	list, ok := data.List("register-names")
	if !ok {
		return nil, &miproto.ProtocolShapeError{Operation: "getRegisterNames", Field: "register-names"}
	}
	out := make([]string, 0, len(list.Positional))
	for _, v := range list.Positional {
		if c, ok := v.(mi.Const); ok {
			out = append(out, string(c))
		}
	}
	return out, nil
}

// GetRegisterValues reads register values in the given display
// format ("-data-list-register-values"), spec §4.7 getRegisterValues.
// regno optionally restricts the read to that subset of register
// numbers; an empty regno reads every register.
func (s *Session) GetRegisterValues(ctx context.Context, format miproto.WatchFormat, regno ...int) ([]RegisterValue, error) {
	cmd := newCommand("data-list-register-values").ParamRaw(formatLetter(format))
	for _, n := range regno {
		cmd.ParamRaw(itoa(n))
	}
	data, err := s.execute(ctx, cmd)
	if err != nil {
		return nil, err
	}
	list, ok := data.List("register-values")
	if !ok {
		return nil, &miproto.ProtocolShapeError{Operation: "getRegisterValues", Field: "register-values"}
	}
	out := make([]RegisterValue, 0, len(list.Positional))
	for _, v := range list.Positional {
		reg, ok := v.(mi.Tuple)
		if !ok {
			continue
		}
		out = append(out, RegisterValue{
			Number: optInt(reg, "number"),
			Value:  optStr(reg, "value"),
		})
	}
	return out, nil
}

// formatLetter renders a WatchFormat as the single-character format
// code "-data-list-register-values" expects (distinct from the
// "-f natural|..." long form the var-object commands use).
func formatLetter(f miproto.WatchFormat) string {
	switch f {
	case miproto.FormatBinary:
		return "t"
	case miproto.FormatDecimal:
		return "d"
	case miproto.FormatHexadecimal:
		return "x"
	case miproto.FormatOctal:
		return "o"
	default:
		return "N"
	}
}
