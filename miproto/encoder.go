package miproto

import (
	"strconv"
	"strings"
)

// needsQuoting reports whether s must be C-string quoted: it is empty
// or uses a character outside the set a bare MI token/argument may use
// (spec §4.6).
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-' || c == '/' || c == '.':
		default:
			return true
		}
	}
	return false
}

// quoteArg renders s as a bare token when it needs no quoting, or a
// C-string literal (spec's escape grammar, reversed) otherwise.
func quoteArg(s string) string {
	if !needsQuoting(s) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Detail level for watch/variable-object queries (spec §4.6).
type DetailLevel int

const (
	DetailAllValues DetailLevel = iota
	DetailSimpleValues
	DetailNoValues
)

func (d DetailLevel) flag() string {
	switch d {
	case DetailAllValues:
		return "--all-values"
	case DetailSimpleValues:
		return "--simple-values"
	case DetailNoValues:
		return "--no-values"
	default:
		return "--all-values"
	}
}

// WatchFormat is the display format for a watch's value (spec §4.6).
type WatchFormat int

const (
	FormatNatural WatchFormat = iota
	FormatBinary
	FormatDecimal
	FormatHexadecimal
	FormatOctal
)

func (f WatchFormat) flag() string {
	switch f {
	case FormatNatural:
		return "natural"
	case FormatBinary:
		return "binary"
	case FormatDecimal:
		return "decimal"
	case FormatHexadecimal:
		return "hexadecimal"
	case FormatOctal:
		return "octal"
	default:
		return "natural"
	}
}

// Command builds one MI command line. It is intentionally append-only
// and order-preserving: options are written in the order they were
// added, then "--", then positional arguments, matching the teacher's
// gdb_command builder chain (breakpoint.go's add_option_when /
// add_option_stringvalue / add_option_intvalue) generalized into a
// single typed builder instead of one bespoke chain per command.
type Command struct {
	Token   uint64
	Name    string
	options []string
	params  []string
}

// NewCommand starts building command name "name" with the given
// token. The token is supplied by the correlator, never chosen here.
func NewCommand(token uint64, name string) *Command {
	return &Command{Token: token, Name: name}
}

// Option adds a bare "-flag" option.
func (c *Command) Option(flag string) *Command {
	c.options = append(c.options, "-"+flag)
	return c
}

// OptionWhen adds a bare "-flag" option only if cond is true.
func (c *Command) OptionWhen(cond bool, flag string) *Command {
	if cond {
		c.Option(flag)
	}
	return c
}

// OptionValue adds a "-flag value" option, quoting value as needed.
// A nil optional value is simply omitted (spec §4.6: "Missing optional
// arguments MUST be omitted rather than sent as empty strings").
func (c *Command) OptionValue(flag string, value *string) *Command {
	if value == nil {
		return c
	}
	c.options = append(c.options, "-"+flag, quoteArg(*value))
	return c
}

// OptionRaw adds a "-flag value" option with value passed through
// unquoted — for option arguments that are already a well-formed MI
// sub-expression (an address or address expression for
// "-data-disassemble"'s -s/-e/-a, not a C-string).
func (c *Command) OptionRaw(flag string, value string) *Command {
	c.options = append(c.options, "-"+flag, value)
	return c
}

// OptionInt adds a "-flag N" option if value is non-nil.
func (c *Command) OptionInt(flag string, value *int) *Command {
	if value == nil {
		return c
	}
	c.options = append(c.options, "-"+flag, strconv.Itoa(*value))
	return c
}

// Thread adds "--thread N" if threadID is non-nil (spec §4.6: thread
// and frame options use the double-dash MI command-option form,
// unlike a command's own single-dash flags).
func (c *Command) Thread(threadID *int) *Command {
	if threadID == nil {
		return c
	}
	c.options = append(c.options, "--thread", strconv.Itoa(*threadID))
	return c
}

// Frame adds "--frame N" if frameLevel is non-nil.
func (c *Command) Frame(frameLevel *int) *Command {
	if frameLevel == nil {
		return c
	}
	c.options = append(c.options, "--frame", strconv.Itoa(*frameLevel))
	return c
}

// Detail adds the watch/variable-object detail-level flag.
func (c *Command) Detail(level DetailLevel) *Command {
	c.options = append(c.options, level.flag())
	return c
}

// Format adds "-f <format>" for watch value formatting.
func (c *Command) Format(format WatchFormat) *Command {
	c.options = append(c.options, "-f", format.flag())
	return c
}

// Param appends a positional argument, quoting it if needed.
func (c *Command) Param(value string) *Command {
	c.params = append(c.params, quoteArg(value))
	return c
}

// ParamRaw appends a positional argument verbatim, unquoted — for
// values that are already a well-formed MI sub-expression (e.g. a
// breakpoint location like "file.c:10" that must not be wrapped in
// quotes).
func (c *Command) ParamRaw(value string) *Command {
	c.params = append(c.params, value)
	return c
}

// Encode renders the full wire line: "<token>-<name>[ options][ -- params]".
func (c *Command) Encode() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(c.Token, 10))
	b.WriteByte('-')
	b.WriteString(c.Name)
	for _, o := range c.options {
		b.WriteByte(' ')
		b.WriteString(o)
	}
	if len(c.params) > 0 {
		b.WriteString(" --")
		for _, p := range c.params {
			b.WriteByte(' ')
			b.WriteString(p)
		}
	}
	return b.String()
}
