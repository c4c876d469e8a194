package mi

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports that the grammar rejected a record at a given
// byte offset into the line. Parsing never partially succeeds: either
// the whole value is typed or the whole line is rejected (spec §4.1).
type ParseError struct {
	Offset int
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mi: parse error at offset %d: %s (line: %q)", e.Offset, e.Reason, e.Line)
}

// valueParser walks a record's payload (the part after the leading
// token+sigil+class) character by character. It is a small
// hand-written recursive-descent scanner rather than text/scanner:
// MI's c-string escape set doesn't match Go's string-literal escapes,
// so the quoted-string token needs its own scan regardless, and once
// that exists there is nothing text/scanner buys for the remaining
// three token kinds ('{', '[', ',').
type valueParser struct {
	line string
	pos  int
}

func newValueParser(line string) *valueParser {
	return &valueParser{line: line}
}

func (p *valueParser) errorf(format string, a ...interface{}) *ParseError {
	return &ParseError{Offset: p.pos, Line: p.line, Reason: fmt.Sprintf(format, a...)}
}

func (p *valueParser) eof() bool {
	return p.pos >= len(p.line)
}

func (p *valueParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.line[p.pos]
}

func (p *valueParser) skipComma() {
	if !p.eof() && p.line[p.pos] == ',' {
		p.pos++
	}
}

// parseVarList parses a comma-separated "var" sequence (as appears
// after a result/async class) into a Tuple. It stops at end of input.
func (p *valueParser) parseVarList() (Tuple, error) {
	result := make(Tuple)
	for !p.eof() {
		key, val, err := p.parseVar()
		if err != nil {
			return nil, err
		}
		result[key] = val
		p.skipComma()
	}
	return result, nil
}

func (p *valueParser) parseVar() (string, Value, error) {
	key, err := p.parseIdentifier()
	if err != nil {
		return "", nil, err
	}
	if p.eof() || p.peek() != '=' {
		return "", nil, p.errorf("expected '=' after identifier %q", key)
	}
	p.pos++ // consume '='
	val, err := p.parseValue()
	if err != nil {
		return "", nil, err
	}
	return key, val, nil
}

func (p *valueParser) parseIdentifier() (string, error) {
	start := p.pos
	for !p.eof() {
		c := p.line[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", p.errorf("expected identifier")
	}
	return p.line[start:p.pos], nil
}

func (p *valueParser) parseValue() (Value, error) {
	if p.eof() {
		return nil, p.errorf("unexpected end of input, expected value")
	}
	switch p.peek() {
	case '"':
		s, err := p.parseCString()
		if err != nil {
			return nil, err
		}
		return Const(s), nil
	case '{':
		return p.parseTuple()
	case '[':
		return p.parseList()
	default:
		return nil, p.errorf("unexpected character %q, expected value", p.peek())
	}
}

func (p *valueParser) parseTuple() (Tuple, error) {
	p.pos++ // consume '{'
	result := make(Tuple)
	if !p.eof() && p.peek() == '}' {
		p.pos++
		return result, nil
	}
	for {
		key, val, err := p.parseVar()
		if err != nil {
			return nil, err
		}
		result[key] = val
		if p.eof() {
			return nil, p.errorf("unterminated tuple, expected '}'")
		}
		switch p.peek() {
		case ',':
			p.pos++
			continue
		case '}':
			p.pos++
			return result, nil
		default:
			return nil, p.errorf("unexpected character %q inside tuple", p.peek())
		}
	}
}

// parseList parses "[v,...]" or "[k=v,...]". Which form it is can
// only be known after seeing whether the first element is a bare
// value or an "identifier=" pair, so it peeks ahead for an '=' before
// committing to a branch.
func (p *valueParser) parseList() (List, error) {
	p.pos++ // consume '['
	if !p.eof() && p.peek() == ']' {
		p.pos++
		return List{}, nil
	}
	if p.looksLikeKeyedEntry() {
		var kvs []KV
		for {
			key, val, err := p.parseVar()
			if err != nil {
				return List{}, err
			}
			kvs = append(kvs, KV{Key: key, Value: val})
			if p.eof() {
				return List{}, p.errorf("unterminated list, expected ']'")
			}
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case ']':
				p.pos++
				return List{Keyed: kvs}, nil
			default:
				return List{}, p.errorf("unexpected character %q inside keyed list", p.peek())
			}
		}
	}
	var vals []Value
	for {
		val, err := p.parseValue()
		if err != nil {
			return List{}, err
		}
		vals = append(vals, val)
		if p.eof() {
			return List{}, p.errorf("unterminated list, expected ']'")
		}
		switch p.peek() {
		case ',':
			p.pos++
			continue
		case ']':
			p.pos++
			return List{Positional: vals}, nil
		default:
			return List{}, p.errorf("unexpected character %q inside list", p.peek())
		}
	}
}

// looksLikeKeyedEntry scans ahead from the current position, without
// consuming input, to see whether the next token is "identifier=" —
// distinguishing "[k=v,...]" from "[v,...]" without backtracking.
func (p *valueParser) looksLikeKeyedEntry() bool {
	i := p.pos
	start := i
	for i < len(p.line) {
		c := p.line[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			i++
			continue
		}
		break
	}
	return i > start && i < len(p.line) && p.line[i] == '='
}

// parseCString consumes a leading and trailing '"' and unescapes the
// contents per spec §4.1's escape grammar.
func (p *valueParser) parseCString() (string, error) {
	if p.peek() != '"' {
		return "", p.errorf("expected '\"'")
	}
	p.pos++
	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated string literal")
		}
		c := p.line[p.pos]
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.eof() {
				return "", p.errorf("unterminated escape sequence")
			}
			esc := p.line[p.pos]
			switch esc {
			case '"':
				b.WriteByte('"')
				p.pos++
			case '\\':
				b.WriteByte('\\')
				p.pos++
			case 'n':
				b.WriteByte('\n')
				p.pos++
			case 't':
				b.WriteByte('\t')
				p.pos++
			case 'r':
				b.WriteByte('\r')
				p.pos++
			case 'a':
				b.WriteByte('\a')
				p.pos++
			case 'b':
				b.WriteByte('\b')
				p.pos++
			case 'f':
				b.WriteByte('\f')
				p.pos++
			case 'v':
				b.WriteByte('\v')
				p.pos++
			case '0', '1', '2', '3', '4', '5', '6', '7':
				n, err := p.parseOctalEscape()
				if err != nil {
					return "", err
				}
				b.WriteByte(n)
			default:
				// Unknown escape: pass the character through
				// unescaped rather than failing the whole record.
				b.WriteByte(esc)
				p.pos++
			}
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
}

func (p *valueParser) parseOctalEscape() (byte, error) {
	start := p.pos
	end := start
	for end < len(p.line) && end < start+3 && p.line[end] >= '0' && p.line[end] <= '7' {
		end++
	}
	n, err := strconv.ParseUint(p.line[start:end], 8, 8)
	if err != nil {
		return 0, p.errorf("invalid octal escape %q", p.line[start:end])
	}
	p.pos = end
	return byte(n), nil
}

// UnescapeStreamPayload unescapes a stream record's C-string contents
// (console/target/log output), reusing the same escape table as
// quoted values inside tuples/lists.
func UnescapeStreamPayload(quoted string) (string, error) {
	p := newValueParser(quoted)
	return p.parseCString()
}
