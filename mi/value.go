// Package mi implements the GDB/LLDB Machine Interface output grammar:
// turning one MI record (a single line of debugger output) into a typed
// value. It knows nothing about commands, sessions, or events — only
// how to read the wire format.
package mi

import "fmt"

// Value is the result of parsing a single MI value: a C-string, a
// tuple, or a list. It is a closed sum type; the only implementations
// are the ones in this file.
type Value interface {
	isValue()
}

// Const is a parsed C-string literal with escapes already resolved.
type Const string

func (Const) isValue() {}

// Tuple is a parsed "{k=v,...}" value. Key order is not significant
// (per the grammar in spec §4.1), so a map is the right shape; unlike
// List, a Tuple's keys are required to be unique.
type Tuple map[string]Value

func (Tuple) isValue() {}

// KV is one key/value pair of a keyed list. Keyed lists, unlike
// tuples, may repeat a key (e.g. several "frame=" entries) and must
// preserve encounter order, so they are carried as a slice of pairs
// rather than collapsed into a map.
type KV struct {
	Key   string
	Value Value
}

// List is a parsed "[...]" value. Exactly one of Positional or Keyed
// is populated, matching the two list forms the grammar allows
// ("[v,...]" or "[k=v,...]"); an empty list has both nil and is
// distinguished from a missing field by the caller checking presence
// in the enclosing Tuple, not by inspecting the List itself.
type List struct {
	Positional []Value
	Keyed      []KV
}

func (List) isValue() {}

// Str returns the Const value of key as a string, or ok=false if the
// key is absent or not a Const.
func (t Tuple) Str(key string) (string, bool) {
	v, ok := t[key]
	if !ok {
		return "", false
	}
	c, ok := v.(Const)
	return string(c), ok
}

// Tuple returns the Tuple value of key, or ok=false if the key is
// absent or not a Tuple.
func (t Tuple) Tuple(key string) (Tuple, bool) {
	v, ok := t[key]
	if !ok {
		return nil, false
	}
	c, ok := v.(Tuple)
	return c, ok
}

// List returns the List value of key, or ok=false if the key is
// absent or not a List.
func (t Tuple) List(key string) (List, bool) {
	v, ok := t[key]
	if !ok {
		return List{}, false
	}
	c, ok := v.(List)
	return c, ok
}

// AllTuples returns the Tuple values of every key==key entry in a
// keyed list, in encounter order — the shape needed to read repeated
// fields such as multiple "frame=" entries out of a stack listing.
func (l List) AllTuples(key string) []Tuple {
	var out []Tuple
	for _, kv := range l.Keyed {
		if kv.Key != key {
			continue
		}
		if t, ok := kv.Value.(Tuple); ok {
			out = append(out, t)
		}
	}
	return out
}

// FormatValue renders a Value for diagnostics; it is not a wire
// encoding and is not meant to round-trip.
func FormatValue(v Value) string {
	switch t := v.(type) {
	case Const:
		return fmt.Sprintf("%q", string(t))
	case Tuple:
		return fmt.Sprintf("{tuple:%d fields}", len(t))
	case List:
		if t.Keyed != nil {
			return fmt.Sprintf("[keyed list:%d entries]", len(t.Keyed))
		}
		return fmt.Sprintf("[list:%d entries]", len(t.Positional))
	default:
		return "<nil value>"
	}
}
