package session

import (
	"context"

	"github.com/dbgmi/gomi/mi"
	"github.com/dbgmi/gomi/miproto"
)

// MemoryBlock is one contiguous range from "-data-read-memory-bytes",
// spec §4.7 readMemory. Contents is left as the hex string GDB/LLDB
// emits; decoding it into bytes is a caller concern since the spec's
// core protocol layer only promises typed access to the wire shape.
type MemoryBlock struct {
	Begin    string
	Offset   string
	End      string
	Contents string
}

func mapMemoryBlock(t mi.Tuple) MemoryBlock {
	return MemoryBlock{
		Begin:    optStr(t, "begin"),
		Offset:   optStr(t, "offset"),
		End:      optStr(t, "end"),
		Contents: optStr(t, "contents"),
	}
}

// ReadMemory reads count bytes at address+offset ("-data-read-memory-bytes"),
// spec §4.7 readMemory. offset may be 0; byteCount is the number of
// bytes to read starting at address+offset.
func (s *Session) ReadMemory(ctx context.Context, address string, offset int, byteCount int) ([]MemoryBlock, error) {
	if err := requireNonEmpty("readMemory", "address", address); err != nil {
		return nil, err
	}
	if err := requirePositive("readMemory", "byteCount", byteCount); err != nil {
		return nil, err
	}
	cmd := newCommand("data-read-memory-bytes")
	if offset != 0 {
		cmd.ParamRaw(address + "+" + itoa(offset))
	} else {
		cmd.ParamRaw(address)
	}
	cmd.ParamRaw(itoa(byteCount))
	data, err := s.execute(ctx, cmd)
	if err != nil {
		return nil, err
	}
	list, ok := data.List("memory")
	if !ok {
		return nil, &miproto.ProtocolShapeError{Operation: "readMemory", Field: "memory"}
	}
	out := make([]MemoryBlock, 0, len(list.Positional))
	for _, v := range list.Positional {
		if t, ok := v.(mi.Tuple); ok {
			out = append(out, mapMemoryBlock(t))
		}
	}
	return out, nil
}

// WriteMemory writes a hex-encoded byte sequence at address+offset
// ("-data-write-memory-bytes"). contentsHex must already be a
// well-formed hex string; the encoder does not validate it beyond
// passing it through ParamRaw, since it is not a C-string but a raw
// hex literal in GDB/LLDB's own grammar.
func (s *Session) WriteMemory(ctx context.Context, address string, offset int, contentsHex string) error {
	if err := requireNonEmpty("writeMemory", "address", address); err != nil {
		return err
	}
	if err := requireNonEmpty("writeMemory", "contentsHex", contentsHex); err != nil {
		return err
	}
	cmd := newCommand("data-write-memory-bytes")
	if offset != 0 {
		cmd.ParamRaw(address + "+" + itoa(offset))
	} else {
		cmd.ParamRaw(address)
	}
	cmd.ParamRaw(contentsHex)
	_, err := s.execute(ctx, cmd)
	return err
}
