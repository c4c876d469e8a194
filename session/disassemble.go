package session

import (
	"context"

	"github.com/dbgmi/gomi/mi"
	"github.com/dbgmi/gomi/miproto"
)

// DisassembleMode selects "-data-disassemble"'s "-- mode" argument:
// plain machine code, or machine code mixed with the source lines
// that produced it.
type DisassembleMode int

const (
	DisassembleModePlain DisassembleMode = iota
	DisassembleModeMixedSource
	DisassembleModeMixedSourceWithRawOpcodes
	DisassembleModePlainWithRawOpcodes
)

// Instruction is one entry of a plain disassembly listing.
type Instruction struct {
	Address     string
	Function    string
	Offset      int
	Instruction string
}

// SourceLineAsm groups the instructions generated from one source
// line, the shape "-data-disassemble"'s mixed-source mode returns.
type SourceLineAsm struct {
	Line         int
	File         string
	Instructions []Instruction
}

func mapInstruction(t mi.Tuple) Instruction {
	return Instruction{
		Address:     optStr(t, "address"),
		Function:    optStr(t, "func-name"),
		Offset:      optInt(t, "offset"),
		Instruction: optStr(t, "inst"),
	}
}

func mapSourceLineAsm(t mi.Tuple) SourceLineAsm {
	sla := SourceLineAsm{
		Line: optInt(t, "line"),
		File: optStr(t, "file"),
	}
	lines, _ := t.List("line_asm_insn")
	for _, v := range lines.Positional {
		if it, ok := v.(mi.Tuple); ok {
			sla.Instructions = append(sla.Instructions, mapInstruction(it))
		}
	}
	return sla
}

// Disassemble disassembles an address range ("-data-disassemble -s
// start -e end -- mode"), spec §4.7 disassemble. Plain modes return
// Instructions; mixed-source modes return SourceLines instead.
func (s *Session) Disassemble(ctx context.Context, startAddr, endAddr string, mode DisassembleMode) ([]Instruction, []SourceLineAsm, error) {
	if err := requireNonEmpty("disassemble", "startAddr", startAddr); err != nil {
		return nil, nil, err
	}
	if err := requireNonEmpty("disassemble", "endAddr", endAddr); err != nil {
		return nil, nil, err
	}
	cmd := newCommand("data-disassemble").
		OptionRaw("s", startAddr).
		OptionRaw("e", endAddr).
		ParamRaw(itoa(int(mode)))
	return s.runDisassemble(ctx, cmd, mode)
}

// DisassembleFunction disassembles the function containing addr, or
// the current function when addr is "" ("-data-disassemble -a addr --
// mode").
func (s *Session) DisassembleFunction(ctx context.Context, addr string, mode DisassembleMode) ([]Instruction, []SourceLineAsm, error) {
	cmd := newCommand("data-disassemble")
	if addr != "" {
		cmd.OptionRaw("a", addr)
	}
	cmd.ParamRaw(itoa(int(mode)))
	return s.runDisassemble(ctx, cmd, mode)
}

func (s *Session) runDisassemble(ctx context.Context, cmd *miproto.Command, mode DisassembleMode) ([]Instruction, []SourceLineAsm, error) {
	data, err := s.execute(ctx, cmd)
	if err != nil {
		return nil, nil, err
	}
	list, ok := data.List("asm_insns")
	if !ok {
		return nil, nil, &miproto.ProtocolShapeError{Operation: "disassemble", Field: "asm_insns"}
	}
	if mode == DisassembleModePlain || mode == DisassembleModePlainWithRawOpcodes {
		out := make([]Instruction, 0, len(list.Positional))
		for _, v := range list.Positional {
			if t, ok := v.(mi.Tuple); ok {
				out = append(out, mapInstruction(t))
			}
		}
		return out, nil, nil
	}
	out := make([]SourceLineAsm, 0, len(list.AllTuples("src_and_asm_line")))
	for _, t := range list.AllTuples("src_and_asm_line") {
		out = append(out, mapSourceLineAsm(t))
	}
	return nil, out, nil
}
