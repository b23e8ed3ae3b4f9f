// Package asm turns assembly source into instruction words.
//
// Assembly runs in two phases. Scan reads every line, records label
// addresses and parses instructions. Encode then resolves operands against
// the complete symbol table and writes one little-endian word per
// instruction.
package asm

import (
	"fmt"
	"io"
	"math"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/muasm/asmerr"
	"github.com/sarchlab/muasm/core"
	"github.com/sarchlab/muasm/instr"
	"github.com/sarchlab/muasm/isa"
)

// HookPosLabelDefined marks when the scan phase records a label.
var HookPosLabelDefined = &sim.HookPos{Name: "Label Defined"}

// HookPosInstParsed marks when the scan phase parses an instruction.
var HookPosInstParsed = &sim.HookPos{Name: "Inst Parsed"}

// HookPosInstEncoded marks when an instruction word has been written.
var HookPosInstEncoded = &sim.HookPos{Name: "Inst Encoded"}

// LineReader supplies source lines. *bufio.Scanner satisfies it.
type LineReader interface {
	Scan() bool
	Text() string
	Err() error
}

// Encoded is the item of HookPosInstEncoded.
type Encoded struct {
	Inst instr.Instruction
	Word core.Word
}

func (e Encoded) String() string {
	return fmt.Sprintf("0x%08x %s %s", e.Inst.Address, e.Word, e.Inst)
}

// Program is the result of the scan phase.
type Program struct {
	Instructions []instr.Instruction
	Labels       []instr.Label
	Symbols      instr.SymbolTable
}

// Size returns the number of bytes the program encodes to.
func (p *Program) Size() int {
	return len(p.Instructions) * instr.WordSize
}

// Assembler assembles source against one instruction set. It keeps no state
// between invocations.
type Assembler struct {
	*sim.HookableBase

	table *isa.Table
}

// ISA returns the instruction set the assembler targets.
func (a *Assembler) ISA() *isa.Table {
	return a.table
}

// Assemble scans all of r and writes the encoded program to w.
func (a *Assembler) Assemble(r LineReader, w io.Writer) error {
	p, err := a.Scan(r)
	if err != nil {
		return err
	}

	return a.Encode(p, w)
}

// Scan runs the first phase over every line of r.
func (a *Assembler) Scan(r LineReader) (*Program, error) {
	p := &Program{Symbols: instr.SymbolTable{}}

	var (
		line    int
		address uint32
	)

	for r.Scan() {
		line++
		raw := r.Text()

		stmt, err := instr.ParseLine(raw)
		if err != nil {
			return nil, asmerr.AtLine(err, line)
		}

		if stmt == nil {
			continue
		}

		if stmt.IsLabel() {
			l := stmt.ToLabel(line, address)
			if err := p.Symbols.Define(l); err != nil {
				return nil, asmerr.AtLine(err, line)
			}

			p.Labels = append(p.Labels, l)
			a.invoke(HookPosLabelDefined, l)

			continue
		}

		if uint64(address)+instr.WordSize > math.MaxUint32+1 {
			return nil, asmerr.AtLine(asmerr.New(asmerr.MalformedLine,
				"program does not fit in a 32-bit address space"), line)
		}

		inst, err := stmt.ToInstruction(instr.StripComment(raw), line, address)
		if err != nil {
			return nil, asmerr.AtLine(err, line)
		}

		p.Instructions = append(p.Instructions, inst)
		a.invoke(HookPosInstParsed, inst)

		address += instr.WordSize
	}

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading source after line %d: %w", line, err)
	}

	return p, nil
}

// Encode runs the second phase, writing one word per instruction. Words
// written before an error stay written.
func (a *Assembler) Encode(p *Program, w io.Writer) error {
	buf := make([]byte, 0, instr.WordSize)

	for _, inst := range p.Instructions {
		word, err := a.EncodeInstruction(inst, p.Symbols)
		if err != nil {
			return err
		}

		buf = core.AppendWord(buf[:0], word)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("writing word for line %d: %w", inst.Line, err)
		}

		a.invoke(HookPosInstEncoded, Encoded{Inst: inst, Word: word})
	}

	return nil
}

// EncodeInstruction encodes a single instruction against a symbol table.
func (a *Assembler) EncodeInstruction(
	inst instr.Instruction,
	symbols instr.SymbolTable,
) (core.Word, error) {
	format, err := a.table.LookupByMnemonic(inst.Mnemonic)
	if err != nil {
		return 0, asmerr.AtLine(err, inst.Line)
	}

	fields, err := core.Bind(inst, format, symbols, a.table.Registers())
	if err != nil {
		return 0, asmerr.AtLine(err, inst.Line)
	}

	return core.Encode(fields), nil
}

func (a *Assembler) invoke(pos *sim.HookPos, item interface{}) {
	if a.NumHooks() == 0 {
		return
	}

	a.InvokeHook(sim.HookCtx{
		Domain: a,
		Pos:    pos,
		Item:   item,
	})
}
