// Package isa holds the instruction set definition shared by the assembler
// and the disassembler: the instruction formats, the register names and the
// positional operand layout of every field mask.
package isa

import (
	"fmt"

	"github.com/sarchlab/muasm/asmerr"
)

// MaxGroup is the largest opcode group a 5-bit group field can hold.
const MaxGroup = 0x1f

// Format describes how one mnemonic is encoded.
type Format struct {
	Mnemonic string
	Fields   FieldMask
	Group    uint8
	Opcode   uint8
}

// Key returns the decode key of the format.
func (f Format) Key() Encoding {
	return Encoding{Fields: f.Fields, Group: f.Group, Opcode: f.Opcode}
}

func (f Format) String() string {
	return fmt.Sprintf("%s{%s; group=%d; opcode=%d}",
		f.Mnemonic, f.Fields, f.Group, f.Opcode)
}

// Encoding is the (field mask, opcode group, opcode) triple that identifies a
// format inside an instruction word.
type Encoding struct {
	Fields FieldMask
	Group  uint8
	Opcode uint8
}

func (e Encoding) String() string {
	return fmt.Sprintf("{%s; group=%d; opcode=%d}", e.Fields, e.Group, e.Opcode)
}

// Table is an immutable instruction set: formats plus registers. Build one
// with a Builder.
type Table struct {
	name      string
	formats   []Format
	registers *Registers
}

// Name returns the name of the instruction set.
func (t *Table) Name() string {
	return t.name
}

// Registers returns the register table.
func (t *Table) Registers() *Registers {
	return t.registers
}

// Formats returns a copy of the formats in definition order.
func (t *Table) Formats() []Format {
	return append([]Format(nil), t.formats...)
}

// Len returns the number of formats.
func (t *Table) Len() int {
	return len(t.formats)
}

// LookupByMnemonic finds the format of a mnemonic. Mnemonics are
// case-sensitive. A Builder never produces duplicate mnemonics; a table that
// holds them anyway resolves to the first definition.
func (t *Table) LookupByMnemonic(mnemonic string) (Format, error) {
	for _, f := range t.formats {
		if f.Mnemonic == mnemonic {
			return f, nil
		}
	}

	return Format{}, asmerr.New(asmerr.UnknownMnemonic,
		"%q is not an instruction of %s", mnemonic, t.name).
		WithToken(mnemonic)
}

// LookupByEncoding finds the single format with the given decode key. It
// scans the whole table, so a definition that maps two formats onto the same
// key fails with AmbiguousEncoding instead of silently picking one.
func (t *Table) LookupByEncoding(key Encoding) (Format, error) {
	var (
		found   Format
		matches int
	)

	for _, f := range t.formats {
		if f.Key() == key {
			if matches == 0 {
				found = f
			}
			matches++
		}
	}

	switch matches {
	case 0:
		return Format{}, asmerr.New(asmerr.UnknownEncoding,
			"no instruction of %s is encoded as %s", t.name, key)
	case 1:
		return found, nil
	default:
		return Format{}, asmerr.New(asmerr.AmbiguousEncoding,
			"%d instructions of %s share encoding %s", matches, t.name, key)
	}
}
