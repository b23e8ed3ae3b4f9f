// Package instr defines the source-level view of a program: parsed
// instructions, label definitions, the symbol table and the operand
// classifier that turns raw tokens into registers and immediates.
package instr

import (
	"fmt"
	"strings"

	"github.com/sarchlab/muasm/asmerr"
)

// WordSize is the number of bytes every instruction occupies.
const WordSize = 8

// MaxOperands is the number of positional operand slots in a source line.
const MaxOperands = 3

// Instruction is one parsed, not yet encoded, source instruction.
type Instruction struct {
	Text     string // the source line with the comment stripped
	Line     int    // 1-based
	Address  uint32
	Mnemonic string
	Operands [MaxOperands]string // absent operands are ""
}

// NumOperands returns the number of non-empty operand tokens.
func (i Instruction) NumOperands() int {
	n := 0
	for _, op := range i.Operands {
		if op != "" {
			n++
		}
	}
	return n
}

// String renders the instruction with single spaces between tokens.
func (i Instruction) String() string {
	parts := []string{i.Mnemonic}
	for _, op := range i.Operands {
		if op != "" {
			parts = append(parts, op)
		}
	}
	return strings.Join(parts, " ")
}

// Label binds a name to the address of the next instruction.
type Label struct {
	Name    string // includes the leading sigil
	Address uint32
	Line    int
}

func (l Label) String() string {
	return fmt.Sprintf("%s=0x%08x", l.Name, l.Address)
}

// SymbolTable maps label names, sigil included, to addresses.
type SymbolTable map[string]uint32

// Define adds a label. Redefining a name fails with DuplicateSymbol.
func (t SymbolTable) Define(l Label) error {
	if prev, dup := t[l.Name]; dup {
		return asmerr.New(asmerr.DuplicateSymbol,
			"label %s already defined at address 0x%08x", l.Name, prev).
			WithToken(l.Name)
	}

	t[l.Name] = l.Address
	return nil
}

// Lookup returns the address of a label.
func (t SymbolTable) Lookup(name string) (uint32, bool) {
	addr, ok := t[name]
	return addr, ok
}
