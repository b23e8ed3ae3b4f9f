package core

import (
	"github.com/sarchlab/muasm/asmerr"
	"github.com/sarchlab/muasm/instr"
	"github.com/sarchlab/muasm/isa"
)

// Bind resolves the operands of inst against the slot layout of format and
// returns the fields to encode. Operands are taken left to right; a slot the
// layout does not name must be empty, and a named slot must hold a register
// or an immediate as the slot requires.
func Bind(
	inst instr.Instruction,
	format isa.Format,
	symbols instr.SymbolTable,
	registers instr.RegisterIndexer,
) (Fields, error) {
	slots, ok := isa.Layout(format.Fields)
	if !ok {
		return Fields{}, asmerr.New(asmerr.InvalidTable,
			"%s uses field mask %s, which has no operand layout",
			format.Mnemonic, format.Fields).WithToken(format.Mnemonic)
	}

	f := Fields{
		Mask:   format.Fields,
		Group:  format.Group,
		Opcode: format.Opcode,
	}

	for i, token := range inst.Operands {
		if i >= len(slots) {
			if token != "" {
				return Fields{}, mismatch(format, i, "none", instr.Empty, token,
					"unexpected extra operand")
			}
			continue
		}

		slot := slots[i]
		want := instr.Immediate
		if slot.IsRegister() {
			want = instr.Register
		}

		if token == "" {
			return Fields{}, mismatch(format, i, slot.String(), want, token,
				"missing operand")
		}

		op, err := instr.Classify(token, symbols, registers)
		if err != nil {
			return Fields{}, err
		}

		if op.Kind != want {
			return Fields{}, mismatch(format, i, slot.String(), want, token,
				"got "+op.Kind.String())
		}

		switch slot {
		case isa.SlotRD:
			f.RD = uint8(op.Value)
		case isa.SlotRS1:
			f.RS1 = uint8(op.Value)
		case isa.SlotRS2:
			f.RS2 = uint8(op.Value)
		case isa.SlotIMM:
			f.IMM = op.Value
		}
	}

	return f, nil
}

func mismatch(
	format isa.Format,
	index int,
	slot string,
	want instr.Kind,
	token string,
	detail string,
) error {
	return asmerr.New(asmerr.OperandKindMismatch,
		"%s operand %d (slot %s): expected %s, %s",
		format.Mnemonic, index+1, slot, want, detail).WithToken(token)
}
