package isa

import "fmt"

// Opcode groups of the default instruction set.
const (
	GroupMove    uint8 = 0
	GroupMemory  uint8 = 1
	GroupALU     uint8 = 5
	GroupALUImm  uint8 = 6
	GroupCompare uint8 = 8
	GroupBranch  uint8 = 10
	GroupStack   uint8 = 12
	GroupSystem  uint8 = 31
)

const (
	rdImm     = FieldRD | FieldIMM
	rdRs1     = FieldRD | FieldRS1
	rdRs1Rs2  = FieldRD | FieldRS1 | FieldRS2
	rdRs1Imm  = FieldRD | FieldRS1 | FieldIMM
	rs1Rs2    = FieldRS1 | FieldRS2
	rs1Imm    = FieldRS1 | FieldIMM
	rs1Only   = FieldRS1
	immOnly   = FieldIMM
	noOperand = FieldNone
)

var defaultFormats = []Format{
	// Data movement.
	{"SET", rdImm, GroupMove, 1},
	{"MOV", rdRs1, GroupMove, 2},

	// Memory. Register-relative and absolute loads use distinct mnemonics.
	{"LD", rdRs1Imm, GroupMemory, 1},
	{"LDA", rdImm, GroupMemory, 2},
	{"ST", rs1Rs2, GroupMemory, 3},
	{"STA", rs1Imm, GroupMemory, 4},

	// Register ALU.
	{"ADD", rdRs1Rs2, GroupALU, 1},
	{"SUB", rdRs1Rs2, GroupALU, 2},
	{"MUL", rdRs1Rs2, GroupALU, 3},
	{"DIV", rdRs1Rs2, GroupALU, 4},
	{"AND", rdRs1Rs2, GroupALU, 5},
	{"OR", rdRs1Rs2, GroupALU, 6},
	{"XOR", rdRs1Rs2, GroupALU, 7},
	{"SHL", rdRs1Rs2, GroupALU, 8},
	{"SHR", rdRs1Rs2, GroupALU, 9},
	{"NOT", rdRs1, GroupALU, 10},
	{"NEG", rdRs1, GroupALU, 11},

	// Immediate ALU.
	{"ADDI", rdRs1Imm, GroupALUImm, 1},
	{"SUBI", rdRs1Imm, GroupALUImm, 2},
	{"MULI", rdRs1Imm, GroupALUImm, 3},
	{"ANDI", rdRs1Imm, GroupALUImm, 5},
	{"ORI", rdRs1Imm, GroupALUImm, 6},
	{"XORI", rdRs1Imm, GroupALUImm, 7},
	{"SHLI", rdRs1Imm, GroupALUImm, 8},
	{"SHRI", rdRs1Imm, GroupALUImm, 9},

	// Compare.
	{"CMP", rs1Rs2, GroupCompare, 1},
	{"CMPI", rs1Imm, GroupCompare, 2},

	// Branch.
	{"J", immOnly, GroupBranch, 1},
	{"JEQ", immOnly, GroupBranch, 2},
	{"JNE", immOnly, GroupBranch, 3},
	{"JLT", immOnly, GroupBranch, 4},
	{"JGE", immOnly, GroupBranch, 5},
	{"JR", rs1Only, GroupBranch, 6},
	{"CALL", immOnly, GroupBranch, 7},
	{"RET", noOperand, GroupBranch, 8},

	// Stack and I/O.
	{"PUSH", rs1Only, GroupStack, 1},
	{"OUT", rs1Only, GroupStack, 2},
	{"OUTI", immOnly, GroupStack, 3},

	// System.
	{"NOP", noOperand, GroupSystem, 0},
	{"HALT", noOperand, GroupSystem, 1},
}

// DefaultRegisterNames returns R0 to R31.
func DefaultRegisterNames() []string {
	names := make([]string, MaxRegisters)
	for i := range names {
		names[i] = fmt.Sprintf("R%d", i)
	}
	return names
}

var defaultISA = NewBuilder("mu").
	WithFormats(defaultFormats...).
	WithRegisters(DefaultRegisterNames()...).
	MustBuild()

// Default returns the built-in instruction set.
func Default() *Table {
	return defaultISA
}
