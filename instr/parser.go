package instr

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/sarchlab/muasm/asmerr"
)

// CommentMarker starts a comment that runs to the end of the line.
const CommentMarker = ";"

// Statement is one non-empty source line: either a label definition or an
// instruction.
type Statement struct {
	Label *string          `  @Label`
	Inst  *InstructionStmt `| @@`
}

// InstructionStmt is the token sequence of an instruction line.
type InstructionStmt struct {
	Mnemonic string   `@Word`
	Operands []string `@(Word | Label)*`
}

var lineLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Label", Pattern: `@[^\s;]+`},
	{Name: "Word", Pattern: `[^\s;@][^\s;]*`},
})

var lineParser = participle.MustBuild[Statement](
	participle.Lexer(lineLexer),
	participle.Elide("Whitespace"),
)

// StripComment removes everything from the first comment marker on and trims
// the rest.
func StripComment(line string) string {
	if i := strings.Index(line, CommentMarker); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// ParseLine parses one raw source line. Blank and comment-only lines yield a
// nil statement and no error.
func ParseLine(raw string) (*Statement, error) {
	text := StripComment(raw)
	if text == "" {
		return nil, nil
	}

	stmt, err := lineParser.ParseString("", text)
	if err != nil {
		return nil, asmerr.New(asmerr.MalformedLine,
			"cannot parse %q", text).WithToken(text).Wrap(err)
	}

	return stmt, nil
}

// IsLabel reports whether the statement defines a label.
func (s *Statement) IsLabel() bool {
	return s.Label != nil
}

// ToLabel converts a label statement into a definition at address.
func (s *Statement) ToLabel(line int, address uint32) Label {
	return Label{Name: *s.Label, Address: address, Line: line}
}

// ToInstruction converts an instruction statement. More than three operands
// fail with OperandKindMismatch.
func (s *Statement) ToInstruction(
	text string,
	line int,
	address uint32,
) (Instruction, error) {
	inst := Instruction{
		Text:     text,
		Line:     line,
		Address:  address,
		Mnemonic: s.Inst.Mnemonic,
	}

	if len(s.Inst.Operands) > MaxOperands {
		extra := s.Inst.Operands[MaxOperands]
		return inst, asmerr.New(asmerr.OperandKindMismatch,
			"operand %d: expected %s, got %q; at most %d operands are allowed",
			MaxOperands+1, Empty, extra, MaxOperands).WithToken(extra)
	}

	copy(inst.Operands[:], s.Inst.Operands)

	return inst, nil
}
