package instr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/muasm/asmerr"
	"github.com/sarchlab/muasm/isa"
)

// Kind is what an operand token turned out to be.
type Kind int

const (
	Empty Kind = iota
	Register
	Immediate
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Register:
		return "register"
	case Immediate:
		return "immediate"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Operand is a classified operand token. Value holds the register index for
// registers and the number for immediates. Symbol is set when the immediate
// came from a label.
type Operand struct {
	Kind   Kind
	Value  uint32
	Symbol string
	Token  string
}

func (o Operand) String() string {
	switch o.Kind {
	case Empty:
		return "<empty>"
	case Register:
		return fmt.Sprintf("%s(r%d)", o.Token, o.Value)
	default:
		if o.Symbol != "" {
			return fmt.Sprintf("%s(0x%x)", o.Symbol, o.Value)
		}
		return fmt.Sprintf("0x%x", o.Value)
	}
}

// RegisterIndexer resolves register names.
type RegisterIndexer interface {
	Index(name string) (uint8, bool)
}

// Classify interprets one operand token. The first matching rule wins:
// empty, label reference, hexadecimal literal, decimal literal, register.
func Classify(
	token string,
	symbols SymbolTable,
	registers RegisterIndexer,
) (Operand, error) {
	op := Operand{Token: token}

	switch {
	case token == "":
		return op, nil

	case strings.HasPrefix(token, isa.LabelSigil):
		addr, ok := symbols.Lookup(token)
		if !ok {
			return op, asmerr.New(asmerr.UnresolvedSymbol,
				"label %s is never defined", token).WithToken(token)
		}
		op.Kind = Immediate
		op.Value = addr
		op.Symbol = token
		return op, nil

	case strings.HasPrefix(token, isa.HexPrefix):
		v, err := strconv.ParseUint(token[len(isa.HexPrefix):], 16, 32)
		if err != nil {
			return op, literalError(token, "hexadecimal", err)
		}
		op.Kind = Immediate
		op.Value = uint32(v)
		return op, nil
	}

	if v, err := strconv.ParseUint(token, 10, 32); err == nil {
		op.Kind = Immediate
		op.Value = uint32(v)
		return op, nil
	} else if errors.Is(err, strconv.ErrRange) {
		return op, literalError(token, "decimal", err)
	}

	idx, ok := registers.Index(token)
	if !ok {
		return op, asmerr.New(asmerr.UnknownOperand,
			"%q is neither a literal, a label nor a register", token).
			WithToken(token)
	}

	op.Kind = Register
	op.Value = uint32(idx)
	return op, nil
}

func literalError(token, base string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return asmerr.New(asmerr.LiteralOutOfRange,
			"%s literal %s does not fit in 32 bits", base, token).
			WithToken(token)
	}

	return asmerr.New(asmerr.MalformedLiteral,
		"%q is not a valid %s literal", token, base).
		WithToken(token).Wrap(err)
}
