package isa

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/sarchlab/muasm/asmerr"
)

// MaxRegisters is the number of indices a 5-bit register field can address.
const MaxRegisters = 32

// LabelSigil starts every label name.
const LabelSigil = "@"

// HexPrefix starts every hexadecimal literal.
const HexPrefix = "0x"

// ErrRegisterOutOfRange is returned by Registers.Name for an index with no
// register behind it.
var ErrRegisterOutOfRange = errors.New("register index out of range")

// Registers is an ordered list of register names. The position of a name is
// its register index.
type Registers struct {
	names []string
	index map[string]uint8
}

// NewRegisters builds a register table. Names must be unique and must not be
// shadowed by a literal or label in the operand classifier.
func NewRegisters(names ...string) (*Registers, error) {
	if len(names) > MaxRegisters {
		return nil, asmerr.New(asmerr.InvalidTable,
			"%d registers defined, at most %d fit in a register field",
			len(names), MaxRegisters)
	}

	r := &Registers{
		names: append([]string(nil), names...),
		index: make(map[string]uint8, len(names)),
	}

	for i, name := range names {
		if err := CheckRegisterName(name); err != nil {
			return nil, err
		}

		if prev, dup := r.index[name]; dup {
			return nil, asmerr.New(asmerr.InvalidTable,
				"register %q defined at index %d and %d", name, prev, i).
				WithToken(name)
		}

		r.index[name] = uint8(i)
	}

	return r, nil
}

// CheckRegisterName rejects names the operand classifier could never reach:
// empty names, names with whitespace or a comment marker, numeric names, and
// names that start with the label sigil or the hex prefix.
func CheckRegisterName(name string) error {
	fail := func(why string) error {
		return asmerr.New(asmerr.InvalidTable, "register name %q %s", name, why).
			WithToken(name)
	}

	switch {
	case name == "":
		return fail("is empty")
	case strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return fail("contains whitespace")
	case strings.Contains(name, ";"):
		return fail("contains the comment marker")
	case strings.HasPrefix(name, LabelSigil):
		return fail("starts with the label sigil")
	case strings.HasPrefix(name, HexPrefix):
		return fail("starts with the hex prefix")
	}

	if isAllDigits(name) {
		return fail("is numeric")
	}

	return nil
}

func isAllDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// Index returns the register number of name.
func (r *Registers) Index(name string) (uint8, bool) {
	i, ok := r.index[name]
	return i, ok
}

// Name returns the name of register index i.
func (r *Registers) Name(i uint8) (string, error) {
	if int(i) >= len(r.names) {
		return "", fmt.Errorf("%w: %d (%d registers defined)",
			ErrRegisterOutOfRange, i, len(r.names))
	}
	return r.names[i], nil
}

// Len returns the number of registers.
func (r *Registers) Len() int {
	return len(r.names)
}

// Names returns a copy of the register names in index order.
func (r *Registers) Names() []string {
	return append([]string(nil), r.names...)
}
