package isa

import (
	"github.com/hashicorp/go-multierror"

	"github.com/sarchlab/muasm/asmerr"
)

// Builder can build instruction set tables.
type Builder struct {
	name      string
	formats   []Format
	registers []string
}

// NewBuilder creates a builder for an instruction set with the given name.
func NewBuilder(name string) Builder {
	return Builder{name: name}
}

// WithName sets the name of the instruction set.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithFormat appends one instruction format.
func (b Builder) WithFormat(
	mnemonic string,
	fields FieldMask,
	group, opcode uint8,
) Builder {
	return b.WithFormats(Format{
		Mnemonic: mnemonic,
		Fields:   fields,
		Group:    group,
		Opcode:   opcode,
	})
}

// WithFormats appends instruction formats.
func (b Builder) WithFormats(formats ...Format) Builder {
	b.formats = append(b.formats[:len(b.formats):len(b.formats)], formats...)
	return b
}

// WithRegisters sets the register names, in index order.
func (b Builder) WithRegisters(names ...string) Builder {
	b.registers = append([]string(nil), names...)
	return b
}

// Build validates the definition and creates the table. All problems are
// reported at once; see Validate.
func (b Builder) Build() (*Table, error) {
	if err := Validate(b.formats, b.registers); err != nil {
		return nil, err
	}

	regs, err := NewRegisters(b.registers...)
	if err != nil {
		return nil, err
	}

	return &Table{
		name:      b.name,
		formats:   append([]Format(nil), b.formats...),
		registers: regs,
	}, nil
}

// MustBuild is like Build but panics on an invalid definition. It is meant
// for tables written in Go source.
func (b Builder) MustBuild() *Table {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// Validate checks an instruction set definition. The returned error is a
// *multierror.Error whose entries are *asmerr.Error values: AmbiguousEncoding
// for formats sharing a decode key, InvalidTable for everything else.
func Validate(formats []Format, registers []string) error {
	var result *multierror.Error

	if len(registers) > MaxRegisters {
		result = multierror.Append(result, asmerr.New(asmerr.InvalidTable,
			"%d registers defined, at most %d fit in a register field",
			len(registers), MaxRegisters))
	}

	regSeen := make(map[string]int, len(registers))
	for i, name := range registers {
		if err := CheckRegisterName(name); err != nil {
			result = multierror.Append(result, err)
			continue
		}

		if prev, dup := regSeen[name]; dup {
			result = multierror.Append(result, asmerr.New(asmerr.InvalidTable,
				"register %q defined at index %d and %d", name, prev, i).
				WithToken(name))
			continue
		}
		regSeen[name] = i
	}

	mnemonicSeen := make(map[string]int, len(formats))
	keySeen := make(map[Encoding]int, len(formats))

	for i, f := range formats {
		if f.Mnemonic == "" {
			result = multierror.Append(result, asmerr.New(asmerr.InvalidTable,
				"format %d has no mnemonic", i))
		}

		if _, ok := layouts[f.Fields]; !ok {
			result = multierror.Append(result, asmerr.New(asmerr.InvalidTable,
				"%s uses field mask %s, which has no operand layout",
				f.Mnemonic, f.Fields).WithToken(f.Mnemonic))
		}

		if f.Group > MaxGroup {
			result = multierror.Append(result, asmerr.New(asmerr.InvalidTable,
				"%s uses opcode group %d, the group field holds at most %d",
				f.Mnemonic, f.Group, MaxGroup).WithToken(f.Mnemonic))
		}

		if prev, dup := mnemonicSeen[f.Mnemonic]; dup && f.Mnemonic != "" {
			result = multierror.Append(result, asmerr.New(asmerr.InvalidTable,
				"mnemonic %s defined by formats %d and %d; "+
					"each addressing form needs its own mnemonic",
				f.Mnemonic, prev, i).WithToken(f.Mnemonic))
		} else {
			mnemonicSeen[f.Mnemonic] = i
		}

		if prev, dup := keySeen[f.Key()]; dup {
			result = multierror.Append(result, asmerr.New(asmerr.AmbiguousEncoding,
				"%s and %s share encoding %s",
				formats[prev].Mnemonic, f.Mnemonic, f.Key()).
				WithToken(f.Mnemonic))
		} else {
			keySeen[f.Key()] = i
		}
	}

	return result.ErrorOrNil()
}
