// Package disasm turns instruction words back into assembly text.
package disasm

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/muasm/asmerr"
	"github.com/sarchlab/muasm/core"
	"github.com/sarchlab/muasm/instr"
	"github.com/sarchlab/muasm/isa"
)

// HookPosInstDecoded marks when a word has been decoded and written out.
var HookPosInstDecoded = &sim.HookPos{Name: "Inst Decoded"}

// LineWriter accepts rendered lines, without the trailing newline.
type LineWriter interface {
	WriteLine(line string) error
}

// Decoded is one disassembled word and the item of HookPosInstDecoded.
type Decoded struct {
	Offset int64
	Word   core.Word
	Format isa.Format
	Fields core.Fields
	Text   string
}

func (d Decoded) String() string {
	return fmt.Sprintf("0x%08x %s %s", d.Offset, d.Word, d.Text)
}

// Disassembler decodes words of one instruction set. It keeps no state
// between invocations.
type Disassembler struct {
	*sim.HookableBase

	table *isa.Table
}

// ISA returns the instruction set the disassembler decodes.
func (d *Disassembler) ISA() *isa.Table {
	return d.table
}

// Disassemble reads r in word-sized chunks and writes one line per word. A
// trailing partial word fails with TruncatedStream after every complete word
// has been written.
func (d *Disassembler) Disassemble(r io.Reader, w LineWriter) error {
	buf := make([]byte, instr.WordSize)
	offset := int64(0)

	for {
		n, err := io.ReadFull(r, buf)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			return asmerr.AtOffset(asmerr.New(asmerr.TruncatedStream,
				"%d trailing bytes do not form a %d-byte word",
				n, instr.WordSize), offset)
		case err != nil:
			return fmt.Errorf("reading word at offset 0x%x: %w", offset, err)
		}

		dec, err := d.DecodeWord(core.WordFromBytes(buf))
		if err != nil {
			return asmerr.AtOffset(err, offset)
		}
		dec.Offset = offset

		if err := w.WriteLine(dec.Text); err != nil {
			return fmt.Errorf("writing word at offset 0x%x: %w", offset, err)
		}

		d.invoke(dec)

		offset += instr.WordSize
	}
}

// DecodeWord decodes and renders a single word. The returned Offset is 0.
func (d *Disassembler) DecodeWord(word core.Word) (Decoded, error) {
	fields := core.Decode(word)

	format, err := d.table.LookupByEncoding(fields.Key())
	if err != nil {
		return Decoded{}, err
	}

	text, err := Render(format, fields, d.table.Registers())
	if err != nil {
		return Decoded{}, err
	}

	return Decoded{
		Word:   word,
		Format: format,
		Fields: fields,
		Text:   text,
	}, nil
}

// RegisterNamer resolves register indices.
type RegisterNamer interface {
	Name(index uint8) (string, error)
}

// Render prints the mnemonic followed by the fields the format carries, always
// in RD, RS1, RS2, IMM order. Immediates are printed as 0x%08x.
func Render(format isa.Format, fields core.Fields, registers RegisterNamer) (string, error) {
	var sb strings.Builder
	sb.WriteString(format.Mnemonic)

	regs := []struct {
		field isa.FieldMask
		slot  isa.Slot
		index uint8
	}{
		{isa.FieldRD, isa.SlotRD, fields.RD},
		{isa.FieldRS1, isa.SlotRS1, fields.RS1},
		{isa.FieldRS2, isa.SlotRS2, fields.RS2},
	}

	for _, r := range regs {
		if !format.Fields.Has(r.field) {
			continue
		}

		name, err := registers.Name(r.index)
		if err != nil {
			return "", asmerr.New(asmerr.UnknownEncoding,
				"%s of %s names register %d", r.slot, format.Mnemonic, r.index).
				Wrap(err)
		}

		sb.WriteByte(' ')
		sb.WriteString(name)
	}

	if format.Fields.Has(isa.FieldIMM) {
		fmt.Fprintf(&sb, " 0x%08x", fields.IMM)
	}

	return sb.String(), nil
}

func (d *Disassembler) invoke(dec Decoded) {
	if d.NumHooks() == 0 {
		return
	}

	d.InvokeHook(sim.HookCtx{
		Domain: d,
		Pos:    HookPosInstDecoded,
		Item:   dec,
	})
}
