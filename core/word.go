// Package core packs resolved instruction fields into 64-bit words and
// unpacks them again. The bit position of every field is defined once, in
// the field table of this file, and both directions read it.
package core

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/muasm/instr"
	"github.com/sarchlab/muasm/isa"
)

// Word is one encoded instruction.
type Word uint64

func (w Word) String() string {
	return fmt.Sprintf("0x%016x", uint64(w))
}

// BitField is a contiguous run of bits inside a Word.
type BitField struct {
	Name  string
	Shift uint
	Width uint
}

// Mask returns the right-aligned mask of the field.
func (f BitField) Mask() uint64 {
	return 1<<f.Width - 1
}

// Get extracts the field from w.
func (f BitField) Get(w Word) uint64 {
	return (uint64(w) >> f.Shift) & f.Mask()
}

// Put returns w with the field set to v. Bits of v beyond the field width are
// dropped.
func (f BitField) Put(w Word, v uint64) Word {
	w &^= Word(f.Mask() << f.Shift)
	return w | Word((v&f.Mask())<<f.Shift)
}

// The word layout. Bit 0 is the least significant bit.
var (
	BitsIMM    = BitField{Name: "IMM", Shift: 0, Width: 32}
	BitsRS2    = BitField{Name: "RS2", Shift: 32, Width: 5}
	BitsRS1    = BitField{Name: "RS1", Shift: 37, Width: 5}
	BitsRD     = BitField{Name: "RD", Shift: 42, Width: 5}
	BitsOpcode = BitField{Name: "OPCODE", Shift: 47, Width: 8}
	BitsGroup  = BitField{Name: "GROUP", Shift: 55, Width: 5}
	BitsMask   = BitField{Name: "FIELDS", Shift: 60, Width: 4}
)

// Layout lists the bit fields from the most significant down.
func Layout() []BitField {
	return []BitField{
		BitsMask, BitsGroup, BitsOpcode, BitsRD, BitsRS1, BitsRS2, BitsIMM,
	}
}

// Fields is the unpacked content of a Word.
type Fields struct {
	Mask   isa.FieldMask
	Group  uint8
	Opcode uint8
	RD     uint8
	RS1    uint8
	RS2    uint8
	IMM    uint32
}

// Key returns the decode key carried by the fields.
func (f Fields) Key() isa.Encoding {
	return isa.Encoding{Fields: f.Mask, Group: f.Group, Opcode: f.Opcode}
}

// Canonical returns f with every slot the mask does not name set to zero.
func (f Fields) Canonical() Fields {
	if !f.Mask.Has(isa.FieldRD) {
		f.RD = 0
	}
	if !f.Mask.Has(isa.FieldRS1) {
		f.RS1 = 0
	}
	if !f.Mask.Has(isa.FieldRS2) {
		f.RS2 = 0
	}
	if !f.Mask.Has(isa.FieldIMM) {
		f.IMM = 0
	}
	return f
}

func (f Fields) String() string {
	return fmt.Sprintf("{%s; group=%d; opcode=%d; rd=%d; rs1=%d; rs2=%d; imm=0x%08x}",
		f.Mask, f.Group, f.Opcode, f.RD, f.RS1, f.RS2, f.IMM)
}

// Encode packs fields into a word.
func Encode(f Fields) Word {
	var w Word
	w = BitsIMM.Put(w, uint64(f.IMM))
	w = BitsRS2.Put(w, uint64(f.RS2))
	w = BitsRS1.Put(w, uint64(f.RS1))
	w = BitsRD.Put(w, uint64(f.RD))
	w = BitsOpcode.Put(w, uint64(f.Opcode))
	w = BitsGroup.Put(w, uint64(f.Group))
	w = BitsMask.Put(w, uint64(f.Mask))
	return w
}

// Decode unpacks a word.
func Decode(w Word) Fields {
	return Fields{
		Mask:   isa.FieldMask(BitsMask.Get(w)),
		Group:  uint8(BitsGroup.Get(w)),
		Opcode: uint8(BitsOpcode.Get(w)),
		RD:     uint8(BitsRD.Get(w)),
		RS1:    uint8(BitsRS1.Get(w)),
		RS2:    uint8(BitsRS2.Get(w)),
		IMM:    uint32(BitsIMM.Get(w)),
	}
}

// AppendWord appends the little-endian bytes of w to b.
func AppendWord(b []byte, w Word) []byte {
	return binary.LittleEndian.AppendUint64(b, uint64(w))
}

// WordFromBytes reads a little-endian word from the first WordSize bytes of b.
func WordFromBytes(b []byte) Word {
	return Word(binary.LittleEndian.Uint64(b[:instr.WordSize]))
}
