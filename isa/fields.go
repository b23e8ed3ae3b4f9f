package isa

import (
	"fmt"
	"strings"
)

// FieldMask is the 4-bit set of operand fields an instruction carries.
type FieldMask uint8

const (
	FieldIMM FieldMask = 1 << iota
	FieldRS2
	FieldRS1
	FieldRD

	FieldNone FieldMask = 0
)

// MaxFieldMask is the largest value a 4-bit mask can hold.
const MaxFieldMask = 0x0f

// Has reports whether all fields in f are present in m.
func (m FieldMask) Has(f FieldMask) bool {
	return m&f == f
}

var fieldNames = []struct {
	field FieldMask
	name  string
}{
	{FieldRD, "RD"},
	{FieldRS1, "RS1"},
	{FieldRS2, "RS2"},
	{FieldIMM, "IMM"},
}

// String renders the mask as "RD,RS1,IMM", or "NONE" for the empty mask.
func (m FieldMask) String() string {
	if m == FieldNone {
		return "NONE"
	}

	parts := make([]string, 0, 4)
	for _, f := range fieldNames {
		if m.Has(f.field) {
			parts = append(parts, f.name)
		}
	}

	if rest := m &^ (FieldRD | FieldRS1 | FieldRS2 | FieldIMM); rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint8(rest)))
	}

	return strings.Join(parts, ",")
}

// ParseFieldMask parses the String form back into a mask. Field names are
// case-insensitive; "NONE" and "" both mean the empty mask.
func ParseFieldMask(s string) (FieldMask, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "NONE") {
		return FieldNone, nil
	}

	var m FieldMask
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))

		found := false
		for _, f := range fieldNames {
			if f.name == part {
				if m.Has(f.field) {
					return 0, fmt.Errorf("field %s listed twice in %q", part, s)
				}
				m |= f.field
				found = true
				break
			}
		}

		if !found {
			return 0, fmt.Errorf("unknown field %q in %q", part, s)
		}
	}

	return m, nil
}

// Slot names one operand field of an instruction word.
type Slot int

const (
	SlotRD Slot = iota
	SlotRS1
	SlotRS2
	SlotIMM
)

func (s Slot) String() string {
	switch s {
	case SlotRD:
		return "RD"
	case SlotRS1:
		return "RS1"
	case SlotRS2:
		return "RS2"
	case SlotIMM:
		return "IMM"
	default:
		return fmt.Sprintf("Slot(%d)", int(s))
	}
}

// IsRegister reports whether the slot holds a register index.
func (s Slot) IsRegister() bool {
	return s != SlotIMM
}

// layouts maps every legal mask to the slots consumed, left to right, by the
// textual operands of an instruction.
var layouts = map[FieldMask][]Slot{
	FieldRD | FieldIMM:            {SlotRD, SlotIMM},
	FieldRD | FieldRS1:            {SlotRD, SlotRS1},
	FieldRD | FieldRS1 | FieldRS2: {SlotRD, SlotRS1, SlotRS2},
	FieldRD | FieldRS1 | FieldIMM: {SlotRD, SlotRS1, SlotIMM},
	FieldRS1 | FieldRS2:           {SlotRS1, SlotRS2},
	FieldRS1 | FieldIMM:           {SlotRS1, SlotIMM},
	FieldRS1:                      {SlotRS1},
	FieldIMM:                      {SlotIMM},
	FieldNone:                     {},
}

// Layout returns the ordered slot list of a mask. ok is false for masks that
// have no defined layout.
func Layout(m FieldMask) (slots []Slot, ok bool) {
	slots, ok = layouts[m]
	if !ok {
		return nil, false
	}

	return append([]Slot(nil), slots...), true
}

// LegalMasks lists the masks that have a layout, in ascending order.
func LegalMasks() []FieldMask {
	masks := make([]FieldMask, 0, len(layouts))
	for m := FieldMask(0); m <= MaxFieldMask; m++ {
		if _, ok := layouts[m]; ok {
			masks = append(masks, m)
		}
	}
	return masks
}
