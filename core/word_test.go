package core_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/muasm/core"
	"github.com/sarchlab/muasm/isa"
)

var _ = Describe("Word codec", func() {
	It("should place every field at its documented offset", func() {
		Expect(core.Encode(core.Fields{IMM: 1})).To(Equal(core.Word(1)))
		Expect(core.Encode(core.Fields{RS2: 1})).To(Equal(core.Word(1 << 32)))
		Expect(core.Encode(core.Fields{RS1: 1})).To(Equal(core.Word(1 << 37)))
		Expect(core.Encode(core.Fields{RD: 1})).To(Equal(core.Word(1 << 42)))
		Expect(core.Encode(core.Fields{Opcode: 1})).To(Equal(core.Word(1 << 47)))
		Expect(core.Encode(core.Fields{Group: 1})).To(Equal(core.Word(1 << 55)))
		Expect(core.Encode(core.Fields{Mask: 1})).To(Equal(core.Word(1 << 60)))
	})

	It("should tile the word without gaps or overlaps", func() {
		var covered uint64
		next := uint(0)

		layout := core.Layout()
		for i := len(layout) - 1; i >= 0; i-- {
			f := layout[i]
			Expect(f.Shift).To(Equal(next), f.Name)
			Expect(covered & (f.Mask() << f.Shift)).To(BeZero())
			covered |= f.Mask() << f.Shift
			next = f.Shift + f.Width
		}

		Expect(next).To(Equal(uint(64)))
		Expect(covered).To(Equal(^uint64(0)))
	})

	It("should encode the SET R0 0x05 word", func() {
		w := core.Encode(core.Fields{
			Mask:   isa.FieldRD | isa.FieldIMM,
			Group:  0,
			Opcode: 1,
			RD:     0,
			IMM:    5,
		})

		Expect(w).To(Equal(core.Word(0x9<<60 | 1<<47 | 5)))
	})

	It("should decode what it encodes for fields at their widths", func() {
		f := core.Fields{
			Mask:   0xf,
			Group:  0x1f,
			Opcode: 0xff,
			RD:     0x1f,
			RS1:    0x1f,
			RS2:    0x1f,
			IMM:    0xffffffff,
		}

		Expect(core.Encode(f)).To(Equal(core.Word(^uint64(0))))
		Expect(core.Decode(core.Encode(f))).To(Equal(f))
	})

	It("should round-trip random in-range tuples", func() {
		r := rand.New(rand.NewSource(1))

		for i := 0; i < 1000; i++ {
			f := core.Fields{
				Mask:   isa.FieldMask(r.Intn(16)),
				Group:  uint8(r.Intn(32)),
				Opcode: uint8(r.Intn(256)),
				RD:     uint8(r.Intn(32)),
				RS1:    uint8(r.Intn(32)),
				RS2:    uint8(r.Intn(32)),
				IMM:    r.Uint32(),
			}

			Expect(core.Decode(core.Encode(f))).To(Equal(f))
		}
	})

	It("should drop bits beyond a field width", func() {
		w := core.Encode(core.Fields{RD: 0x3f})
		Expect(core.Decode(w).RD).To(Equal(uint8(0x1f)))
		Expect(core.Decode(w).Opcode).To(BeZero())
	})

	It("should zero slots the mask does not name", func() {
		f := core.Fields{Mask: isa.FieldRS1, RD: 3, RS1: 4, RS2: 5, IMM: 6}
		Expect(f.Canonical()).To(Equal(core.Fields{Mask: isa.FieldRS1, RS1: 4}))
	})

	It("should lay words out little-endian", func() {
		w := core.Word(0x0102030405060708)
		b := core.AppendWord(nil, w)
		Expect(b).To(Equal([]byte{8, 7, 6, 5, 4, 3, 2, 1}))
		Expect(core.WordFromBytes(b)).To(Equal(w))
	})

	It("should explain a word field by field", func() {
		out := core.Explain(core.Word(0x9<<60 | 1<<47 | 5))
		Expect(out).To(ContainSubstring("RD,IMM"))
		Expect(out).To(ContainSubstring("0x00000005"))
		Expect(out).To(ContainSubstring("[47,55)"))
	})
})
