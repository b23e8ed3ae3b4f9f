package asm

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"strings"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/muasm/asmerr"
	"github.com/sarchlab/muasm/core"
	"github.com/sarchlab/muasm/instr"
	"github.com/sarchlab/muasm/isa"
)

func lines(src string) LineReader {
	return bufio.NewScanner(strings.NewReader(src))
}

func words(b []byte) []core.Word {
	Expect(len(b) % instr.WordSize).To(BeZero())

	ws := make([]core.Word, 0, len(b)/instr.WordSize)
	for i := 0; i < len(b); i += instr.WordSize {
		ws = append(ws, core.Word(binary.LittleEndian.Uint64(b[i:])))
	}
	return ws
}

var _ = Describe("Assembler", func() {
	var (
		a   *Assembler
		out *bytes.Buffer
	)

	assemble := func(src string) ([]core.Word, error) {
		out.Reset()
		err := a.Assemble(lines(src), out)
		return words(out.Bytes()), err
	}

	BeforeEach(func() {
		a = NewBuilder().Build()
		out = new(bytes.Buffer)
	})

	Context("with the two-instruction table", func() {
		BeforeEach(func() {
			table := isa.NewBuilder("small").
				WithFormat("SET", isa.FieldRD|isa.FieldIMM, 0, 1).
				WithFormat("ADD", isa.FieldRD|isa.FieldRS1|isa.FieldRS2, 5, 1).
				WithRegisters("R0", "R1").
				MustBuild()
			a = NewBuilder().WithISA(table).Build()
		})

		It("should produce two little-endian words", func() {
			err := a.Assemble(lines("SET R0 0x05\nADD R1 R0 R0\n"), out)
			Expect(err).NotTo(HaveOccurred())

			Expect(out.Bytes()).To(Equal([]byte{
				0x05, 0x00, 0x00, 0x00, 0x00, 0x80, 0x00, 0x90,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x84, 0x80, 0xe2,
			}))
		})

		It("should not know instructions of other tables", func() {
			_, err := assemble("HALT")
			Expect(errors.Is(err, asmerr.UnknownMnemonic)).To(BeTrue())
		})
	})

	It("should resolve a label at index 0 to address 0", func() {
		ws, err := assemble("@LOOP\nJ @LOOP\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(ws).To(HaveLen(1))
		Expect(core.Decode(ws[0]).IMM).To(BeZero())
	})

	It("should resolve forward and backward references alike", func() {
		ws, err := assemble(`
			J @MID      ; forward
			NOP
			@MID
			NOP
			J @MID      ; backward
		`)
		Expect(err).NotTo(HaveOccurred())
		Expect(ws).To(HaveLen(4))
		Expect(ws[0]).To(Equal(ws[3]))
		Expect(core.Decode(ws[0]).IMM).To(Equal(uint32(16)))
	})

	It("should give the same words wherever labels sit between instructions", func() {
		first, err := assemble("@A\nSET R1 @B\n@B\nHALT\n")
		Expect(err).NotTo(HaveOccurred())

		second, err := assemble("SET R1 @B\n@A\n@B\nHALT\n")
		Expect(err).NotTo(HaveOccurred())

		Expect(first).To(Equal(second))
	})

	It("should skip comments and blank lines", func() {
		ws, err := assemble("; header\n\n   \n  NOP ; idle\n;\nHALT")
		Expect(err).NotTo(HaveOccurred())
		Expect(ws).To(HaveLen(2))
	})

	It("should scan without encoding", func() {
		p, err := a.Scan(lines("@START\nSET R0 1\n@END\nHALT\n"))
		Expect(err).NotTo(HaveOccurred())

		Expect(p.Labels).To(Equal([]instr.Label{
			{Name: "@START", Address: 0, Line: 1},
			{Name: "@END", Address: 8, Line: 3},
		}))
		Expect(p.Symbols).To(Equal(instr.SymbolTable{"@START": 0, "@END": 8}))
		Expect(p.Instructions).To(HaveLen(2))
		Expect(p.Instructions[1].Address).To(Equal(uint32(8)))
		Expect(p.Instructions[1].Line).To(Equal(4))
		Expect(p.Size()).To(Equal(16))
	})

	It("should keep the stripped source text", func() {
		p, err := a.Scan(lines("  ADD   R1 R2 R3   ; sum\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Instructions[0].Text).To(Equal("ADD   R1 R2 R3"))
	})

	DescribeTable("errors carry the kind and the line",
		func(src string, kind asmerr.Kind, line int) {
			_, err := assemble(src)
			Expect(errors.Is(err, kind)).To(BeTrue(), "got %v", err)

			var e *asmerr.Error
			Expect(errors.As(err, &e)).To(BeTrue())
			Expect(e.Line).To(Equal(line))
		},
		Entry("missing RS2", "NOP\nADD R0 R1\n", asmerr.OperandKindMismatch, 2),
		Entry("unknown mnemonic", "NOP\n\nFROB R0\n", asmerr.UnknownMnemonic, 3),
		Entry("unresolved label", "J @NOWHERE", asmerr.UnresolvedSymbol, 1),
		Entry("malformed hex", "SET R0 0xG", asmerr.MalformedLiteral, 1),
		Entry("out of range", "SET R0 0x100000000", asmerr.LiteralOutOfRange, 1),
		Entry("unknown operand", "MOV R0 FOO", asmerr.UnknownOperand, 1),
		Entry("duplicate label", "@X\nNOP\n@X\n", asmerr.DuplicateSymbol, 3),
		Entry("label with operands", "NOP\n@X NOP\n", asmerr.MalformedLine, 2),
		Entry("fourth operand", "ADD R0 R1 R2 R3", asmerr.OperandKindMismatch, 1),
	)

	It("should keep words written before a failure", func() {
		ws, err := assemble("NOP\nHALT\nADD R0\nNOP\n")
		Expect(errors.Is(err, asmerr.OperandKindMismatch)).To(BeTrue())
		Expect(ws).To(HaveLen(2))
	})

	It("should write nothing when the scan fails", func() {
		ws, err := assemble("NOP\n@X\n@X\n")
		Expect(err).To(HaveOccurred())
		Expect(ws).To(BeEmpty())
	})

	It("should serve several invocations", func() {
		first, err := assemble("@A\nJ @A")
		Expect(err).NotTo(HaveOccurred())

		second, err := assemble("NOP\n@A\nJ @A")
		Expect(err).NotTo(HaveOccurred())

		Expect(core.Decode(first[0]).IMM).To(BeZero())
		Expect(core.Decode(second[1]).IMM).To(Equal(uint32(8)))
	})
})

var _ = Describe("Assembler collaborators", func() {
	var (
		mockCtrl *gomock.Controller
		reader   *MockLineReader
		writer   *MockWriter
		hook     *MockHook
		a        *Assembler
	)

	expectLines := func(src ...string) {
		calls := make([]*gomock.Call, 0, 2*len(src)+2)
		for _, s := range src {
			calls = append(calls,
				reader.EXPECT().Scan().Return(true),
				reader.EXPECT().Text().Return(s),
			)
		}
		calls = append(calls, reader.EXPECT().Scan().Return(false))
		gomock.InOrder(calls...)
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		reader = NewMockLineReader(mockCtrl)
		writer = NewMockWriter(mockCtrl)
		hook = NewMockHook(mockCtrl)
		a = NewBuilder().WithHook(hook).Build()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should report a failing reader", func() {
		expectLines("NOP")
		reader.EXPECT().Err().Return(errors.New("disk gone"))
		hook.EXPECT().Func(gomock.Any())

		_, err := a.Scan(reader)
		Expect(err).To(MatchError(ContainSubstring("disk gone")))
	})

	It("should write one word per instruction", func() {
		expectLines("SET R0 5", "HALT")
		reader.EXPECT().Err().Return(nil)
		hook.EXPECT().Func(gomock.Any()).Times(4)

		writer.EXPECT().Write(gomock.Any()).
			DoAndReturn(func(b []byte) (int, error) {
				Expect(b).To(HaveLen(instr.WordSize))
				return len(b), nil
			}).Times(2)

		Expect(a.Assemble(reader, writer)).To(Succeed())
	})

	It("should stop at a failing writer", func() {
		expectLines("NOP", "HALT")
		reader.EXPECT().Err().Return(nil)
		hook.EXPECT().Func(gomock.Any()).Times(2)

		writer.EXPECT().Write(gomock.Any()).Return(0, errors.New("pipe closed"))

		err := a.Assemble(reader, writer)
		Expect(err).To(MatchError(ContainSubstring("pipe closed")))
		Expect(err).To(MatchError(ContainSubstring("line 1")))
	})

	It("should invoke hooks in pipeline order", func() {
		expectLines("@L", "J @L")
		reader.EXPECT().Err().Return(nil)
		writer.EXPECT().Write(gomock.Any()).Return(instr.WordSize, nil)

		var positions []*sim.HookPos
		hook.EXPECT().Func(gomock.Any()).
			Do(func(ctx sim.HookCtx) {
				Expect(ctx.Domain).To(BeIdenticalTo(a))
				positions = append(positions, ctx.Pos)
			}).Times(3)

		Expect(a.Assemble(reader, writer)).To(Succeed())
		Expect(positions).To(Equal([]*sim.HookPos{
			HookPosLabelDefined, HookPosInstParsed, HookPosInstEncoded,
		}))
	})
})
