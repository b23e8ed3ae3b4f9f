package verify

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/muasm/asm"
	"github.com/sarchlab/muasm/asmerr"
	"github.com/sarchlab/muasm/core"
	"github.com/sarchlab/muasm/disasm"
	"github.com/sarchlab/muasm/instr"
	"github.com/sarchlab/muasm/isa"
)

// Canonical returns the text the disassembler is expected to print for inst:
// single spaces, register names, immediates and labels as 0x%08x.
func Canonical(
	inst instr.Instruction,
	symbols instr.SymbolTable,
	t *isa.Table,
) (string, error) {
	parts := []string{inst.Mnemonic}

	for _, token := range inst.Operands {
		op, err := instr.Classify(token, symbols, t.Registers())
		if err != nil {
			return "", err
		}

		switch op.Kind {
		case instr.Register:
			name, err := t.Registers().Name(uint8(op.Value))
			if err != nil {
				return "", err
			}
			parts = append(parts, name)
		case instr.Immediate:
			parts = append(parts, fmt.Sprintf("0x%08x", op.Value))
		}
	}

	return strings.Join(parts, " "), nil
}

// CheckRoundTrip scans r, then encodes and decodes every instruction on its
// own. Instructions that fail to encode, or whose disassembly differs from
// the canonical source, become issues. Only a failing scan is an error.
func CheckRoundTrip(t *isa.Table, r asm.LineReader) (*asm.Program, []Issue, error) {
	a := asm.NewBuilder().WithISA(t).Build()
	d := disasm.NewBuilder().WithISA(t).Build()

	p, err := a.Scan(r)
	if err != nil {
		return nil, nil, err
	}

	var issues []Issue
	for _, inst := range p.Instructions {
		word, err := a.EncodeInstruction(inst, p.Symbols)
		if err != nil {
			issues = append(issues, issueFromError(IssueRoundTrip, err))
			continue
		}

		want, err := Canonical(inst, p.Symbols, t)
		if err != nil {
			issues = append(issues, issueFromError(IssueRoundTrip, asmerr.AtLine(err, inst.Line)))
			continue
		}

		dec, err := d.DecodeWord(word)
		if err != nil {
			issues = append(issues, issueFromError(IssueRoundTrip, asmerr.AtLine(err, inst.Line)))
			continue
		}

		if dec.Text != want {
			issues = append(issues, Issue{
				Type:   IssueRoundTrip,
				Line:   inst.Line,
				Offset: -1,
				Token:  inst.Mnemonic,
				Message: fmt.Sprintf("%q disassembles as %q, expected %q",
					inst.Text, dec.Text, want),
				Details: map[string]interface{}{
					"word":   word.String(),
					"fields": dec.Fields,
				},
			})
		}
	}

	return p, issues, nil
}

// CheckWords decodes every word of r. Words that do not decode, and words
// whose unused fields are not zero, become issues, as does a trailing partial
// word. Only a failing reader is an error.
func CheckWords(t *isa.Table, r io.Reader) ([]Issue, error) {
	d := disasm.NewBuilder().WithISA(t).Build()
	buf := make([]byte, instr.WordSize)

	var issues []Issue
	for offset := int64(0); ; offset += instr.WordSize {
		n, err := io.ReadFull(r, buf)
		switch {
		case errors.Is(err, io.EOF):
			return issues, nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			return append(issues, Issue{
				Type:    IssueWord,
				Kind:    asmerr.TruncatedStream,
				Offset:  offset,
				Message: fmt.Sprintf("%d trailing bytes", n),
			}), nil
		case err != nil:
			return issues, fmt.Errorf("reading word at offset 0x%x: %w", offset, err)
		}

		w := core.WordFromBytes(buf)

		dec, err := d.DecodeWord(w)
		if err != nil {
			issue := issueFromError(IssueWord, err)
			issue.Offset = offset
			issue.Details = map[string]interface{}{
				"word":   w.String(),
				"fields": core.Decode(w),
			}
			issues = append(issues, issue)
			continue
		}

		if canonical := core.Encode(dec.Fields.Canonical()); canonical != w {
			issues = append(issues, Issue{
				Type:   IssueWord,
				Offset: offset,
				Token:  dec.Format.Mnemonic,
				Message: fmt.Sprintf("%s carries data outside the fields %s",
					dec.Text, dec.Format.Fields),
				Details: map[string]interface{}{
					"word":      w.String(),
					"canonical": canonical.String(),
					"stray":     (w ^ canonical).String(),
				},
			})
		}
	}
}
