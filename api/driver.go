// Package api provides the Driver, a facade that connects plain readers and
// writers to the assembler and the disassembler.
package api

import (
	"bufio"
	"io"

	"github.com/sarchlab/muasm/asm"
	"github.com/sarchlab/muasm/disasm"
	"github.com/sarchlab/muasm/isa"
)

// MaxLineLength is the longest source line the driver accepts.
const MaxLineLength = 1 << 20

// Driver assembles and disassembles whole streams.
type Driver interface {
	// ISA returns the instruction set both directions use.
	ISA() *isa.Table

	// Assemble reads source text from src and writes instruction words to
	// dst.
	Assemble(src io.Reader, dst io.Writer) error

	// Disassemble reads instruction words from src and writes one line of
	// text per word to dst.
	Disassemble(src io.Reader, dst io.Writer) error
}

type driverImpl struct {
	table        *isa.Table
	assembler    *asm.Assembler
	disassembler *disasm.Disassembler
}

func (d *driverImpl) ISA() *isa.Table {
	return d.table
}

func (d *driverImpl) Assemble(src io.Reader, dst io.Writer) error {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineLength)

	w := bufio.NewWriter(dst)
	err := d.assembler.Assemble(scanner, w)
	if ferr := w.Flush(); err == nil {
		err = ferr
	}

	return err
}

func (d *driverImpl) Disassemble(src io.Reader, dst io.Writer) error {
	w := &lineWriter{w: bufio.NewWriter(dst)}
	err := d.disassembler.Disassemble(bufio.NewReader(src), w)
	if ferr := w.w.Flush(); err == nil {
		err = ferr
	}

	return err
}

// lineWriter terminates every line with a newline.
type lineWriter struct {
	w *bufio.Writer
}

func (l *lineWriter) WriteLine(line string) error {
	if _, err := l.w.WriteString(line); err != nil {
		return err
	}
	return l.w.WriteByte('\n')
}
