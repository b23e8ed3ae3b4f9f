package disasm

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/muasm/isa"
)

// Builder can create disassemblers.
type Builder struct {
	table *isa.Table
	hooks []sim.Hook
}

// NewBuilder creates a builder decoding the default instruction set.
func NewBuilder() Builder {
	return Builder{table: isa.Default()}
}

// WithISA sets the instruction set.
func (b Builder) WithISA(table *isa.Table) Builder {
	b.table = table
	return b
}

// WithHook registers a hook on every disassembler built.
func (b Builder) WithHook(hook sim.Hook) Builder {
	b.hooks = append(b.hooks[:len(b.hooks):len(b.hooks)], hook)
	return b
}

// Build creates a disassembler.
func (b Builder) Build() *Disassembler {
	d := &Disassembler{
		HookableBase: sim.NewHookableBase(),
		table:        b.table,
	}

	for _, h := range b.hooks {
		d.AcceptHook(h)
	}

	return d
}
