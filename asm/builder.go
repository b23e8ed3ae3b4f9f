package asm

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/muasm/isa"
)

// Builder can create assemblers.
type Builder struct {
	table *isa.Table
	hooks []sim.Hook
}

// NewBuilder creates a builder targeting the default instruction set.
func NewBuilder() Builder {
	return Builder{table: isa.Default()}
}

// WithISA sets the instruction set.
func (b Builder) WithISA(table *isa.Table) Builder {
	b.table = table
	return b
}

// WithHook registers a hook on every assembler built.
func (b Builder) WithHook(hook sim.Hook) Builder {
	b.hooks = append(b.hooks[:len(b.hooks):len(b.hooks)], hook)
	return b
}

// Build creates an assembler.
func (b Builder) Build() *Assembler {
	a := &Assembler{
		HookableBase: sim.NewHookableBase(),
		table:        b.table,
	}

	for _, h := range b.hooks {
		a.AcceptHook(h)
	}

	return a
}
