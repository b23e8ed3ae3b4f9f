package api

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/muasm/asm"
	"github.com/sarchlab/muasm/disasm"
	"github.com/sarchlab/muasm/isa"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	table *isa.Table
	hooks []sim.Hook
}

// MakeDriverBuilder creates a builder that uses the default instruction set.
func MakeDriverBuilder() DriverBuilder {
	return DriverBuilder{table: isa.Default()}
}

// WithISA sets the instruction set.
func (b DriverBuilder) WithISA(table *isa.Table) DriverBuilder {
	b.table = table
	return b
}

// WithHook registers a hook on both the assembler and the disassembler.
func (b DriverBuilder) WithHook(hook sim.Hook) DriverBuilder {
	b.hooks = append(b.hooks[:len(b.hooks):len(b.hooks)], hook)
	return b
}

// Build creates a driver.
func (b DriverBuilder) Build() Driver {
	ab := asm.NewBuilder().WithISA(b.table)
	db := disasm.NewBuilder().WithISA(b.table)

	for _, h := range b.hooks {
		ab = ab.WithHook(h)
		db = db.WithHook(h)
	}

	return &driverImpl{
		table:        b.table,
		assembler:    ab.Build(),
		disassembler: db.Build(),
	}
}
