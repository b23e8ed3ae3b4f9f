package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/muasm/isa"
)

// LevelTrace is the slog level of pipeline events.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs msg at LevelTrace with the default logger.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// TraceHook logs every hook event it receives.
type TraceHook struct{}

// Func implements sim.Hook.
func (h TraceHook) Func(ctx sim.HookCtx) {
	if !slog.Default().Enabled(context.Background(), LevelTrace) {
		return
	}

	Trace(ctx.Pos.Name, "item", fmt.Sprint(ctx.Item))
}

// Explain renders one word field by field, most significant field first.
func Explain(w Word) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Word %s", w))
	t.AppendHeader(table.Row{"Field", "Bits", "Binary", "Value"})

	for _, f := range Layout() {
		v := f.Get(w)
		t.AppendRow(table.Row{
			f.Name,
			fmt.Sprintf("[%d,%d)", f.Shift, f.Shift+f.Width),
			fmt.Sprintf("%0*b", int(f.Width), v),
			explainValue(f, v),
		})
	}

	return t.Render()
}

func explainValue(f BitField, v uint64) string {
	switch f {
	case BitsMask:
		return fmt.Sprintf("0x%x (%s)", v, isa.FieldMask(v))
	case BitsIMM:
		return fmt.Sprintf("0x%08x", v)
	default:
		return fmt.Sprintf("%d", v)
	}
}
