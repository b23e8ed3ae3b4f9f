package asm

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/muasm/instr"
)

// ListingHook records assembler events and renders them as a listing.
type ListingHook struct {
	labels  []instr.Label
	encoded []Encoded
}

// NewListingHook creates an empty listing.
func NewListingHook() *ListingHook {
	return &ListingHook{}
}

// Func implements sim.Hook.
func (h *ListingHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case HookPosLabelDefined:
		h.labels = append(h.labels, ctx.Item.(instr.Label))
	case HookPosInstEncoded:
		h.encoded = append(h.encoded, ctx.Item.(Encoded))
	}
}

// Reset forgets everything recorded so far.
func (h *ListingHook) Reset() {
	h.labels = nil
	h.encoded = nil
}

// Len returns the number of encoded instructions recorded.
func (h *ListingHook) Len() int {
	return len(h.encoded)
}

type listingRow struct {
	line int
	row  table.Row
}

// Render returns the listing, in source order, followed by the symbol table.
func (h *ListingHook) Render() string {
	rows := make([]listingRow, 0, len(h.labels)+len(h.encoded))

	for _, l := range h.labels {
		rows = append(rows, listingRow{
			line: l.Line,
			row:  table.Row{l.Line, fmt.Sprintf("%08x", l.Address), "", l.Name},
		})
	}

	for _, e := range h.encoded {
		rows = append(rows, listingRow{
			line: e.Inst.Line,
			row: table.Row{
				e.Inst.Line,
				fmt.Sprintf("%08x", e.Inst.Address),
				fmt.Sprintf("%016x", uint64(e.Word)),
				"    " + e.Inst.Text,
			},
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].line < rows[j].line
	})

	listing := table.NewWriter()
	listing.SetTitle("Listing")
	listing.AppendHeader(table.Row{"Line", "Address", "Word", "Source"})
	for _, r := range rows {
		listing.AppendRow(r.row)
	}

	symbols := table.NewWriter()
	symbols.SetTitle("Symbols")
	symbols.AppendHeader(table.Row{"Label", "Address", "Line"})
	for _, l := range h.labels {
		symbols.AppendRow(table.Row{l.Name, fmt.Sprintf("%08x", l.Address), l.Line})
	}

	return listing.Render() + "\n\n" + symbols.Render() + "\n"
}
