package verify

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/muasm/asm"
	"github.com/sarchlab/muasm/isa"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// VerificationReport represents a complete verification report.
type VerificationReport struct {
	ISA          string
	Source       string
	Instructions int
	Labels       int
	Bytes        int

	TableIssues     []Issue
	RoundTripIssues []Issue
	WordIssues      []Issue

	AssembleErr error
}

// GenerateReport lints the table, round-trips every instruction of src and
// checks the words of the assembled program. name labels the source in the
// report.
func GenerateReport(t *isa.Table, name string, src io.Reader) (*VerificationReport, error) {
	text, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	report := &VerificationReport{
		ISA:         t.Name(),
		Source:      name,
		TableIssues: LintISA(t),
	}

	p, issues, err := CheckRoundTrip(t, bufio.NewScanner(bytes.NewReader(text)))
	if err != nil {
		report.AssembleErr = err
		return report, nil
	}

	report.Instructions = len(p.Instructions)
	report.Labels = len(p.Labels)
	report.RoundTripIssues = issues

	var bin bytes.Buffer
	a := asm.NewBuilder().WithISA(t).Build()
	if err := a.Encode(p, &bin); err != nil {
		report.AssembleErr = err
	}
	report.Bytes = bin.Len()

	report.WordIssues, err = CheckWords(t, &bin)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// Issues returns every issue in stage order.
func (r *VerificationReport) Issues() []Issue {
	all := make([]Issue, 0,
		len(r.TableIssues)+len(r.RoundTripIssues)+len(r.WordIssues))
	all = append(all, r.TableIssues...)
	all = append(all, r.RoundTripIssues...)
	return append(all, r.WordIssues...)
}

// OK reports whether every stage passed.
func (r *VerificationReport) OK() bool {
	return r.AssembleErr == nil && len(r.Issues()) == 0
}

// WriteReport writes a formatted report to a writer.
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "VERIFICATION REPORT: %s against %s\n", r.Source, r.ISA)
	fmt.Fprintln(w, separator)

	writeStage(w, "STAGE 1: TABLE LINT", r.TableIssues)
	writeStage(w, "STAGE 2: ROUND TRIP", r.RoundTripIssues)
	writeStage(w, "STAGE 3: WORD CHECK", r.WordIssues)

	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.SetTitle("Summary")
	summary.AppendRows([]table.Row{
		{"Instructions", r.Instructions},
		{"Labels", r.Labels},
		{"Bytes", r.Bytes},
		{"Table issues", len(r.TableIssues)},
		{"Round-trip issues", len(r.RoundTripIssues)},
		{"Word issues", len(r.WordIssues)},
	})

	assembly := "SUCCESS"
	if r.AssembleErr != nil {
		assembly = "FAILED: " + r.AssembleErr.Error()
	}
	summary.AppendRow(table.Row{"Assembly", assembly})
	summary.Render()

	if r.OK() {
		fmt.Fprintln(w, "PASSED ALL CHECKS")
	} else {
		fmt.Fprintln(w, "CHECKS FAILED")
	}
}

func writeStage(w io.Writer, title string, issues []Issue) {
	fmt.Fprintf(w, "\n%s\n", title)

	if len(issues) == 0 {
		fmt.Fprintln(w, "No issues found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Kind", "Where", "Message", "Details"})

	for i, issue := range issues {
		kind := "-"
		if issue.Kind != 0 {
			kind = issue.Kind.String()
		}

		where := "-"
		switch {
		case issue.Line > 0:
			where = fmt.Sprintf("line %d", issue.Line)
		case issue.Offset >= 0:
			where = fmt.Sprintf("0x%x", issue.Offset)
		}

		details := ""
		if issue.Details != nil {
			details = strings.TrimSpace(dumper.Sdump(issue.Details))
		}

		t.AppendRow(table.Row{i + 1, kind, where, issue.Message, details})
	}

	t.Render()
}

// SaveReportToFile saves the report to a file.
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
