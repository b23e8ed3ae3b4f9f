// Package verify provides checks that an instruction set definition and the
// encode/decode pipelines built on it agree with each other.
//
// Three complementary checks are implemented:
//
// 1. Table lint (lint.go): every problem of a definition, reported at once
//   - register names the operand classifier cannot reach
//   - field masks without an operand layout, opcode groups beyond 5 bits
//   - repeated mnemonics and repeated decode keys
//
// 2. Round trip (roundtrip.go): each source instruction is assembled,
// disassembled and compared with its canonical form.
//
// 3. Word check (roundtrip.go): each word of a binary must decode, and must
// encode back to the same bits. Words that carry data in fields their mask
// does not name decode fine but are reported.
//
// # Usage Example
//
//	table, _ := config.LoadISA("mu.yaml")
//	report, err := verify.GenerateReport(table, "prog.s", src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report.WriteReport(os.Stdout)
package verify

import (
	"errors"
	"fmt"

	"github.com/sarchlab/muasm/asmerr"
)

// IssueType categorizes issues.
type IssueType string

const (
	IssueTable     IssueType = "TABLE"     // definition error
	IssueRoundTrip IssueType = "ROUNDTRIP" // disassembly differs from the source
	IssueWord      IssueType = "WORD"      // word that does not decode or re-encode
)

// Issue represents a single finding.
type Issue struct {
	Type    IssueType
	Kind    asmerr.Kind // 0 if no error kind applies
	Line    int         // source line, 0 if not applicable
	Offset  int64       // byte offset, -1 if not applicable
	Token   string
	Message string
	Details map[string]interface{}
}

func (i Issue) String() string {
	loc := ""
	switch {
	case i.Line > 0:
		loc = fmt.Sprintf(" line %d", i.Line)
	case i.Offset >= 0:
		loc = fmt.Sprintf(" offset 0x%x", i.Offset)
	}

	return fmt.Sprintf("[%s%s] %s", i.Type, loc, i.Message)
}

// issueFromError converts a pipeline error into an issue.
func issueFromError(t IssueType, err error) Issue {
	issue := Issue{Type: t, Offset: -1, Message: err.Error()}

	var e *asmerr.Error
	if errors.As(err, &e) {
		issue.Kind = e.Kind
		issue.Line = e.Line
		issue.Offset = e.Offset
		issue.Token = e.Token
		issue.Message = e.Msg
		if e.Err != nil {
			issue.Message += ": " + e.Err.Error()
		}
	}

	return issue
}
