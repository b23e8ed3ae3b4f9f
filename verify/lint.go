package verify

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/sarchlab/muasm/config"
	"github.com/sarchlab/muasm/isa"
)

// LintTable checks an instruction set definition and returns one issue per
// problem. An empty result means the definition builds.
func LintTable(formats []isa.Format, registers []string) []Issue {
	err := isa.Validate(formats, registers)
	if err == nil {
		return nil
	}

	merr, ok := err.(*multierror.Error)
	if !ok {
		return []Issue{issueFromError(IssueTable, err)}
	}

	issues := make([]Issue, 0, len(merr.Errors))
	for _, e := range merr.Errors {
		issues = append(issues, issueFromError(IssueTable, e))
	}

	return issues
}

// LintISA checks a built table. Tables from isa.Builder always pass; the
// check guards tables assembled some other way.
func LintISA(t *isa.Table) []Issue {
	return LintTable(t.Formats(), t.Registers().Names())
}

// LintDefinition checks a definition document, including field lists that do
// not parse.
func LintDefinition(file config.ISAFile) []Issue {
	var (
		issues  []Issue
		formats []isa.Format
	)

	for i, def := range file.Formats {
		mask, err := isa.ParseFieldMask(def.Fields)
		if err != nil {
			issues = append(issues, Issue{
				Type:    IssueTable,
				Offset:  -1,
				Token:   def.Mnemonic,
				Message: fmt.Sprintf("format %d (%s): %v", i, def.Mnemonic, err),
				Details: map[string]interface{}{
					"format": def,
				},
			})
			continue
		}

		formats = append(formats, isa.Format{
			Mnemonic: def.Mnemonic,
			Fields:   mask,
			Group:    def.Group,
			Opcode:   def.Opcode,
		})
	}

	return append(issues, LintTable(formats, file.Registers)...)
}
