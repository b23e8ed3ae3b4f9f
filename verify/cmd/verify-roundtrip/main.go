package main

import (
	"fmt"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/muasm/config"
	"github.com/sarchlab/muasm/isa"
	"github.com/sarchlab/muasm/verify"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintln(os.Stderr, "usage: verify-roundtrip <source.s> [isa.yaml|isa.toml]")
		atexit.Exit(2)
	}

	sourcePath := os.Args[1]

	table := config.Default()
	if len(os.Args) == 3 {
		file, err := config.ReadISAFile(os.Args[2])
		if err != nil {
			log.Fatalf("Failed to read ISA definition: %v", err)
		}

		if issues := verify.LintDefinition(file); len(issues) > 0 {
			fmt.Printf("ISA definition %s has %d issues:\n", os.Args[2], len(issues))
			for _, issue := range issues {
				fmt.Printf("  %s\n", issue)
			}
			atexit.Exit(1)
		}

		table = mustBuild(file)
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		log.Fatalf("Failed to open source: %v", err)
	}

	report, err := verify.GenerateReport(table, sourcePath, src)
	src.Close()
	if err != nil {
		log.Fatalf("Verification failed: %v", err)
	}

	report.WriteReport(os.Stdout)

	if !report.OK() {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func mustBuild(file config.ISAFile) *isa.Table {
	table, err := file.Build()
	if err != nil {
		log.Fatalf("Failed to build ISA: %v", err)
	}

	return table
}
