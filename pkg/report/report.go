// Package report prints a colorized CLI summary of one pipeline run.
// Adapted from the teacher repo's pkg/output/formatter.go
// (PrintCoverageReport), replacing the source-file coverage percentage it
// reported with the pipeline's own run statistics: targets collected,
// unknown rules seen, targets pruned, and packages emitted.
package report

import (
	"fmt"

	"github.com/fatih/color"
)

// RunSummary carries the pipeline-run statistics PrintRunSummary renders.
type RunSummary struct {
	Workspace        string
	SeedTargets      []string
	TargetsCollected int
	UnknownRules     []string
	TargetsPruned    int
	PackagesEmitted  int
	CycleError       error
}

// PrintRunSummary prints a header, the collection/transform statistics,
// and a color-coded final status line: green on a clean run, yellow when
// unknown rules were seen but the run still completed, red on a fatal
// cycle.
func PrintRunSummary(s RunSummary) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Println("buildgraph - run summary")
	bold.Println("=========================")
	fmt.Printf("Workspace: %s\n", s.Workspace)
	fmt.Printf("Seeds: %d target(s)\n", len(s.SeedTargets))
	fmt.Printf("Collected: %d target(s)\n", s.TargetsCollected)

	if len(s.UnknownRules) > 0 {
		yellow.Printf("Unknown rules: %d\n", len(s.UnknownRules))
		for _, r := range s.UnknownRules {
			cyan.Printf("  %s\n", r)
		}
	} else {
		green.Println("Unknown rules: 0")
	}

	fmt.Printf("Pruned: %d target(s)\n", s.TargetsPruned)
	fmt.Printf("Emitted: %d package(s)\n", s.PackagesEmitted)
	fmt.Println()

	if s.CycleError != nil {
		red.Printf("FAILED: %v\n", s.CycleError)
		return
	}
	if len(s.UnknownRules) > 0 {
		yellow.Println("completed with warnings")
		return
	}
	green.Println("✓ run completed cleanly")
}
