package report

import (
	"errors"
	"testing"
)

// TestPrintRunSummaryDoesNotPanic exercises every branch (clean run,
// warnings, fatal cycle) the way the teacher's formatter tests would,
// since color.New output isn't easily captured without a terminal.
func TestPrintRunSummaryDoesNotPanic(t *testing.T) {
	PrintRunSummary(RunSummary{
		Workspace:        "/ws",
		SeedTargets:      []string{"//p:bin"},
		TargetsCollected: 10,
		PackagesEmitted:  2,
	})
	PrintRunSummary(RunSummary{
		Workspace:    "/ws",
		UnknownRules: []string{"some_custom_rule"},
	})
	PrintRunSummary(RunSummary{
		Workspace:  "/ws",
		CycleError: errors.New("cycle detected: A -> B -> A"),
	})
}
