package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/blazeintel/havf-core/internal/ledger"
)

func TestHumanizeModTime_ZeroValueReportsUnknown(t *testing.T) {
	if got := humanizeModTime(time.Time{}); got != "unknown" {
		t.Errorf("humanizeModTime(zero) = %q, want %q", got, "unknown")
	}
}

func TestHumanizeModTime_NonZeroIncludesAgoSuffix(t *testing.T) {
	got := humanizeModTime(time.Now().Add(-10 * time.Minute))
	if !strings.Contains(got, "ago)") {
		t.Errorf("humanizeModTime = %q, want it to mention how long ago", got)
	}
}

func TestFormatRun_StillRunningHasNoFinishedTime(t *testing.T) {
	run := ledger.Run{Status: ledger.StatusRunning, RowCount: 0, FinishedAt: nil}
	got := formatRun(run)
	if !strings.Contains(got, "finished running") {
		t.Errorf("formatRun(running) = %q", got)
	}
}

func TestFormatRun_FinishedIncludesRowCountAndElapsed(t *testing.T) {
	finishedAt := time.Now().Add(-5 * time.Minute)
	run := ledger.Run{Status: ledger.StatusDone, RowCount: 17, FinishedAt: &finishedAt}
	got := formatRun(run)

	if !strings.Contains(got, "17 rows") {
		t.Errorf("formatRun = %q, want it to mention the row count", got)
	}
	if !strings.Contains(got, "ago") {
		t.Errorf("formatRun = %q, want it to mention elapsed time", got)
	}
}
