package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReportBatch_CollisionSuffix(t *testing.T) {
	home := setupHome(t)

	// Two files with the same basename in different directories
	writeFile(t, filepath.Join(home, "d1", "site.csv"), incidentsCSV)
	writeFile(t, filepath.Join(home, "d2", "site.csv"), incidentsCSV)
	writeFile(t, filepath.Join(home, "d3", "site.csv"), "Timestamp,Area\n")
	outDir := filepath.Join(home, "reports")

	runCmd(t, "report-batch", filepath.Join(home, "d*", "site.csv"), "--out-dir", outDir, "--now", "2024-03-20", "--quiet")

	b1 := filepath.Join(outDir, "site.report.md")
	b2 := filepath.Join(outDir, "site__2.report.md")
	for _, p := range []string{b1, b2} {
		body, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("missing report %s: %v", p, err)
		}
		if !strings.Contains(string(body), "[SAFETY REPORT]") {
			t.Fatalf("unexpected report body in %s", p)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "site__3.report.md")); !os.IsNotExist(err) {
		t.Fatalf("empty input should be skipped")
	}
}

func TestReportBatch_NoMatches(t *testing.T) {
	home := setupHome(t)
	if err := execCmd("report-batch", filepath.Join(home, "missing", "*.csv")); err == nil {
		t.Fatalf("expected error for no matches")
	}
}

func TestExpandInputsDedupesAndSorts(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.csv"), "x\n")
	b := writeFile(t, filepath.Join(dir, "b.csv"), "x\n")
	got := expandInputs([]string{filepath.Join(dir, "*.csv"), a, filepath.Join(dir, "nope.csv")})
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("unexpected inputs: %v", got)
	}
}

func TestWatchFile_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "live.csv"), incidentsCSV)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 20*time.Millisecond, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher a moment to register, then keep writing until seen.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for seen := false; !seen; {
		select {
		case <-changed:
			seen = true
		case <-tick.C:
			if err := os.WriteFile(path, []byte(incidentsCSV), 0o644); err != nil {
				t.Fatalf("rewrite: %v", err)
			}
		case <-deadline:
			t.Fatalf("no reload after writing %s", path)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watch did not stop on cancel")
	}
}
