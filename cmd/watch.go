package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/safetylens-cli/internal/report"
	"github.com/KaramelBytes/safetylens-cli/internal/session"
)

const watchDebounce = 200 * time.Millisecond

var (
	watchFlags  viewFlags
	watchReport bool
	watchNow    string
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-render the dashboard (or report) whenever the file changes",
	Long: `Watch a detections export and re-render on every write. Each change
reloads the file from scratch, then re-applies the filter and selection flags.
Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		loc, err := settings().Location()
		if err != nil {
			return err
		}
		s := session.New(loc, log)
		render := func() {
			if err := reload(s, path, watchFlags.sheet); err != nil {
				if isEmpty(err, path) {
					return
				}
				fmt.Fprintf(os.Stderr, "✗ Reload failed: %v\n", err)
				log.Warn("watch.reload", "path", path, "err", err)
				return
			}
			if err := renderWatch(s); err != nil {
				fmt.Fprintf(os.Stderr, "✗ Render failed: %v\n", err)
				log.Warn("watch.render", "path", path, "err", err)
			}
		}
		render()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		fmt.Printf("✓ Watching %s (Ctrl-C to stop)\n", path)
		return watchFile(ctx, path, watchDebounce, render)
	},
}

func renderWatch(s *session.State) error {
	if err := watchFlags.apply(s); err != nil {
		if !errors.Is(err, session.ErrUnknownIncident) {
			return err
		}
		fmt.Printf("⚠ %v; rendering without that selection\n", err)
	}
	now, err := parseNow(watchNow)
	if err != nil {
		return err
	}
	snap := s.Snapshot()
	fmt.Printf("✓ Loaded %s (%d rows, dataset %s)\n", snap.Name, snap.Rows, snap.DatasetID)
	if watchReport {
		r := buildReport(snap, reportOptions(now))
		return emit(watchFlags.format, watchFlags.output, &r, "report")
	}
	d := report.BuildDashboard(snap, reportOptions(now))
	return emit(watchFlags.format, watchFlags.output, &d, "dashboard")
}

// watchFile calls onChange after writes to path settle for delay. It watches
// the parent directory so editors that replace the file are still seen.
// Returns when ctx is done.
func watchFile(ctx context.Context, path string, delay time.Duration, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != filepath.Base(path) || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(delay)
			fire = timer.C
		case <-fire:
			fire = nil
			log.Debug("watch.reload", "path", path)
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch.error", "err", err)
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchFlags.register(watchCmd)
	watchCmd.Flags().BoolVar(&watchReport, "report", false, "render the weekly report instead of the dashboard")
	watchCmd.Flags().StringVar(&watchNow, "now", "", "anchor for week-over-week windows: RFC3339 or YYYY-MM-DD")
}
