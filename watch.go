package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"kbcheck/internal/support"
)

// runWatch re-runs the check whenever the knowledge base changes, keeping
// a rotated history of reports. Output under the report directory is
// ignored so the engine's own writes never retrigger it.
func runWatch(ctx context.Context, stop <-chan struct{}) int {
	root := cfg.Root
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: watch init failed: %v\n", err)
		return 1
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, root, cfg.Output.Dir); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: watch failed: %v\n", err)
		return 1
	}

	var timer *time.Timer
	debounce := 300 * time.Millisecond
	trigger := func() {
		code := runCheck(ctx, checkOptions{Quiet: true})
		writeHistorySnapshot(root, code)
	}

	trigger()

	for {
		select {
		case <-stop:
			return 0
		case <-ctx.Done():
			return 0
		case ev := <-watcher.Events:
			if ignoredPath(ev.Name, cfg.Output.Dir) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, trigger)
		case err := <-watcher.Errors:
			fmt.Fprintf(os.Stderr, "ERROR: watch error: %v\n", err)
		}
	}
}

func addWatchRecursive(w *fsnotify.Watcher, root, outputDir string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if ignoredPath(path, outputDir) || info.Name() == ".git" {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func ignoredPath(path, outputDir string) bool {
	sep := string(filepath.Separator)
	return strings.Contains(path, sep+outputDir+sep) || strings.HasSuffix(path, sep+outputDir)
}

// writeHistorySnapshot archives the current report.json under
// <output>/history/<utc>_<sha>_<status>.report.json and rotates old
// snapshots by age and count.
func writeHistorySnapshot(root string, exitCode int) {
	reportPath := filepath.Join(cfg.OutputDir(), "report.json")
	data, err := os.ReadFile(reportPath)
	if err != nil {
		return
	}
	status := "PASS"
	if exitCode != 0 {
		status = "FAIL"
	}
	sha := gitShortSHA(root)
	ts := time.Now().UTC().Format("20060102_150405")
	name := fmt.Sprintf("%s_%s_%s.report.json", ts, sha, status)
	historyDir := filepath.Join(cfg.OutputDir(), "history")
	_ = support.WriteFileAtomic(filepath.Join(historyDir, name), data)
	rotateHistory(historyDir)
}

func rotateHistory(historyDir string) {
	entries, err := os.ReadDir(historyDir)
	if err != nil {
		return
	}
	type item struct {
		name string
		time time.Time
	}
	items := []item{}
	for _, e := range entries {
		name := e.Name()
		if len(name) < 15 {
			continue
		}
		t, err := time.Parse("20060102_150405", name[:15])
		if err != nil {
			continue
		}
		items = append(items, item{name: name, time: t})
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -cfg.History.KeepDays)
	for _, it := range items {
		if it.time.Before(cutoff) {
			_ = os.Remove(filepath.Join(historyDir, it.name))
		}
	}
	entries, _ = os.ReadDir(historyDir)
	if len(entries) <= cfg.History.MaxSnapshots {
		return
	}
	sort.Slice(items, func(i, j int) bool { return items[i].time.Before(items[j].time) })
	excess := len(entries) - cfg.History.MaxSnapshots
	for i := 0; i < excess && i < len(items); i++ {
		_ = os.Remove(filepath.Join(historyDir, items[i].name))
	}
}

func gitShortSHA(dir string) string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "nogit"
	}
	return strings.TrimSpace(string(out))
}
