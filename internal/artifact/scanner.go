// Package artifact inspects the file system for the artifacts belonging to
// a tracked project: analysis doc, demo tree, overview checklist, and the
// mirrored upstream checkout. All passes are read-only.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"kbcheck/internal/manifest"
	"kbcheck/internal/support"
)

// Layout holds the paths the scanner derives artifact locations from.
// Everything is derived from the project name, so `name` stays the stable
// key across all four artifact kinds.
type Layout struct {
	Root         string
	DocsDir      string // analysis docs, <DocsDir>/<name>.md
	TemplateFile string // shared doc template with placeholder markers
	DemosDir     string // demo trees, <DemosDir>/<name>/<mechanism>/
	TemplateDir  string // shared demo scaffold dir name, never a demo entry
	OverviewFile string // checklist filename inside a project's demo root
	MirrorsDir   string // local checkouts, <MirrorsDir>/<name>/
}

func (l Layout) DocPath(name string) string {
	return filepath.Join(l.Root, l.DocsDir, name+".md")
}

func (l Layout) DemoRoot(name string) string {
	return filepath.Join(l.Root, l.DemosDir, name)
}

func (l Layout) OverviewPath(name string) string {
	return filepath.Join(l.DemoRoot(name), l.OverviewFile)
}

func (l Layout) MirrorPath(name string) string {
	return filepath.Join(l.Root, l.MirrorsDir, name)
}

// Snapshot is the per-project artifact state, computed fresh on every run
// and never persisted.
type Snapshot struct {
	HasDoc          bool
	DocText         string   // full doc text, consumed by the coverage rule
	DocMarkers      []string // template placeholder markers still present
	HasMirror       bool
	MirrorHead      string // "" when no checkout or no .git pointer
	DemoEntries     []string
	OverviewPresent bool
	OverviewEntries []ChecklistEntry
}

var markerRe = regexp.MustCompile(`(?s)<!--.*?-->`)

// Scanner evaluates artifact presence for projects under one layout. The
// template's marker set is read once at construction.
type Scanner struct {
	layout  Layout
	markers []string
}

// NewScanner reads the shared doc template so stub detection can compare
// against its placeholder markers. A missing template is tolerated: stub
// detection then falls back to treating any HTML comment as a placeholder.
func NewScanner(layout Layout) *Scanner {
	s := &Scanner{layout: layout}
	data, err := os.ReadFile(filepath.Join(layout.Root, layout.TemplateFile))
	if err == nil {
		s.markers = uniqueMarkers(markerRe.FindAllString(string(support.StripBOM(data)), -1))
	}
	return s
}

// Scan builds the snapshot for one project. Expected absences (no doc, no
// mirror, no overview) are data; only genuine I/O failures return an error.
func (s *Scanner) Scan(ctx context.Context, p manifest.Project) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := &Snapshot{}

	if err := s.scanDoc(p.Name, snap); err != nil {
		return nil, err
	}
	if err := s.scanDemos(p.Name, snap); err != nil {
		return nil, err
	}

	mirror := s.layout.MirrorPath(p.Name)
	snap.HasMirror = dirNonEmpty(mirror)
	if snap.HasMirror {
		snap.MirrorHead = MirrorHead(ctx, mirror)
	}
	return snap, nil
}

func (s *Scanner) scanDoc(name string, snap *Snapshot) error {
	data, err := os.ReadFile(s.layout.DocPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read doc for %s: %w", name, err)
	}
	text := string(support.StripBOM(data))
	if strings.TrimSpace(text) == "" {
		return nil
	}
	snap.DocText = text

	if len(s.markers) > 0 {
		for _, m := range s.markers {
			if strings.Contains(text, m) {
				snap.DocMarkers = append(snap.DocMarkers, m)
			}
		}
		// Real iff at least one template placeholder has been replaced.
		snap.HasDoc = len(snap.DocMarkers) < len(s.markers)
		return nil
	}

	// No template available: any remaining HTML comment counts as an
	// unfilled placeholder.
	snap.DocMarkers = uniqueMarkers(markerRe.FindAllString(text, -1))
	snap.HasDoc = len(snap.DocMarkers) == 0
	return nil
}

func (s *Scanner) scanDemos(name string, snap *Snapshot) error {
	entries, err := os.ReadDir(s.layout.DemoRoot(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read demo root for %s: %w", name, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if e.Name() == s.layout.TemplateDir || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		snap.DemoEntries = append(snap.DemoEntries, e.Name())
	}

	data, err := os.ReadFile(s.layout.OverviewPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read overview for %s: %w", name, err)
	}
	snap.OverviewPresent = true
	snap.OverviewEntries = ParseChecklist(support.StripBOM(data))
	return nil
}

func dirNonEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}

func uniqueMarkers(found []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range found {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
