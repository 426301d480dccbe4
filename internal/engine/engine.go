// Package engine orchestrates one validation pass: manifest load, parallel
// artifact scans, rule evaluation, report aggregation. A run is a pure
// function of the current manifest plus the current file system; nothing
// here owns long-lived state.
package engine

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"kbcheck/internal/artifact"
	"kbcheck/internal/config"
	"kbcheck/internal/manifest"
	"kbcheck/internal/report"
	"kbcheck/internal/rules"
	"kbcheck/internal/support"
)

// Options tune a single run.
type Options struct {
	// Filter restricts the pass to one project by name. Repo-wide rules
	// are skipped in filtered runs; they need the full project set.
	Filter string
}

// Result is a completed validation pass.
type Result struct {
	Projects []manifest.Project
	Report   *report.Report
}

// Run executes one validation pass. Manifest problems return an error
// before any report exists; if the context is cancelled, partial results
// are discarded rather than reported.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	projects, err := manifest.Load(cfg.ManifestPath())
	if err != nil {
		return nil, err
	}

	selected := projects
	if opts.Filter != "" {
		selected = nil
		for _, p := range projects {
			if p.Name == opts.Filter {
				selected = append(selected, p)
			}
		}
		if len(selected) == 0 {
			return nil, fmt.Errorf("project %q is not in the manifest", opts.Filter)
		}
	}

	snaps, err := snapshotAll(ctx, cfg, selected)
	if err != nil {
		return nil, err
	}

	var issues []report.Issue
	for i, p := range selected {
		in := rules.Input{Project: p, Snapshot: snaps[i]}
		for _, r := range rules.Registry() {
			issues = append(issues, r.Check(in)...)
		}
	}

	if opts.Filter == "" {
		gin := rules.GlobalInput{Projects: selected, Snapshots: snaps}
		if data, err := os.ReadFile(cfg.IndexPath()); err == nil {
			gin.IndexTableRows, gin.IndexTableFound = rules.CountTableRows(
				support.StripBOM(data), cfg.Docs.TableBegin, cfg.Docs.TableEnd)
		}
		for _, r := range rules.GlobalRegistry() {
			issues = append(issues, r.Check(gin)...)
		}
	}

	order := make([]string, len(selected))
	for i, p := range selected {
		order[i] = p.Name
	}
	return &Result{Projects: selected, Report: report.Build(order, issues)}, nil
}

// snapshotAll scans projects with a bounded worker pool. Results land in a
// slice indexed by manifest position, so parallelism never reorders the
// final report.
func snapshotAll(ctx context.Context, cfg *config.Config, projects []manifest.Project) ([]*artifact.Snapshot, error) {
	scanner := artifact.NewScanner(artifact.Layout{
		Root:         cfg.Root,
		DocsDir:      cfg.Docs.Dir,
		TemplateFile: cfg.Docs.Template,
		DemosDir:     cfg.Demos.Dir,
		TemplateDir:  cfg.Demos.TemplateDir,
		OverviewFile: cfg.Demos.Overview,
		MirrorsDir:   cfg.Mirrors,
	})

	snaps := make([]*artifact.Snapshot, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Scan.Parallelism)
	for i := range projects {
		i := i
		g.Go(func() error {
			snap, err := scanner.Scan(gctx, projects[i])
			if err != nil {
				return err
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snaps, nil
}
