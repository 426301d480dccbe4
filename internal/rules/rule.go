// Package rules holds the consistency rules as a registry of pure
// functions. Adding a check means appending one function; the engine
// invokes every registered rule uniformly, so evaluation order (and with
// it report order) is fixed by registration order alone.
package rules

import (
	"kbcheck/internal/artifact"
	"kbcheck/internal/manifest"
	"kbcheck/internal/report"
)

// Input is what a per-project rule sees: one manifest record plus the
// fresh artifact snapshot for that project.
type Input struct {
	Project  manifest.Project
	Snapshot *artifact.Snapshot
}

// Rule is a pure, composable per-project check.
type Rule struct {
	ID    string
	Check func(in Input) []report.Issue
}

// GlobalInput is what a repo-wide rule sees. Snapshots are indexed in
// manifest order, parallel to Projects. The index table stats are
// precomputed by the engine from the docs index file.
type GlobalInput struct {
	Projects        []manifest.Project
	Snapshots       []*artifact.Snapshot
	IndexTableFound bool
	IndexTableRows  int
}

// GlobalRule needs the whole project set at once; the pairwise coverage
// check cannot be expressed per project.
type GlobalRule struct {
	ID    string
	Check func(in GlobalInput) []report.Issue
}

// Registry returns the per-project rules in registration order.
func Registry() []Rule {
	return []Rule{
		statusDocRule,
		statusMirrorRule,
		statusDemosRule,
		docPlaceholdersRule,
		demoUnlistedRule,
		overviewPhantomRule,
		overviewMissingRule,
		driftRule,
	}
}

// GlobalRegistry returns the repo-wide rules in registration order.
func GlobalRegistry() []GlobalRule {
	return []GlobalRule{
		indexTableRule,
		coverageRule,
	}
}

func issue(in Input, rule string, sev report.Severity, msg string) report.Issue {
	return report.Issue{Project: in.Project.Name, RuleID: rule, Severity: sev, Message: msg}
}
