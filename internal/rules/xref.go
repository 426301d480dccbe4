package rules

import (
	"fmt"
	"strings"

	"kbcheck/internal/report"
)

var docPlaceholdersRule = Rule{
	ID: "doc-placeholders",
	Check: func(in Input) []report.Issue {
		if !in.Snapshot.HasDoc || len(in.Snapshot.DocMarkers) == 0 {
			return nil
		}
		return []report.Issue{issue(in, "doc-placeholders", report.SeverityError,
			fmt.Sprintf("documentation contains %d unresolved template marker(s): %s",
				len(in.Snapshot.DocMarkers), strings.Join(in.Snapshot.DocMarkers, ", ")))}
	},
}

// Parity rules only fire when the overview file exists; a missing overview
// is the companion-file warning, not a parity error per directory.

var demoUnlistedRule = Rule{
	ID: "demo-unlisted",
	Check: func(in Input) []report.Issue {
		if !in.Snapshot.OverviewPresent {
			return nil
		}
		listed := map[string]bool{}
		for _, e := range in.Snapshot.OverviewEntries {
			listed[e.Name] = true
		}
		var issues []report.Issue
		for _, dir := range in.Snapshot.DemoEntries {
			if !listed[dir] {
				issues = append(issues, issue(in, "demo-unlisted", report.SeverityError,
					fmt.Sprintf("demo directory %q is not listed in the overview", dir)))
			}
		}
		return issues
	},
}

var overviewPhantomRule = Rule{
	ID: "overview-phantom",
	Check: func(in Input) []report.Issue {
		if !in.Snapshot.OverviewPresent {
			return nil
		}
		dirs := map[string]bool{}
		for _, dir := range in.Snapshot.DemoEntries {
			dirs[dir] = true
		}
		var issues []report.Issue
		for _, e := range in.Snapshot.OverviewEntries {
			if e.Complete && !dirs[e.Name] {
				issues = append(issues, issue(in, "overview-phantom", report.SeverityError,
					fmt.Sprintf("overview marks %q complete but no demo directory exists", e.Name)))
			}
		}
		return issues
	},
}

var overviewMissingRule = Rule{
	ID: "overview-missing",
	Check: func(in Input) []report.Issue {
		if len(in.Snapshot.DemoEntries) > 0 && !in.Snapshot.OverviewPresent {
			return []report.Issue{issue(in, "overview-missing", report.SeverityWarning,
				"demo directories exist but the overview file is missing")}
		}
		return nil
	},
}
