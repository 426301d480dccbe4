package rules

import (
	"fmt"

	"kbcheck/internal/manifest"
	"kbcheck/internal/report"
)

// The status machine never changes status itself; it only flags records
// whose declared lifecycle state disagrees with the artifacts on disk.
// Promotion stays with the human or AI editor.

var statusDocRule = Rule{
	ID: "status-doc",
	Check: func(in Input) []report.Issue {
		switch in.Project.Status {
		case manifest.StatusDone, manifest.StatusInProgress:
			if !in.Snapshot.HasDoc {
				return []report.Issue{issue(in, "status-doc", report.SeverityError,
					fmt.Sprintf("missing documentation (status %s, no filled-in analysis doc)", in.Project.Status))}
			}
		case manifest.StatusPending:
			if in.Snapshot.HasDoc {
				// Likely a stale status after analysis started.
				return []report.Issue{issue(in, "status-doc", report.SeverityWarning,
					"documentation exists but status is still pending")}
			}
		}
		return nil
	},
}

var statusMirrorRule = Rule{
	ID: "status-mirror",
	Check: func(in Input) []report.Issue {
		if in.Project.Status == manifest.StatusInProgress && !in.Snapshot.HasMirror {
			return []report.Issue{issue(in, "status-mirror", report.SeverityError,
				"no mirror checkout for in_progress project")}
		}
		return nil
	},
}

var statusDemosRule = Rule{
	ID: "status-demos",
	Check: func(in Input) []report.Issue {
		if in.Project.Status == manifest.StatusDone && len(in.Snapshot.DemoEntries) == 0 {
			return []report.Issue{issue(in, "status-demos", report.SeverityWarning,
				"status done but no demo directories exist")}
		}
		return nil
	},
}
