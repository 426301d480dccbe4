package rules

import (
	"fmt"
	"strings"

	"kbcheck/internal/report"
)

// DriftState is the relation between the commit an analysis was written
// against and the current head of the local mirror.
type DriftState int

const (
	// DriftUnknown means there is nothing to compare: no analyzed commit
	// recorded, or no local checkout. Not an error, simply no opinion.
	DriftUnknown DriftState = iota
	DriftInSync
	DriftBehind
)

func (s DriftState) String() string {
	switch s {
	case DriftInSync:
		return "in_sync"
	case DriftBehind:
		return "behind"
	default:
		return "unknown"
	}
}

// Detect compares the recorded analyzed commit against the mirror head.
// analyzed_commit is often abbreviated while `git rev-parse` returns the
// full 40-char SHA, so a prefix match counts as in sync.
func Detect(analyzedCommit, mirrorHead string) DriftState {
	if analyzedCommit == "" || mirrorHead == "" {
		return DriftUnknown
	}
	a := strings.ToLower(analyzedCommit)
	h := strings.ToLower(mirrorHead)
	if strings.HasPrefix(h, a) || strings.HasPrefix(a, h) {
		return DriftInSync
	}
	return DriftBehind
}

// Drift is a warning, not an error: documentation lagging upstream is an
// expected state between analyses, not a defect to block commits on. The
// re-analysis workflow consumes the behind signal as its trigger.
var driftRule = Rule{
	ID: "drift",
	Check: func(in Input) []report.Issue {
		if Detect(in.Project.AnalyzedCommit, in.Snapshot.MirrorHead) != DriftBehind {
			return nil
		}
		return []report.Issue{issue(in, "drift", report.SeverityWarning,
			fmt.Sprintf("mirror head %s differs from analyzed commit %s",
				in.Snapshot.MirrorHead, in.Project.AnalyzedCommit))}
	},
}
