package rules

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"kbcheck/internal/manifest"
	"kbcheck/internal/report"
)

var tableSeparatorRe = regexp.MustCompile(`^\|[\s:\-|]+$`)

// CountTableRows counts body rows of the generated project table between
// the begin/end markers of the docs index. Returns found=false when either
// marker is absent. Header and separator lines are not rows.
func CountTableRows(data []byte, begin, end string) (rows int, found bool) {
	text := string(data)
	i := strings.Index(text, begin)
	if i < 0 {
		return 0, false
	}
	rest := text[i+len(begin):]
	j := strings.Index(rest, end)
	if j < 0 {
		return 0, false
	}

	header := false
	sc := bufio.NewScanner(bytes.NewReader([]byte(rest[:j])))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "|") {
			continue
		}
		if tableSeparatorRe.MatchString(line) {
			continue
		}
		if !header {
			header = true
			continue
		}
		rows++
	}
	return rows, true
}

// A row-count mismatch is recoverable by regenerating the table, so this
// is a warning. The issue carries no project: it belongs to the index.
var indexTableRule = GlobalRule{
	ID: "index-table",
	Check: func(in GlobalInput) []report.Issue {
		if !in.IndexTableFound {
			return []report.Issue{{RuleID: "index-table", Severity: report.SeverityWarning,
				Message: "project index table not found between its markers"}}
		}
		if in.IndexTableRows != len(in.Projects) {
			return []report.Issue{{RuleID: "index-table", Severity: report.SeverityWarning,
				Message: fmt.Sprintf("project index table lists %d rows for %d manifest projects",
					in.IndexTableRows, len(in.Projects))}}
		}
		return nil
	},
}

// coverageRule wants every pair of analyzed projects cross-referenced: the
// comparison matrix only stays useful if each analysis mentions its peers.
// Evaluated per direction, so two projects ignoring each other yield two
// warnings. Projects without a real doc are skipped here; status-doc
// already reports those.
var coverageRule = GlobalRule{
	ID: "xref-coverage",
	Check: func(in GlobalInput) []report.Issue {
		var qualifying []int
		for i, p := range in.Projects {
			if p.Status == manifest.StatusInProgress || p.Status == manifest.StatusDone {
				qualifying = append(qualifying, i)
			}
		}
		if len(qualifying) < 2 {
			return nil
		}

		var issues []report.Issue
		for _, ai := range qualifying {
			if !in.Snapshots[ai].HasDoc {
				continue
			}
			doc := strings.ToLower(in.Snapshots[ai].DocText)
			for _, bi := range qualifying {
				if ai == bi {
					continue
				}
				other := in.Projects[bi].Name
				if !strings.Contains(doc, strings.ToLower(other)) {
					issues = append(issues, report.Issue{
						Project:  in.Projects[ai].Name,
						RuleID:   "xref-coverage",
						Severity: report.SeverityWarning,
						Message:  fmt.Sprintf("documentation does not mention %q", other),
					})
				}
			}
		}
		return issues
	},
}
