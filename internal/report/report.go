// Package report collects rule findings into a deterministic, ordered
// report. The grouped body contains no timestamps so repeated runs against
// unchanged state produce byte-identical output.
package report

// Severity of a finding. Errors block the caller via exit code 1; warnings
// inform and never block by default.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one reported inconsistency. A repo-level issue (index table
// mismatch) carries an empty Project.
type Issue struct {
	Project  string   `json:"project,omitempty"`
	RuleID   string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Group holds all issues for one project, in rule registration order.
type Group struct {
	Project string  `json:"project"`
	Issues  []Issue `json:"issues"`
}

// Report is the aggregated outcome of one validation pass.
type Report struct {
	Groups   []Group `json:"groups"`
	Errors   int     `json:"errors"`
	Warnings int     `json:"warnings"`
}

// Build groups issues by project: a repo-level group first, then projects
// in manifest order. Issue order within a group follows the input slice,
// which the engine emits in rule registration order.
func Build(order []string, issues []Issue) *Report {
	rep := &Report{}
	byProject := map[string][]Issue{}
	for _, is := range issues {
		byProject[is.Project] = append(byProject[is.Project], is)
		switch is.Severity {
		case SeverityError:
			rep.Errors++
		case SeverityWarning:
			rep.Warnings++
		}
	}
	if repo := byProject[""]; len(repo) > 0 {
		rep.Groups = append(rep.Groups, Group{Project: "", Issues: repo})
	}
	for _, name := range order {
		if proj := byProject[name]; len(proj) > 0 {
			rep.Groups = append(rep.Groups, Group{Project: name, Issues: proj})
		}
	}
	return rep
}

// ExitCode is 1 when any error-severity issue exists, 0 otherwise
// regardless of warning count.
func (r *Report) ExitCode() int {
	if r.Errors > 0 {
		return 1
	}
	return 0
}
