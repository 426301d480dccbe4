package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"kbcheck/internal/artifact"
	"kbcheck/internal/manifest"
	"kbcheck/internal/report"
)

const testIndex = `# Tracked projects

<!-- projects:begin -->
| Project | Status | Analyzed |
|---------|--------|----------|
| aider | done | 2026-05-01 |
| codex-cli | in_progress | — |
| nanoclaw | pending | — |
<!-- projects:end -->

Hand-written prose below the table is ignored.
| this pipe line is outside the markers |
`

func TestCountTableRows(t *testing.T) {
	rows, found := CountTableRows([]byte(testIndex), "<!-- projects:begin -->", "<!-- projects:end -->")
	if !found {
		t.Fatal("table not found")
	}
	if rows != 3 {
		t.Errorf("rows = %d, want 3", rows)
	}

	if _, found := CountTableRows([]byte("no markers here"), "<!-- projects:begin -->", "<!-- projects:end -->"); found {
		t.Error("found a table where no markers exist")
	}
	if _, found := CountTableRows([]byte("<!-- projects:begin -->\n| a | b |"), "<!-- projects:begin -->", "<!-- projects:end -->"); found {
		t.Error("found a table with an unterminated marker pair")
	}
}

func TestIndexTableRule(t *testing.T) {
	three := []manifest.Project{
		{Name: "aider", Repo: "r", Status: manifest.StatusDone},
		{Name: "codex-cli", Repo: "r", Status: manifest.StatusInProgress},
		{Name: "nanoclaw", Repo: "r", Status: manifest.StatusPending},
	}

	if got := indexTableRule.Check(GlobalInput{Projects: three, IndexTableFound: true, IndexTableRows: 3}); len(got) != 0 {
		t.Fatalf("matching row count should be clean, got %v", got)
	}

	issues := indexTableRule.Check(GlobalInput{Projects: three, IndexTableFound: true, IndexTableRows: 2})
	if len(issues) != 1 || issues[0].Severity != report.SeverityWarning || issues[0].Project != "" {
		t.Fatalf("row mismatch should be one repo-level warning, got %v", issues)
	}

	issues = indexTableRule.Check(GlobalInput{Projects: three, IndexTableFound: false})
	if len(issues) != 1 || issues[0].Severity != report.SeverityWarning {
		t.Fatalf("missing table should be one warning, got %v", issues)
	}
}

func coverageInput(t *testing.T, statuses []manifest.Status, docs []string) GlobalInput {
	t.Helper()
	names := []string{"aider", "codex-cli", "nanoclaw"}
	in := GlobalInput{}
	for i, st := range statuses {
		in.Projects = append(in.Projects, manifest.Project{Name: names[i], Repo: "r", Status: st})
		in.Snapshots = append(in.Snapshots, &artifact.Snapshot{HasDoc: docs[i] != "", DocText: docs[i]})
	}
	return in
}

func TestCoverageRuleBothDirections(t *testing.T) {
	// Two done projects ignoring each other: one warning per direction.
	in := coverageInput(t,
		[]manifest.Status{manifest.StatusDone, manifest.StatusDone},
		[]string{"# aider\nstandalone analysis\n", "# codex-cli\nstandalone analysis\n"})
	got := coverageRule.Check(in)
	want := []report.Issue{
		{Project: "aider", RuleID: "xref-coverage", Severity: report.SeverityWarning, Message: `documentation does not mention "codex-cli"`},
		{Project: "codex-cli", RuleID: "xref-coverage", Severity: report.SeverityWarning, Message: `documentation does not mention "aider"`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("coverage mismatch (-want +got):\n%s", diff)
	}
}

func TestCoverageRuleSatisfied(t *testing.T) {
	in := coverageInput(t,
		[]manifest.Status{manifest.StatusDone, manifest.StatusInProgress},
		[]string{"compared with Codex-CLI here", "unlike aider, this one sandboxes"})
	if got := coverageRule.Check(in); len(got) != 0 {
		t.Fatalf("mutual mentions should be clean, got %v", got)
	}
}

func TestCoverageRuleNeedsTwoQualifying(t *testing.T) {
	in := coverageInput(t,
		[]manifest.Status{manifest.StatusDone, manifest.StatusPending},
		[]string{"only one analyzed project", ""})
	if got := coverageRule.Check(in); len(got) != 0 {
		t.Fatalf("a single qualifying project has no pairs, got %v", got)
	}
}

func TestCoverageRuleSkipsMissingDocs(t *testing.T) {
	// The project with no doc gets a status-doc error elsewhere; piling
	// coverage warnings on top would be noise. Its peers still owe it a
	// mention.
	in := coverageInput(t,
		[]manifest.Status{manifest.StatusDone, manifest.StatusDone},
		[]string{"no mention of anything", ""})
	got := coverageRule.Check(in)
	if len(got) != 1 || got[0].Project != "aider" {
		t.Fatalf("expected one warning for aider only, got %v", got)
	}
}
