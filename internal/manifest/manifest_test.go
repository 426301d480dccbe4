package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPreservesFileOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projects.yaml")
	content := `projects:
  - name: nanoclaw
    repo: https://github.com/qwibbler/nanoclaw
    status: done
    analyzed_commit: cafe1234
    analyzed_date: "2026-07-01"
  - name: aider
    repo: https://github.com/Aider-AI/aider
    status: in_progress
  - name: pi-agent
    repo: https://github.com/badlogic/pi-mono
    status: pending
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	projects, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"nanoclaw", "aider", "pi-agent"}
	if len(projects) != len(want) {
		t.Fatalf("got %d projects, want %d", len(projects), len(want))
	}
	for i, name := range want {
		if projects[i].Name != name {
			t.Errorf("projects[%d].Name = %q, want %q", i, projects[i].Name, name)
		}
	}
	if projects[0].Status != StatusDone {
		t.Errorf("status = %q, want done", projects[0].Status)
	}
	if projects[0].AnalyzedCommit != "cafe1234" {
		t.Errorf("analyzed_commit = %q", projects[0].AnalyzedCommit)
	}
}

func TestParseRejectsBadManifests(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			name:    "missing_collection",
			yaml:    "other:\n  - name: x\n",
			wantMsg: "missing top-level collection",
		},
		{
			name:    "missing_required_field",
			yaml:    "projects:\n  - name: aider\n    status: done\n",
			wantMsg: "missing required field",
		},
		{
			name:    "unknown_status",
			yaml:    "projects:\n  - name: aider\n    repo: r\n    status: finished\n",
			wantMsg: "unknown status value",
		},
		{
			name:    "duplicate_name",
			yaml:    "projects:\n  - name: aider\n    repo: r\n    status: done\n  - name: aider\n    repo: r2\n    status: pending\n",
			wantMsg: "duplicate project name",
		},
		{
			name:    "bad_sha",
			yaml:    "projects:\n  - name: aider\n    repo: r\n    status: done\n    analyzed_commit: not-a-sha\n",
			wantMsg: "not a commit SHA",
		},
		{
			name:    "short_sha",
			yaml:    "projects:\n  - name: aider\n    repo: r\n    status: done\n    analyzed_commit: abc12\n",
			wantMsg: "not a commit SHA",
		},
		{
			name:    "malformed_yaml",
			yaml:    "projects: [\n",
			wantMsg: "malformed YAML",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("projects.yaml", []byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			var merr *ManifestError
			if !errors.As(err, &merr) {
				t.Fatalf("expected ManifestError, got %T", err)
			}
			if !strings.Contains(merr.Reason, tc.wantMsg) {
				t.Errorf("reason %q does not contain %q", merr.Reason, tc.wantMsg)
			}
		})
	}
}

func TestParseEmptyCollection(t *testing.T) {
	projects, err := Parse("projects.yaml", []byte("projects: []\n"))
	if err != nil {
		t.Fatalf("empty collection should be valid: %v", err)
	}
	if len(projects) != 0 {
		t.Fatalf("got %d projects", len(projects))
	}
}

func TestLoadStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projects.yaml")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("projects:\n  - name: aider\n    repo: r\n    status: done\n")...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	projects, err := Load(path)
	if err != nil {
		t.Fatalf("Load with BOM: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "aider" {
		t.Fatalf("unexpected projects: %+v", projects)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "projects.yaml"))
	var merr *ManifestError
	if !errors.As(err, &merr) {
		t.Fatalf("expected ManifestError for missing file, got %v", err)
	}
}
