// Package manifest loads the project manifest (projects.yaml), the single
// source of truth for which external projects the knowledge base tracks.
package manifest

import (
	"fmt"
	"os"
	"regexp"

	"kbcheck/internal/support"
	"gopkg.in/yaml.v3"
)

// Status is the lifecycle state of a tracked project. Only humans (or the
// AI editor) change it; the engine reads it and flags mismatches.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Project is one tracked external project.
type Project struct {
	Name           string `yaml:"name" json:"name"`
	Repo           string `yaml:"repo" json:"repo"`
	Status         Status `yaml:"status" json:"status"`
	AnalyzedCommit string `yaml:"analyzed_commit,omitempty" json:"analyzed_commit,omitempty"`
	AnalyzedDate   string `yaml:"analyzed_date,omitempty" json:"analyzed_date,omitempty"`
}

// ManifestError aborts the run before any report is produced: the engine
// cannot reason about projects it cannot identify.
type ManifestError struct {
	Path   string
	Reason string
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s: %s", e.Path, e.Reason)
}

var shaRe = regexp.MustCompile(`^[0-9a-fA-F]{7,40}$`)

// Load reads and validates the manifest. The returned slice preserves file
// order; several rules report in manifest order so diffs stay reproducible.
func Load(path string) ([]Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ManifestError{Path: path, Reason: fmt.Sprintf("cannot read: %v", err)}
	}
	return Parse(path, support.StripBOM(data))
}

// Parse validates raw manifest bytes. Split from Load for tests.
func Parse(path string, data []byte) ([]Project, error) {
	var doc struct {
		Projects *[]Project `yaml:"projects"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ManifestError{Path: path, Reason: fmt.Sprintf("malformed YAML: %v", err)}
	}
	if doc.Projects == nil {
		return nil, &ManifestError{Path: path, Reason: "missing top-level collection \"projects\""}
	}

	seen := map[string]bool{}
	for i, p := range *doc.Projects {
		if p.Name == "" || p.Repo == "" || p.Status == "" {
			return nil, &ManifestError{Path: path, Reason: fmt.Sprintf("entity %d missing required field (name, repo, status)", i)}
		}
		switch p.Status {
		case StatusPending, StatusInProgress, StatusDone:
		default:
			return nil, &ManifestError{Path: path, Reason: fmt.Sprintf("unknown status value %q for %s", p.Status, p.Name)}
		}
		if seen[p.Name] {
			return nil, &ManifestError{Path: path, Reason: fmt.Sprintf("duplicate project name %q", p.Name)}
		}
		seen[p.Name] = true
		if p.AnalyzedCommit != "" && !shaRe.MatchString(p.AnalyzedCommit) {
			return nil, &ManifestError{Path: path, Reason: fmt.Sprintf("analyzed_commit %q for %s is not a commit SHA", p.AnalyzedCommit, p.Name)}
		}
	}
	return *doc.Projects, nil
}
