package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"kbcheck/internal/manifest"
	"kbcheck/internal/support"
)

type doctorReport struct {
	GeneratedAtUtc  string   `json:"generatedAtUtc"`
	RepoRoot        string   `json:"repoRoot"`
	ManifestFound   bool     `json:"manifestFound"`
	ManifestValid   bool     `json:"manifestValid"`
	ManifestError   string   `json:"manifestError,omitempty"`
	ProjectCount    int      `json:"projectCount"`
	DocsDirFound    bool     `json:"docsDirFound"`
	TemplateFound   bool     `json:"templateFound"`
	IndexFound      bool     `json:"indexFound"`
	DemosDirFound   bool     `json:"demosDirFound"`
	MirrorsDirFound bool     `json:"mirrorsDirFound"`
	GitAvailable    bool     `json:"gitAvailable"`
	Status          string   `json:"status"`
	Reasons         []string `json:"reasons,omitempty"`
}

// runDoctor checks prerequisites: can the engine identify projects, find
// the expected directory layout, and query git for mirror heads.
func runDoctor(ctx context.Context) int {
	rep := buildDoctorReport(ctx)
	path := filepath.Join(cfg.OutputDir(), "doctor.json")
	if err := support.WriteJSONAtomic(path, rep); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot write doctor.json: %v\n", err)
		return 1
	}
	fmt.Printf("Doctor status: %s\n", rep.Status)
	for _, r := range rep.Reasons {
		fmt.Printf("  - %s\n", r)
	}
	if rep.Status != "OK" {
		return 1
	}
	return 0
}

func buildDoctorReport(ctx context.Context) doctorReport {
	rep := doctorReport{
		GeneratedAtUtc: time.Now().UTC().Format(time.RFC3339),
		RepoRoot:       cfg.Root,
		Status:         "OK",
	}

	manifestPath := cfg.ManifestPath()
	if _, err := os.Stat(manifestPath); err == nil {
		rep.ManifestFound = true
		projects, err := manifest.Load(manifestPath)
		if err != nil {
			rep.ManifestError = err.Error()
		} else {
			rep.ManifestValid = true
			rep.ProjectCount = len(projects)
		}
	}

	rep.DocsDirFound = dirExists(filepath.Join(cfg.Root, cfg.Docs.Dir))
	rep.TemplateFound = fileExists(filepath.Join(cfg.Root, cfg.Docs.Template))
	rep.IndexFound = fileExists(cfg.IndexPath())
	rep.DemosDirFound = dirExists(filepath.Join(cfg.Root, cfg.Demos.Dir))
	rep.MirrorsDirFound = dirExists(filepath.Join(cfg.Root, cfg.Mirrors))
	_, lookErr := exec.LookPath("git")
	rep.GitAvailable = lookErr == nil

	degrade := func(reason string) {
		rep.Status = "DEGRADED"
		rep.Reasons = append(rep.Reasons, reason)
	}
	if !rep.ManifestFound {
		degrade(fmt.Sprintf("manifest not found at %s", manifestPath))
	} else if !rep.ManifestValid {
		degrade("manifest does not parse: " + rep.ManifestError)
	}
	if !rep.DocsDirFound {
		degrade("docs directory missing")
	}
	if !rep.TemplateFound {
		degrade("doc template missing (stub detection degrades to comment matching)")
	}
	if !rep.DemosDirFound {
		degrade("demos directory missing")
	}
	if !rep.MirrorsDirFound {
		degrade("mirrors directory missing (drift detection will report unknown)")
	}
	if !rep.GitAvailable {
		degrade("git not found in PATH (mirror heads unavailable)")
	}
	return rep
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
