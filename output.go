package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"kbcheck/internal/report"
	"kbcheck/internal/support"
)

// ---------------------------------------------------------------------------
// Human-readable output
// ---------------------------------------------------------------------------

// printReport writes the grouped issue listing: repo-level issues first,
// then projects in manifest order, issues in rule registration order.
func printReport(w io.Writer, rep *report.Report) {
	if len(rep.Groups) == 0 {
		fmt.Fprintln(w, "No issues found.")
		return
	}
	for _, g := range rep.Groups {
		name := g.Project
		if name == "" {
			name = "(repository)"
		}
		fmt.Fprintln(w, name)
		for _, is := range g.Issues {
			sev := "WARN "
			if is.Severity == report.SeverityError {
				sev = "ERROR"
			}
			fmt.Fprintf(w, "  %s  %-18s %s\n", sev, is.RuleID, is.Message)
		}
	}
}

// printHUD prints the summary box.
func printHUD(w io.Writer, gate *gateResult) {
	status := "PASS"
	if !gate.Pass {
		status = "FAIL"
	}
	fmt.Fprintln(w, "+--------------------------------------------------+")
	fmt.Fprintln(w, "|            kbcheck consistency report            |")
	fmt.Fprintln(w, "+--------------------------------------------------+")
	fmt.Fprintf(w, "|  Status:   %-38s|\n", status)
	fmt.Fprintf(w, "|  Errors:   %-38d|\n", gate.Errors)
	fmt.Fprintf(w, "|  Warnings: %-38s|\n", formatWarnings(gate))
	fmt.Fprintln(w, "+--------------------------------------------------+")
	if len(gate.Reasons) > 0 {
		for _, r := range gate.Reasons {
			// Wrap long reasons
			if len(r) > 48 {
				fmt.Fprintf(w, "|  %-48s|\n", r[:48])
				fmt.Fprintf(w, "|  %-48s|\n", r[48:])
			} else {
				fmt.Fprintf(w, "|  %-48s|\n", r)
			}
		}
		fmt.Fprintln(w, "+--------------------------------------------------+")
	}
}

func formatWarnings(gate *gateResult) string {
	if gate.MaxWarnings != nil {
		return fmt.Sprintf("%d (max_warnings=%d)", gate.Warnings, *gate.MaxWarnings)
	}
	return fmt.Sprintf("%d", gate.Warnings)
}

// ---------------------------------------------------------------------------
// File outputs for CI consumers
// ---------------------------------------------------------------------------

func writeReports(payload *jsonReport, rep *report.Report, gate *gateResult) {
	jsonPath := filepath.Join(cfg.OutputDir(), "report.json")
	if err := support.WriteJSONAtomic(jsonPath, payload); err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to write report.json: %v\n", err)
	}
	if cfg.Output.SARIF.Enabled {
		if err := writeSARIF(cfg.OutputPath(cfg.Output.SARIF.Path), rep, gate); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: Failed to write SARIF: %v\n", err)
		}
	}
	if cfg.Output.JUnit.Enabled {
		if err := writeJUnit(cfg.OutputPath(cfg.Output.JUnit.Path), rep, gate); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: Failed to write JUnit: %v\n", err)
		}
	}
}

// issueURI maps an issue to the artifact it is about, for CI annotation.
func issueURI(is report.Issue) string {
	if is.Project == "" {
		return cfg.Docs.Index
	}
	switch is.RuleID {
	case "demo-unlisted", "overview-phantom", "overview-missing", "status-demos":
		return path.Join(cfg.Demos.Dir, is.Project, cfg.Demos.Overview)
	case "drift", "status-mirror":
		return path.Join(cfg.Mirrors, is.Project)
	default:
		return path.Join(cfg.Docs.Dir, is.Project+".md")
	}
}

// ---------------------------------------------------------------------------
// SARIF output
// ---------------------------------------------------------------------------

type sarifDocument struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}
type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}
type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}
type sarifDriver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
type sarifResult struct {
	RuleID  string          `json:"ruleId"`
	Level   string          `json:"level"`
	Message sarifMessage    `json:"message"`
	Locs    []sarifLocation `json:"locations,omitempty"`
}
type sarifMessage struct {
	Text string `json:"text"`
}
type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}
type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}
type sarifArtifact struct {
	URI string `json:"uri"`
}

func writeSARIF(outPath string, rep *report.Report, gate *gateResult) error {
	var results []sarifResult
	for _, g := range rep.Groups {
		for _, is := range g.Issues {
			level := "warning"
			if is.Severity == report.SeverityError {
				level = "error"
			}
			msg := is.Message
			if is.Project != "" {
				msg = is.Project + ": " + msg
			}
			results = append(results, sarifResult{
				RuleID:  is.RuleID,
				Level:   level,
				Message: sarifMessage{Text: msg},
				Locs: []sarifLocation{{
					PhysicalLocation: sarifPhysical{ArtifactLocation: sarifArtifact{URI: issueURI(is)}},
				}},
			})
		}
	}
	if !gate.Pass {
		results = append(results, sarifResult{
			RuleID:  "consistency-gate",
			Level:   "error",
			Message: sarifMessage{Text: gate.Message},
		})
	}

	doc := sarifDocument{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: "kbcheck", Version: Version}},
			Results: results,
		}},
	}
	return support.WriteJSONAtomic(outPath, doc)
}

// ---------------------------------------------------------------------------
// JUnit XML output
// ---------------------------------------------------------------------------

type junitTestsuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Testsuites []junitTestsuite `xml:"testsuite"`
}
type junitTestsuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []junitTestcase `xml:"testcase"`
}
type junitTestcase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	Skipped   *junitSkipped `xml:"skipped,omitempty"`
}
type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}
type junitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

func writeJUnit(outPath string, rep *report.Report, gate *gateResult) error {
	// Warnings become failures only when warning gating is violated.
	warningsViolated := gate.FailOnWarnings != nil && *gate.FailOnWarnings && gate.Warnings > 0
	if gate.MaxWarnings != nil && gate.Warnings > *gate.MaxWarnings {
		warningsViolated = true
	}

	var cases []junitTestcase
	failures := 0
	for _, g := range rep.Groups {
		for _, is := range g.Issues {
			name := is.RuleID
			if is.Project != "" {
				name = is.Project + "/" + is.RuleID
			}
			tc := junitTestcase{
				Name:      name,
				Classname: "consistency." + string(is.Severity),
				Time:      "0",
			}
			if is.Severity == report.SeverityError || warningsViolated {
				tc.Failure = &junitFailure{
					Message: is.Message,
					Type:    string(is.Severity),
					Body:    fmt.Sprintf("%s: %s", issueURI(is), is.Message),
				}
				failures++
			} else {
				tc.Skipped = &junitSkipped{Message: "warning tolerated by gating"}
			}
			cases = append(cases, tc)
		}
	}

	gateCase := junitTestcase{
		Name:      "consistency-gate",
		Classname: "consistency.verify",
		Time:      "0",
	}
	if !gate.Pass {
		gateCase.Failure = &junitFailure{
			Message: gate.Message,
			Type:    "GATE",
			Body:    gate.Message,
		}
		failures++
	}
	cases = append(cases, gateCase)

	doc := junitTestsuites{
		Testsuites: []junitTestsuite{{
			Name:     "kbcheck",
			Tests:    len(cases),
			Failures: failures,
			Time:     "0",
			Cases:    cases,
		}},
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	header := []byte(xml.Header)
	return support.WriteFileAtomic(outPath, append(header, data...))
}
