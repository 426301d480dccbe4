package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"kbcheck/internal/engine"
	"kbcheck/internal/support"
)

type checkOptions struct {
	Filter string
	Format string
	Quiet  bool
}

// jsonReport is the machine-readable report for --format=json and for
// .kbcheck/report.json. No timestamps: repeated runs against unchanged
// state must stay byte-identical.
type jsonReport struct {
	Groups   interface{} `json:"groups"`
	Errors   int         `json:"errors"`
	Warnings int         `json:"warnings"`
	Pass     bool        `json:"pass"`
	ExitCode int         `json:"exitCode"`
	Message  string      `json:"message"`
}

// runCheck orchestrates the full validation pipeline and returns the
// process exit code.
func runCheck(ctx context.Context, opts checkOptions) int {
	result, err := engine.Run(ctx, cfg, engine.Options{Filter: opts.Filter})
	if err != nil {
		// Fatal: one stderr line, no report. Distinguishable from the
		// grouped issue report by format.
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	rep := result.Report
	gate := evaluateGating(cfg.Gating, rep.Errors, rep.Warnings)
	payload := &jsonReport{
		Groups:   rep.Groups,
		Errors:   rep.Errors,
		Warnings: rep.Warnings,
		Pass:     gate.Pass,
		ExitCode: gate.ExitCode(),
		Message:  gate.Message,
	}

	writeReports(payload, rep, gate)

	mode := "check"
	if opts.Filter != "" {
		mode = "check:" + opts.Filter
	}
	if err := support.AppendRunLog(cfg.OutputDir(), support.RunRecord{
		Mode:     mode,
		Projects: len(result.Projects),
		Errors:   rep.Errors,
		Warnings: rep.Warnings,
		Verdict:  gate.Message,
		ExitCode: gate.ExitCode(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to append run log: %v\n", err)
	}

	if opts.Format == "json" {
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
		return gate.ExitCode()
	}

	if !opts.Quiet {
		printReport(os.Stdout, rep)
	}
	printHUD(os.Stdout, gate)
	return gate.ExitCode()
}
