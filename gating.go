package main

import (
	"fmt"

	"kbcheck/internal/config"
)

// gateResult is the exit-code decision for one run. The default contract
// is fixed (errors block, warnings never do); the gating config can only
// tighten it.
type gateResult struct {
	Pass           bool     `json:"pass"`
	Message        string   `json:"message"`
	Errors         int      `json:"errors"`
	Warnings       int      `json:"warnings"`
	FailOnWarnings *bool    `json:"fail_on_warnings,omitempty"`
	MaxWarnings    *int     `json:"max_warnings,omitempty"`
	Reasons        []string `json:"reasons,omitempty"`
}

// evaluateGating maps issue counts to the verdict: errors first, then the
// numeric cap, then the boolean rule.
func evaluateGating(g config.GatingConfig, errors, warnings int) *gateResult {
	result := &gateResult{
		Pass:           true,
		Errors:         errors,
		Warnings:       warnings,
		FailOnWarnings: g.FailOnWarnings,
		MaxWarnings:    g.MaxWarnings,
	}

	failOnWarnings := false
	if g.FailOnWarnings != nil {
		failOnWarnings = *g.FailOnWarnings
	}

	var reasons []string
	var primary string
	fail := func(msg string) {
		result.Pass = false
		reasons = append(reasons, msg)
		if primary == "" {
			primary = msg
		}
	}

	if errors > 0 {
		fail(fmt.Sprintf("FAILED: %d error-severity issue(s) detected", errors))
	}
	if g.MaxWarnings != nil && warnings > *g.MaxWarnings {
		fail(fmt.Sprintf("FAILED: warnings (%d) exceeded max_warnings (%d)", warnings, *g.MaxWarnings))
	}
	if failOnWarnings && warnings > 0 {
		fail(fmt.Sprintf("FAILED: %d warning(s) detected (fail_on_warnings enabled)", warnings))
	}

	result.Reasons = reasons
	if result.Pass {
		if g.MaxWarnings != nil {
			result.Message = fmt.Sprintf("PASSED: errors=%d, warnings=%d (max_warnings=%d)", errors, warnings, *g.MaxWarnings)
		} else {
			result.Message = fmt.Sprintf("PASSED: errors=%d, warnings=%d", errors, warnings)
		}
	} else {
		result.Message = primary
	}
	return result
}

// ExitCode follows the user-facing contract: 1 when gating fails.
func (g *gateResult) ExitCode() int {
	if g.Pass {
		return 0
	}
	return 1
}
