package main

import (
	"strings"
	"testing"

	"kbcheck/internal/config"
)

func boolP(v bool) *bool { return &v }
func intP(v int) *int    { return &v }

func TestEvaluateGatingDefaults(t *testing.T) {
	tests := []struct {
		name     string
		errors   int
		warnings int
		wantPass bool
	}{
		{"clean", 0, 0, true},
		{"warnings_only", 0, 5, true},
		{"one_error", 1, 0, false},
		{"errors_and_warnings", 2, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := evaluateGating(config.GatingConfig{}, tt.errors, tt.warnings)
			if g.Pass != tt.wantPass {
				t.Errorf("Pass = %v, want %v (%s)", g.Pass, tt.wantPass, g.Message)
			}
			wantExit := 0
			if !tt.wantPass {
				wantExit = 1
			}
			if g.ExitCode() != wantExit {
				t.Errorf("ExitCode() = %d, want %d", g.ExitCode(), wantExit)
			}
		})
	}
}

func TestEvaluateGatingFailOnWarnings(t *testing.T) {
	cfg := config.GatingConfig{FailOnWarnings: boolP(true)}

	g := evaluateGating(cfg, 0, 2)
	if g.Pass {
		t.Error("2 warnings with fail_on_warnings should fail")
	}
	if !strings.Contains(g.Message, "fail_on_warnings") {
		t.Errorf("Message = %q", g.Message)
	}

	g = evaluateGating(cfg, 0, 0)
	if !g.Pass {
		t.Errorf("no warnings should pass: %s", g.Message)
	}

	g = evaluateGating(config.GatingConfig{FailOnWarnings: boolP(false)}, 0, 2)
	if !g.Pass {
		t.Errorf("explicit false must behave like unset: %s", g.Message)
	}
}

func TestEvaluateGatingMaxWarnings(t *testing.T) {
	cfg := config.GatingConfig{MaxWarnings: intP(3)}

	g := evaluateGating(cfg, 0, 3)
	if !g.Pass {
		t.Errorf("warnings equal to the cap should pass: %s", g.Message)
	}
	if !strings.Contains(g.Message, "max_warnings=3") {
		t.Errorf("Message = %q", g.Message)
	}

	g = evaluateGating(cfg, 0, 4)
	if g.Pass {
		t.Error("warnings above the cap should fail")
	}
	if !strings.Contains(g.Message, "exceeded max_warnings") {
		t.Errorf("Message = %q", g.Message)
	}

	g = evaluateGating(config.GatingConfig{MaxWarnings: intP(0)}, 0, 1)
	if g.Pass {
		t.Error("max_warnings: 0 means any warning fails")
	}
}

func TestEvaluateGatingErrorsTakePrecedence(t *testing.T) {
	cfg := config.GatingConfig{FailOnWarnings: boolP(true), MaxWarnings: intP(0)}
	g := evaluateGating(cfg, 2, 5)
	if g.Pass {
		t.Fatal("should fail")
	}
	if !strings.Contains(g.Message, "error-severity") {
		t.Errorf("primary message should name the errors first: %q", g.Message)
	}
	if len(g.Reasons) != 3 {
		t.Errorf("Reasons = %v, want all three gate failures recorded", g.Reasons)
	}
}
