package artifact

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
)

var headRe = regexp.MustCompile(`^[0-9a-f]{40}$`)

// MirrorHead returns the current commit of a local checkout, or "" when the
// directory is not a git repository or git is unavailable. Absence of a
// head is data for the drift rule, never an error.
func MirrorHead(ctx context.Context, dir string) string {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	head := strings.ToLower(strings.TrimSpace(string(out)))
	if !headRe.MatchString(head) {
		return ""
	}
	return head
}
