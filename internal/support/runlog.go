package support

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// RunRecord is one line of the append-only run log. Timestamps live here
// rather than in report.json so repeated checks of an unchanged repository
// stay byte-identical.
type RunRecord struct {
	TimestampUTC string `json:"timestampUtc"`
	Mode         string `json:"mode"`
	Projects     int    `json:"projects"`
	Errors       int    `json:"errors"`
	Warnings     int    `json:"warnings"`
	Verdict      string `json:"verdict"`
	ExitCode     int    `json:"exitCode"`
}

// AppendRunLog appends a record to <outputDir>/runs.log as JSONL.
func AppendRunLog(outputDir string, rec RunRecord) error {
	rec.TimestampUTC = time.Now().UTC().Format(time.RFC3339)
	path := filepath.Join(outputDir, "runs.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}
