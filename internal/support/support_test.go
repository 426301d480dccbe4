package support

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := WriteFileAtomic(path, []byte("first")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestWriteJSONAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteJSONAtomic(path, map[string]int{"errors": 2}); err != nil {
		t.Fatalf("WriteJSONAtomic: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		t.Error("output should end with a newline")
	}
	var decoded map[string]int
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["errors"] != 2 {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestStripBOM(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("projects:")...)
	if got := string(StripBOM(withBOM)); got != "projects:" {
		t.Errorf("got %q", got)
	}
	if got := string(StripBOM([]byte("plain"))); got != "plain" {
		t.Errorf("got %q", got)
	}
}

func TestAppendRunLog(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		rec := RunRecord{Mode: "check", Projects: 3, Warnings: i, Verdict: "PASS"}
		if err := AppendRunLog(dir, rec); err != nil {
			t.Fatalf("AppendRunLog: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "runs.log"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	for _, line := range lines {
		var rec RunRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("bad JSONL line %q: %v", line, err)
		}
		if rec.TimestampUTC == "" || rec.Mode != "check" {
			t.Errorf("record = %+v", rec)
		}
	}
}
