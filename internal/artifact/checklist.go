package artifact

import (
	"bufio"
	"bytes"
	"regexp"
)

// ChecklistEntry is one mechanism row of a demo overview file.
type ChecklistEntry struct {
	Name     string
	Complete bool
}

// The overview convention is a fixed line grammar:
//
//	- [x] **mechanism-name** — short description
//	- [ ] **mechanism-name**
//
// The grammar lives in this one file so a convention change touches exactly
// one place.
var checklistLineRe = regexp.MustCompile(`^\s*-\s\[([ xX])\]\s+\*\*(.+?)\*\*`)

// ParseChecklist extracts checklist entries from overview file content.
// Lines that do not match the grammar are ignored; mechanism order is
// preserved as written.
func ParseChecklist(data []byte) []ChecklistEntry {
	var entries []ChecklistEntry
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		m := checklistLineRe.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		entries = append(entries, ChecklistEntry{
			Name:     m[2],
			Complete: m[1] == "x" || m[1] == "X",
		})
	}
	return entries
}
