// Package localization parses the line-oriented localisation text format:
// a language header ("l_english:") followed by indented entries of the form
// KEY:version "Text". This format is separate from game script and never
// goes through the tree parser.
package localization

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"pdxmill/internal/diag"
)

// Entry is one localisation key with its text.
type Entry struct {
	Key     string
	Version int
	Text    string
	Line    int
}

// Result is one parsed localisation file.
type Result struct {
	Language string
	Entries  []Entry
}

// Get returns the text for key and whether it exists. Later entries for the
// same key override earlier ones, matching game load behaviour.
func (r *Result) Get(key string) (string, bool) {
	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].Key == key {
			return r.Entries[i].Text, true
		}
	}
	return "", false
}

var (
	headerRE = regexp.MustCompile(`^l_([a-z_]+):\s*$`)
	entryRE  = regexp.MustCompile(`^([A-Za-z0-9_.\-]+):(\d*)\s+"(.*)"\s*$`)
)

// Parse parses localisation text. Malformed lines are reported as
// diagnostics and skipped; parsing always returns whatever was readable.
func Parse(data []byte) (*Result, []diag.Diagnostic) {
	data = stripBOM(data)
	result := &Result{}
	var diags []diag.Diagnostic

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimRight(sc.Text(), " \t\r")
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if m := headerRE.FindStringSubmatch(trimmed); m != nil {
			if result.Language != "" {
				diags = append(diags, diag.Errorf(diag.SyntaxError, lineNum, 1,
					"duplicate language header l_%s", m[1]))
				continue
			}
			result.Language = m[1]
			continue
		}

		m := entryRE.FindStringSubmatch(trimmed)
		if m == nil {
			diags = append(diags, diag.Errorf(diag.SyntaxError, lineNum, 1,
				"malformed localisation line"))
			continue
		}
		version := 0
		if m[2] != "" {
			version, _ = strconv.Atoi(m[2])
		}
		result.Entries = append(result.Entries, Entry{
			Key:     m[1],
			Version: version,
			Text:    unescape(m[3]),
			Line:    lineNum,
		})
	}

	return result, diags
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\n`, "\n")
	return s
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
