package localization

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Mapping stores an original markup token and its safe replacement.
type Mapping struct {
	Original    string
	Placeholder string
	Index       int
}

type markupMatch struct {
	start, end int
	value      string
}

// patterns to detect game markup in localisation strings.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\$[A-Za-z_][A-Za-z0-9_.]*\$`),   // $COUNTRY_NAME$
	regexp.MustCompile(`\[[A-Za-z_][A-Za-z0-9_.]*\]`),   // [Root.GetName]
	regexp.MustCompile(`§[A-Za-z!]`),                    // §Y color codes, §! reset
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfgx]|%%`),  // %d, %s, escaped percent
	regexp.MustCompile(`@[A-Za-z_][A-Za-z0-9_]*!?`),     // @flag_icon!
	regexp.MustCompile(`\\n`),                           // literal newline escape
}

// Protect replaces all markup tokens with safe {{tok_N}} placeholders.
// Returns the protected string and a mapping to restore the originals.
func Protect(text string) (string, []Mapping) {
	var all []markupMatch
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			all = append(all, markupMatch{start: loc[0], end: loc[1], value: text[loc[0]:loc[1]]})
		}
	}
	if len(all) == 0 {
		return text, nil
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end-all[i].start > all[j].end-all[j].start
	})

	// Drop overlapping matches, keeping the first and longest.
	var filtered []markupMatch
	lastEnd := -1
	for _, m := range all {
		if m.start >= lastEnd {
			filtered = append(filtered, m)
			lastEnd = m.end
		}
	}

	var mappings []Mapping
	result := text
	// Replace back to front so earlier offsets stay valid.
	for i := len(filtered) - 1; i >= 0; i-- {
		m := filtered[i]
		placeholder := fmt.Sprintf("{{tok_%d}}", i+1)
		mappings = append([]Mapping{{Original: m.value, Placeholder: placeholder, Index: i + 1}}, mappings...)
		result = result[:m.start] + placeholder + result[m.end:]
	}
	return result, mappings
}

// Restore replaces {{tok_N}} placeholders with the original markup tokens.
func Restore(text string, mappings []Mapping) string {
	result := text
	for _, m := range mappings {
		result = strings.Replace(result, m.Placeholder, m.Original, 1)
	}
	return result
}
