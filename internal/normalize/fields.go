package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Issue bodies arrive in two vintages: plain "Label: value" lines from the
// old free-text template, and "### Label" markdown headings from the GitHub
// issue form. Each logical field is tried against all three shapes in order.
var fieldPatternForms = []string{
	`(?i)%s[:\s]*([^\n]*)`,
	`(?is)### %s\s*\n\s*(.*?)(?:\n###|$)`,
	`(?is)### %s[:\s]*\n\s*(.*?)(?:\n###|$)`,
}

var (
	fieldPatternMu    sync.Mutex
	fieldPatternCache = map[string][]*regexp.Regexp{}
)

func fieldPatterns(label string) []*regexp.Regexp {
	fieldPatternMu.Lock()
	defer fieldPatternMu.Unlock()

	if cached, ok := fieldPatternCache[label]; ok {
		return cached
	}
	quoted := regexp.QuoteMeta(label)
	patterns := make([]*regexp.Regexp, 0, len(fieldPatternForms))
	for _, form := range fieldPatternForms {
		patterns = append(patterns, regexp.MustCompile(fmt.Sprintf(form, quoted)))
	}
	fieldPatternCache[label] = patterns
	return patterns
}

// ExtractField pulls a labeled value out of free issue-body text. The match
// is case-insensitive and runs to the next newline (or heading, for the
// markdown forms). Absent labels yield an empty string, never an error.
func ExtractField(body, label string) string {
	if body == "" || label == "" {
		return ""
	}
	for _, re := range fieldPatterns(label) {
		if m := re.FindStringSubmatch(body); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

// ExtractFirst tries alias labels in order and returns the first non-empty
// value. Issue templates renamed fields over time, so most logical fields
// carry both a human label and a snake_case alias.
func ExtractFirst(body string, labels ...string) string {
	for _, label := range labels {
		if v := ExtractField(body, label); v != "" {
			return v
		}
	}
	return ""
}
