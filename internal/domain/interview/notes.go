package interview

import (
	"regexp"
	"strings"
)

// Classifier output labels each block of additional information with the
// section it belongs to, one "SECTION_NAME: free text" block per section.
// A block runs until the next section header or the end of the text.
var noteHeaderPattern = regexp.MustCompile(
	`(?im)^\s*(PROJECT[ _]SCOPE|USER[ _]STORIES|TECHNICAL[ _]CONSTRAINTS|SUCCESS[ _]CRITERIA|FILE[ _]FORMAT[ _]SUPPORT)\s*:`)

// ParseSectionNotes extracts per-section notes from classifier output.
// Unlabelled text and unknown headers are ignored; a section that appears
// more than once keeps its blocks joined by a blank line.
func ParseSectionNotes(text string) map[Section]string {
	notes := make(map[Section]string)

	matches := noteHeaderPattern.FindAllStringSubmatchIndex(text, -1)
	for i, m := range matches {
		sec, ok := SectionFromName(text[m[2]:m[3]])
		if !ok {
			continue
		}

		// Block body: from the end of this header to the start of the next.
		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.TrimSpace(text[start:end])
		if body == "" {
			continue
		}

		if existing, dup := notes[sec]; dup {
			notes[sec] = existing + "\n\n" + body
		} else {
			notes[sec] = body
		}
	}

	return notes
}
