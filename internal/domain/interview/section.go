package interview

import "strings"

// Section identifies one of the five fixed requirements-gathering topics.
// The interview always walks them in declaration order.
type Section int

const (
	SectionProjectScope Section = iota
	SectionUserStories
	SectionTechnicalConstraints
	SectionSuccessCriteria
	SectionFileFormatSupport
)

var sectionNames = [...]string{
	SectionProjectScope:         "PROJECT SCOPE",
	SectionUserStories:          "USER STORIES",
	SectionTechnicalConstraints: "TECHNICAL CONSTRAINTS",
	SectionSuccessCriteria:      "SUCCESS CRITERIA",
	SectionFileFormatSupport:    "FILE FORMAT SUPPORT",
}

var sectionQuestions = [...]string{
	SectionProjectScope:         "What are the project's objectives, main goals, and overall scope?",
	SectionUserStories:          "What are the key user stories, use cases, and workflows?",
	SectionTechnicalConstraints: "What technical requirements, platforms, and limitations apply?",
	SectionSuccessCriteria:      "What success metrics and acceptance criteria define completion?",
	SectionFileFormatSupport:    "Which file formats and data specifications must be supported?",
}

// Sections returns all sections in interview order.
func Sections() []Section {
	return []Section{
		SectionProjectScope,
		SectionUserStories,
		SectionTechnicalConstraints,
		SectionSuccessCriteria,
		SectionFileFormatSupport,
	}
}

// NumSections is the fixed number of interview sections.
const NumSections = len(sectionNames)

// String returns the canonical display name, e.g. "PROJECT SCOPE".
func (s Section) String() string {
	if s < 0 || int(s) >= len(sectionNames) {
		return "UNKNOWN"
	}
	return sectionNames[s]
}

// Question returns the fixed prompt asked for this section.
func (s Section) Question() string {
	if s < 0 || int(s) >= len(sectionQuestions) {
		return ""
	}
	return sectionQuestions[s]
}

// SectionFromName resolves a section from a display name. Matching is
// case-insensitive and treats underscores as spaces, so both
// "PROJECT SCOPE" and "project_scope" resolve to SectionProjectScope.
func SectionFromName(name string) (Section, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, "_", " ")
	for i, n := range sectionNames {
		if n == normalized {
			return Section(i), true
		}
	}
	return 0, false
}
