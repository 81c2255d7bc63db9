package services

import "strings"

// Section is one blank-line-delimited block of generated text. Raw keeps the
// trimmed block so callers can check the leading marker ("Activity ...",
// "Total Cost: ..."); Lines holds the key/value pairs found inside.
type Section struct {
	Raw   string
	Lines []FieldLine
}

// FieldLine is a single "Key: value" line from a section
type FieldLine struct {
	Key   string
	Value string
}

// ExtractSections splits raw generated text into ordered sections and their
// key/value lines. Sections are separated by a double line-break. Each line is
// split on its first colon; the value keeps any further colons. Lines without
// a colon are ignored. The extractor never fails - malformed input simply
// yields fewer sections.
func ExtractSections(raw string) []Section {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")

	blocks := strings.Split(normalized, "\n\n")
	sections := make([]Section, 0, len(blocks))

	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		section := Section{Raw: block}
		for _, line := range strings.Split(block, "\n") {
			key, value, found := strings.Cut(line, ":")
			if !found {
				continue
			}

			section.Lines = append(section.Lines, FieldLine{
				Key:   strings.TrimSpace(key),
				Value: strings.TrimSpace(value),
			})
		}

		sections = append(sections, section)
	}

	return sections
}

// HasPrefix reports whether the section's raw text starts with the given
// marker, e.g. "Activity" or "Total Cost:"
func (s Section) HasPrefix(marker string) bool {
	return strings.HasPrefix(s.Raw, marker)
}
