package recognizer

import "strings"

// ParagraphLines cleans raw paragraph texts from the engine into
// reading-order lines: internal whitespace runs (including newlines inside a
// paragraph) collapse to single spaces, surrounding whitespace is trimmed,
// and empty paragraphs are dropped. Order is preserved.
func ParagraphLines(paragraphs []string) []string {
	lines := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if line := strings.Join(strings.Fields(p), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// JoinLines renders lines into the persisted text form, newline-separated in
// the recognizer's order.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// HasText reports whether the lines contain any non-whitespace text
func HasText(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}
