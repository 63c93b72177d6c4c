package errs

import (
	"strconv"
	"strings"
)

// Excerpt renders a source line with a caret span underneath: the caret
// line is padded with start spaces, so the first caret sits under byte
// offset start, then carries one caret per highlighted byte in [start, end).
//
// start/end are 0-indexed byte offsets into source. line (1-indexed, as
// in Location.Line) is accepted but not rendered.
func Excerpt(source string, line, start, end int) string {
	if end <= start {
		end = start + 1
	}

	var sb strings.Builder
	sb.WriteString(source)
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", start))
	sb.WriteString(strings.Repeat("^", end-start))
	_ = line
	return sb.String()
}

// Format renders a full diagnostic: the error message, its scenario/line
// location, and — when source is non-empty — a caret excerpt.
func Format(e *Error, source string) string {
	var sb strings.Builder
	sb.WriteString(e.Error())
	if e.Location.Line > 0 {
		sb.WriteString("\n  at scenario ")
		sb.WriteString(strconv.Itoa(e.Location.Scenario))
		sb.WriteString(", line ")
		sb.WriteString(strconv.Itoa(e.Location.Line))
	}
	if source != "" {
		sb.WriteByte('\n')
		sb.WriteString(Excerpt(source, e.Location.Line, e.Location.Column, e.Location.Column+1))
	}
	return sb.String()
}
