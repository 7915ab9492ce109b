package output

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

// Frame geometry. Rows hang off a │ gutter; rules span the inner width.
const (
	frameIndent = "    "
	frameWidth  = 61
)

func paint(code, s string, color bool) string {
	if !color {
		return s
	}
	return code + s + colorReset
}

// Section is a framed block of report output. NewSection writes the
// header immediately; rows stream through Row until Close draws the
// bottom rule.
type Section struct {
	w     io.Writer
	color bool
}

// NewSection opens a section. A non-zero elapsed is shown at the right
// edge of the header rule.
func NewSection(w io.Writer, name string, elapsed time.Duration, color bool) *Section {
	s := &Section{w: w, color: color}

	head := "── " + name + " "
	tail := "──"
	if elapsed > 0 {
		tail = fmt.Sprintf(" %s ──", fmtDuration(elapsed))
	}
	// Width accounting is in runes; the ─ glyphs are multi-byte.
	fill := frameWidth + 1 - utf8.RuneCountInString(head) - utf8.RuneCountInString(tail)
	line := head + strings.Repeat("─", max(1, fill)) + tail

	fmt.Fprintf(w, "\n%s%s\n", frameIndent, paint(colorDimCyan, line, color))
	return s
}

// Row writes one line inside the frame.
func (s *Section) Row(format string, args ...any) {
	fmt.Fprintf(s.w, "%s│ %s\n", frameIndent, fmt.Sprintf(format, args...))
}

// Separator draws a mid-section rule.
func (s *Section) Separator() { s.rule('├') }

// Close draws the bottom rule.
func (s *Section) Close() { s.rule('└') }

func (s *Section) rule(corner rune) {
	fmt.Fprintf(s.w, "%s%c%s\n", frameIndent, corner, strings.Repeat("─", frameWidth))
}

// StatusIcon maps an audit status word to its icon: "passing" is a
// green check, "failing" a red cross, anything else an amber slash.
func StatusIcon(status string, color bool) string {
	switch status {
	case "passing":
		return paint(colorGreen, "✓", color)
	case "failing":
		return paint(colorRed, "✗", color)
	default:
		return paint(colorYellow, "⊘", color)
	}
}

// Dimmed renders secondary text in a muted tone.
func Dimmed(text string, color bool) string {
	return paint(colorGray, text, color)
}

// KV is one entry of the context block.
type KV struct {
	Key   string
	Value string
}

// ContextBlock prints key-value pairs two to a line, column-aligned.
func ContextBlock(w io.Writer, kv []KV) {
	if len(kv) == 0 {
		return
	}
	fmt.Fprintln(w)
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			fmt.Fprintf(w, "%s%-12s%-14s%-11s%s\n",
				frameIndent, kv[i].Key, kv[i].Value, kv[i+1].Key, kv[i+1].Value)
		} else {
			fmt.Fprintf(w, "%s%-12s%s\n", frameIndent, kv[i].Key, kv[i].Value)
		}
	}
}

func fmtDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	return fmt.Sprintf("%dm%.1fs", mins, d.Seconds()-float64(mins*60))
}
