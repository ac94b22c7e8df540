// Package captions holds the caption snippet model and the paragraph
// reconstruction used on every transcript we serve
package captions

import (
	"math"
	"strings"
)

// Snippet is one timed caption fragment
// Start and Dur are seconds
type Snippet struct {
	Text  string
	Start float64
	Dur   float64
}

// Valid reports whether the snippet's timing is usable for gap math
func (s Snippet) Valid() bool {
	if math.IsNaN(s.Start) || math.IsNaN(s.Dur) {
		return false
	}
	if math.IsInf(s.Start, 0) || math.IsInf(s.Dur, 0) {
		return false
	}
	return s.Start >= 0 && s.Dur >= 0
}

// ParagraphGap is the silence threshold in seconds that closes a paragraph
const ParagraphGap = 0.7

// Paragraphs reconstructs display text from a snippet sequence.
// Snippets are walked in order; a gap over ParagraphGap between the end
// of one snippet and the start of the next closes the current paragraph.
// Snippets with malformed timing keep their cleaned text but never
// participate in gap decisions. Paragraphs join with a blank line
func Paragraphs(snippets []Snippet) string {
	if len(snippets) == 0 {
		return ""
	}

	var out []string
	var cur strings.Builder

	// prev tracks the last snippet with usable timing
	var prev *Snippet

	for i := range snippets {
		sn := snippets[i]
		text := Clean(sn.Text)

		if prev != nil && sn.Valid() {
			gap := sn.Start - (prev.Start + prev.Dur)
			if gap > ParagraphGap {
				if p := strings.TrimSpace(cur.String()); p != "" {
					out = append(out, p)
				}
				cur.Reset()
			}
		}

		if text != "" {
			if cur.Len() > 0 {
				cur.WriteByte(' ')
			}
			cur.WriteString(text)
		}

		if sn.Valid() {
			prev = &snippets[i]
		}
	}

	if p := strings.TrimSpace(cur.String()); p != "" {
		out = append(out, p)
	}

	return strings.TrimSpace(strings.Join(out, "\n\n"))
}
