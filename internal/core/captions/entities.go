package captions

import (
	"strconv"
	"strings"
)

// namedEntities is the fixed table of named entities seen in caption tracks
var namedEntities = map[string]string{
	"amp":   "&",
	"quot":  `"`,
	"apos":  "'",
	"#39":   "'",
	"#039":  "'",
	"lt":    "<",
	"gt":    ">",
	"nbsp":  " ",
	"iexcl": "¡",
	"cent":  "¢",
	"pound": "£",
	"yen":   "¥",
	"euro":  "€",
	"copy":  "©",
	"reg":   "®",
}

// DecodeEntities resolves HTML character entities in a single pass.
// Numeric decimal (&#65;) and hex (&#x41;) forms decode alongside the
// named table. Double-encoded input only unwraps one layer:
// &amp;amp; decodes to &amp;
func DecodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		c := s[i]
		if c != '&' {
			b.WriteByte(c)
			i++
			continue
		}

		// find terminating semicolon within a sane window
		end := strings.IndexByte(s[i:], ';')
		if end <= 1 || end > 12 {
			b.WriteByte(c)
			i++
			continue
		}
		name := s[i+1 : i+end]

		if rep, ok := decodeOne(name); ok {
			b.WriteString(rep)
			i += end + 1
			continue
		}

		b.WriteByte(c)
		i++
	}
	return b.String()
}

// decodeOne resolves a single entity name without the & and ;
func decodeOne(name string) (string, bool) {
	if rep, ok := namedEntities[name]; ok {
		return rep, true
	}
	if len(name) > 1 && name[0] == '#' {
		digits := name[1:]
		base := 10
		if digits[0] == 'x' || digits[0] == 'X' {
			digits = digits[1:]
			base = 16
		}
		if digits == "" {
			return "", false
		}
		n, err := strconv.ParseInt(digits, base, 32)
		if err != nil || n < 0 || n > 0x10FFFF {
			return "", false
		}
		return string(rune(n)), true
	}
	return "", false
}

// Clean decodes entities, strips music note markers with their
// surrounding space, and trims
func Clean(s string) string {
	s = DecodeEntities(s)
	if strings.Contains(s, "♪") {
		s = strings.ReplaceAll(s, "♪", " ")
	}
	return strings.TrimSpace(collapseSpaces(s))
}

// collapseSpaces squeezes runs of spaces and tabs left by marker removal
func collapseSpaces(s string) string {
	if !strings.Contains(s, "  ") && !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
