package tts

import (
	"strings"
	"unicode/utf8"
)

// splitText cuts text into chunks of at most limit runes, breaking on sep
// where possible. Pieces longer than the limit on their own are split on
// rune boundaries.
func splitText(text, sep string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	sepLen := utf8.RuneCountInString(sep)
	var chunks []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, part := range strings.Split(text, sep) {
		partLen := utf8.RuneCountInString(part)
		if partLen > limit {
			flush()
			chunks = append(chunks, hardSplit(part, limit)...)
			continue
		}
		if curLen > 0 && curLen+sepLen+partLen > limit {
			flush()
		}
		if curLen > 0 {
			cur.WriteString(sep)
			curLen += sepLen
		}
		cur.WriteString(part)
		curLen += partLen
	}
	flush()
	return chunks
}

func hardSplit(s string, limit int) []string {
	runes := []rune(s)
	var out []string
	for len(runes) > limit {
		out = append(out, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
