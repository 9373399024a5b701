package mutagens

import "strings"

// Scanner blanks out comments and string/char literals line by line so that
// operators do not fire inside them. It carries block-comment state across
// lines and must be fed the lines of one file in order.
type Scanner struct {
	inBlock bool
}

// Mask returns text with comment and literal bytes replaced by spaces.
func (s *Scanner) Mask(text string) string {
	trimmed := strings.TrimLeft(text, " \t")
	if !s.inBlock && (strings.HasPrefix(trimmed, "#include") || strings.HasPrefix(trimmed, "#import")) {
		return strings.Repeat(" ", len(text))
	}

	out := []byte(text)

	for i := 0; i < len(out); i++ {
		if s.inBlock {
			if text[i] == '*' && i+1 < len(text) && text[i+1] == '/' {
				out[i], out[i+1] = ' ', ' '
				i++
				s.inBlock = false

				continue
			}

			out[i] = ' '

			continue
		}

		switch {
		case text[i] == '/' && i+1 < len(text) && text[i+1] == '/':
			blank(out, i, len(out))
			return string(out)
		case text[i] == '/' && i+1 < len(text) && text[i+1] == '*':
			out[i], out[i+1] = ' ', ' '
			i++
			s.inBlock = true
		case text[i] == '"' || text[i] == '\'':
			end := literalEnd(text, i)
			blank(out, i, end)
			i = end - 1
		}
	}

	return string(out)
}

// literalEnd returns the offset just past the literal opened at start. An
// unterminated literal runs to the end of the line.
func literalEnd(text string, start int) int {
	quote := text[start]

	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}

	return len(text)
}

func blank(b []byte, from, to int) {
	for i := from; i < to; i++ {
		b[i] = ' '
	}
}
