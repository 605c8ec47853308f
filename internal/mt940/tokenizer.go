package mt940

import "strings"

// Tag is one :code:body unit of the text block. Continuation lines are
// joined into Body with "\n".
type Tag struct {
	Code string
	Body string
}

// Tokenize scans the text block into tags in order of appearance. Lines
// before the first tag are discarded; lines that do not open a tag are
// appended to the open one. A line holding only "-" ends the block.
func Tokenize(block string) []Tag {
	text := normalizeNewlines(block)
	text = strings.TrimSuffix(text, "\n")

	var (
		tags []Tag
		code string
		buf  []string
		open bool
	)
	flush := func() {
		if open {
			tags = append(tags, Tag{Code: code, Body: strings.Join(buf, "\n")})
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if line == "-" {
			break
		}
		if c, rest, ok := splitTagLine(line); ok {
			flush()
			code, buf, open = c, []string{rest}, true
			continue
		}
		if open {
			buf = append(buf, line)
		}
	}
	flush()
	return tags
}

// splitTagLine matches ":<code>:<rest>" where code is alphanumeric.
func splitTagLine(line string) (code, rest string, ok bool) {
	if len(line) < 3 || line[0] != ':' {
		return "", "", false
	}
	end := strings.IndexByte(line[1:], ':')
	if end <= 0 {
		return "", "", false
	}
	code = line[1 : 1+end]
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !isDigit(c) && !(c >= 'A' && c <= 'Z') && !(c >= 'a' && c <= 'z') {
			return "", "", false
		}
	}
	return code, line[2+end:], true
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
