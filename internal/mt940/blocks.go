// Package mt940 reads and writes the tag-delimited statement text format:
// an envelope of up to five {n:...} blocks whose fourth block carries
// :tag:body lines.
package mt940

import "strings"

const numBlocks = 5

// Block numbers in the envelope.
const (
	BlockBasicHeader       = 1
	BlockApplicationHeader = 2
	BlockUserHeader        = 3
	BlockText              = 4
	BlockTrailer           = 5
)

// terminator closes block 4 when it sits on its own line.
const terminator = "\n-}"

// Blocks holds the content of the five positional envelope blocks.
type Blocks struct {
	content [numBlocks]string
	present [numBlocks]bool
}

// Get returns block n (1-based) and whether it was present.
func (b Blocks) Get(n int) (string, bool) {
	if n < 1 || n > numBlocks {
		return "", false
	}
	return b.content[n-1], b.present[n-1]
}

// Count returns how many blocks were found.
func (b Blocks) Count() int {
	n := 0
	for _, p := range b.present {
		if p {
			n++
		}
	}
	return n
}

// SplitBlocks scans text for top-level {n:content} envelopes and places each
// content at position n. Digits outside 1-5 are skipped. A later block with
// the same number replaces an earlier one. Absent blocks are reported by Get.
func SplitBlocks(text string) Blocks {
	var b Blocks
	for i := 0; i+2 < len(text); i++ {
		if text[i] != '{' || text[i+2] != ':' || !isDigit(text[i+1]) {
			continue
		}
		start := i + 3
		n := int(text[i+1] - '0')
		end := blockEnd(text, start, n)
		if end < 0 {
			break
		}
		if n >= 1 && n <= numBlocks {
			b.content[n-1] = text[start:end]
			b.present[n-1] = true
		}
		i = end
	}
	return b
}

// blockEnd returns the index of the brace closing the block whose content
// starts at start, or -1 if the block is unterminated.
func blockEnd(text string, start, n int) int {
	if n == BlockText {
		// Narrative lines may contain braces; prefer the "-}" terminator.
		if idx := strings.Index(normalizedView(text[start:]), terminator); idx >= 0 {
			return start + idx + len(terminator) - 1
		}
	}
	depth := 0
	for j := start; j < len(text); j++ {
		switch text[j] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return j
			}
			depth--
		}
	}
	return -1
}

// normalizedView maps lone CRs to LF without changing string length, so
// indexes found in the view are valid in the original.
func normalizedView(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	return strings.ReplaceAll(s, "\r", "\n")
}

// messageStarts returns the top-level offsets at which a {1: block starts.
func messageStarts(text string) []int {
	var starts []int
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if depth == 0 && strings.HasPrefix(text[i:], "{1:") {
				starts = append(starts, i)
			}
			if depth == 0 && i+2 < len(text) && text[i+2] == ':' && text[i+1] == '4' {
				// Skip the text block as a whole; its lines may hold braces.
				if end := blockEnd(text, i+3, BlockText); end >= 0 {
					i = end
					continue
				}
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return starts
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
