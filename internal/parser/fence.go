package parser

import "strings"

const fenceMarker = "```"

// extractFenced returns the interior of the first fenced block in s.
//
// Grammar: a run of three or more backticks opens the block, followed by an
// optional language tag (letters, digits, '_', '-', '+', '.') and optional
// blanks up to and including the first newline. The block ends at the next
// backtick run of the same length; an unterminated block runs to the end of s.
// The second result is false when s contains no opening marker.
func extractFenced(s string) (string, bool) {
	start := strings.Index(s, fenceMarker)
	if start < 0 {
		return "", false
	}

	run := len(fenceMarker)
	for start+run < len(s) && s[start+run] == '`' {
		run++
	}
	rest := s[start+run:]

	tagLen := 0
	for tagLen < len(rest) && isTagByte(rest[tagLen]) {
		tagLen++
	}
	rest = rest[tagLen:]
	rest = strings.TrimLeft(rest, " \t")
	if strings.HasPrefix(rest, "\r\n") {
		rest = rest[2:]
	} else if strings.HasPrefix(rest, "\n") {
		rest = rest[1:]
	}

	closing := strings.Repeat("`", run)
	if end := strings.Index(rest, closing); end >= 0 {
		return rest[:end], true
	}
	return rest, true
}

func isTagByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_' || b == '-' || b == '+' || b == '.':
		return true
	}
	return false
}

// payload returns the text that should hold the JSON document.
func payload(raw string) string {
	if inner, ok := extractFenced(raw); ok {
		return strings.TrimSpace(inner)
	}
	return strings.TrimSpace(raw)
}
