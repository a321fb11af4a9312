package guide

import "strings"

const (
	fenceMarker     = "```"
	defaultLanguage = "bash"
)

type lineKind int

const (
	lineText lineKind = iota
	lineFenceOpen
	lineFenceBody
	lineFenceClose
)

type scannedLine struct {
	text string
	kind lineKind
	lang string
}

// scanLines splits markdown into lines and marks every fenced code block.
// Fences do not nest: the first closing line ends the block. An opening line
// that is never closed, and everything after it, is left as plain text.
func scanLines(markdown string) []scannedLine {
	if markdown == "" {
		return nil
	}
	raw := strings.Split(markdown, "\n")
	lines := make([]scannedLine, len(raw))
	open := -1

	for i, text := range raw {
		text = strings.TrimSuffix(text, "\r")
		lines[i] = scannedLine{text: text}

		if open >= 0 {
			if isFenceClose(text) {
				lines[i].kind = lineFenceClose
				open = -1
			} else {
				lines[i].kind = lineFenceBody
			}
			continue
		}

		if lang, ok := parseFenceOpen(text); ok {
			lines[i].kind = lineFenceOpen
			lines[i].lang = lang
			open = i
		}
	}

	// No bare closing line follows an unclosed opener, so nothing after it
	// can be a complete fence either.
	if open >= 0 {
		for i := open; i < len(lines); i++ {
			lines[i].kind = lineText
			lines[i].lang = ""
		}
	}

	return lines
}

// parseFenceOpen reports whether line opens a fence and returns its language
// tag. The tag is the leading run of letters, digits, '-' and '_' of the info
// string; anything after it is ignored.
func parseFenceOpen(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, fenceMarker) {
		return "", false
	}
	info := strings.TrimSpace(trimmed[len(fenceMarker):])
	if strings.HasPrefix(info, "`") {
		return "", false
	}
	end := 0
	for end < len(info) && isTagByte(info[end]) {
		end++
	}
	return info[:end], true
}

func isFenceClose(line string) bool {
	return strings.TrimSpace(line) == fenceMarker
}

func isTagByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_':
		return true
	}
	return false
}

// headingText returns the trimmed text of an ATX heading of exactly the given
// level. Up to three leading spaces are allowed and the marker must be
// followed by whitespace and a non-empty title.
func headingText(line string, level int) (string, bool) {
	indent := 0
	for indent < len(line) && indent < 4 && line[indent] == ' ' {
		indent++
	}
	if indent > 3 {
		return "", false
	}
	rest := line[indent:]
	for i := 0; i < level; i++ {
		if i >= len(rest) || rest[i] != '#' {
			return "", false
		}
	}
	rest = rest[level:]
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	title := strings.TrimSpace(rest)
	if title == "" {
		return "", false
	}
	return title, true
}

// UnclosedFence returns the 1-based line number of a fence opener that is
// never closed, or 0 when every fence is terminated.
func UnclosedFence(markdown string) int {
	open := -1
	for i, text := range strings.Split(markdown, "\n") {
		text = strings.TrimSuffix(text, "\r")
		if open >= 0 {
			if isFenceClose(text) {
				open = -1
			}
			continue
		}
		if _, ok := parseFenceOpen(text); ok {
			open = i
		}
	}
	return open + 1
}
