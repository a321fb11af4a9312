package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes used when writing to a terminal.
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorGreen = "\033[32m"
	ColorCyan  = "\033[36m"
)

// IsInteractive reports whether both stdin and stderr are attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

// PromptYesNo writes question to out and reads a yes/no answer from in.
// Anything other than y/yes counts as no.
func PromptYesNo(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y]es / [n]o: ", question)

	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || response == "") {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	switch strings.TrimSpace(strings.ToLower(response)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ColorizeDiff adds colour codes to unified diff output when color is true.
// Added lines are green, removed lines red, headers and hunks cyan.
func ColorizeDiff(diff string, color bool) string {
	if !color {
		return diff
	}

	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			lines[i] = ColorCyan + line + ColorReset
		case line[0] == '+':
			lines[i] = ColorGreen + line + ColorReset
		case line[0] == '-':
			lines[i] = ColorRed + line + ColorReset
		}
	}
	return strings.Join(lines, "\n")
}

// StderrIsTerminal reports whether stderr supports color output.
func StderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
