package command

import (
	"strconv"
	"strings"
)

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command (preserving spacing for say/emote).
	RawArgs string
}

// shorthand prefixes that form a command on their own, e.g. "'hello" or ":waves".
const shorthand = "':"

// Parse splits a text line into a command and arguments.
//
// Postcondition: Returns a ParseResult. If line is empty, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	var cmd, rest string
	if strings.ContainsRune(shorthand, rune(line[0])) {
		cmd, rest = line[:1], line[1:]
	} else if i := strings.IndexAny(line, " \t"); i >= 0 {
		cmd, rest = strings.ToLower(line[:i]), line[i+1:]
	} else {
		return ParseResult{Command: strings.ToLower(line)}
	}

	rest = strings.TrimSpace(rest)
	var args []string
	if rest != "" {
		args = strings.Fields(rest)
	}
	return ParseResult{
		Command: cmd,
		Args:    args,
		RawArgs: rest,
	}
}

// ScoreOp is the mutation requested by the score command.
type ScoreOp int

const (
	ScoreShow ScoreOp = iota
	ScoreAdd
	ScoreSet
)

// ScoreArgs is the parsed form of "score <player> [+|= <value>]".
type ScoreArgs struct {
	Player string
	Op     ScoreOp
	// Raw is the value text as typed, kept for error messages.
	Raw   string
	Value int
	// Valid is false when Raw is not a non-negative integer.
	Valid bool
}

// ParseScore parses the raw argument text of the score command. The last
// '+' wins over '=' when both appear.
//
// Postcondition: Player is empty when no name was given.
func ParseScore(raw string) ScoreArgs {
	raw = strings.TrimSpace(raw)
	var out ScoreArgs
	name := raw
	if i := strings.LastIndex(raw, "+"); i >= 0 {
		name, out.Raw, out.Op = raw[:i], raw[i+1:], ScoreAdd
	} else if i := strings.LastIndex(raw, "="); i >= 0 {
		name, out.Raw, out.Op = raw[:i], raw[i+1:], ScoreSet
	}
	out.Player = strings.TrimSpace(name)
	if out.Player == "" {
		return ScoreArgs{}
	}
	out.Raw = strings.TrimSpace(out.Raw)
	if out.Op != ScoreShow {
		out.Value, out.Valid = digits(out.Raw)
	}
	return out
}

// digits accepts only unsigned decimal numbers.
func digits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
