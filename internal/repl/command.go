package repl

import "strings"

// Kind identifies what a line of input asks for.
type Kind int

const (
	// Write appends the input to today's entry.
	Write Kind = iota
	// Ignore is blank input or a lone dash.
	Ignore
	Exit
	Help
	// Switch selects another existing journal.
	Switch
	// NewJournal creates a journal.
	NewJournal
	// Prev pages through earlier entries.
	Prev
	// Time shows the elapsed time between blocks of today's entry.
	Time
	// GTime is Time for every line.
	GTime
	Find
	// Open edits today's entry in the external editor.
	Open
	// Unknown is a slash command that is not recognised.
	Unknown
)

// Command is one parsed line of input. Text holds the input to write for
// Write, the argument following the command name otherwise.
type Command struct {
	Kind Kind
	Text string
}

var commands = []struct {
	names []string
	kind  Kind
}{
	{[]string{"/set", "/switch"}, Switch},
	{[]string{"/new"}, NewJournal},
	{[]string{"/last", "/prev"}, Prev},
	{[]string{"/gtime"}, GTime},
	{[]string{"/time"}, Time},
	{[]string{"/find"}, Find},
	{[]string{"/open"}, Open},
}

// Parse resolves a line of input into a Command.
func Parse(input string) Command {
	in := strings.TrimSpace(input)

	switch {
	case in == "/exit":
		return Command{Kind: Exit}
	case strings.HasPrefix(in, "?"), strings.HasPrefix(in, "/?"),
		strings.HasPrefix(in, "help"), strings.HasPrefix(in, "/help"):
		return Command{Kind: Help}
	case in == "" || in == "-":
		return Command{Kind: Ignore}
	case !strings.HasPrefix(in, "/"):
		return Command{Kind: Write, Text: input}
	}

	name, arg, _ := strings.Cut(in, " ")
	for _, c := range commands {
		for _, n := range c.names {
			// Commands match on their prefix, so "/times" still shows times.
			if strings.HasPrefix(name, n) {
				return Command{Kind: c.kind, Text: strings.TrimSpace(arg)}
			}
		}
	}
	return Command{Kind: Unknown, Text: name}
}
