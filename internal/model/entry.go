package model

// Direction selects the order in which journal history is walked.
type Direction int

const (
	// Backward walks from newer to older entries.
	Backward Direction = iota
	// Forward walks from older to newer entries.
	Forward
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// Step returns the number of days one step in d moves.
func (d Direction) Step() int {
	if d == Forward {
		return 1
	}
	return -1
}

// UnitKind tells whether a unit opens a new block or is nested under one.
type UnitKind int

const (
	// Block is a top-level unit preceded by a blank line.
	Block UnitKind = iota
	// Line is a unit indented one tab under the current block.
	Line
)

func (k UnitKind) String() string {
	if k == Line {
		return "line"
	}
	return "block"
}

// Separator returns the text that precedes a unit of this kind.
func (k UnitKind) Separator() string {
	if k == Line {
		return "\n\t"
	}
	return "\n\n"
}

// Unit is one timestamped piece of input within a day's entry.
type Unit struct {
	Clock   string   `json:"clock"`
	Kind    UnitKind `json:"-"`
	Content string   `json:"content"`
}

// Document is the structured view of an entry's text.
type Document struct {
	Heading string
	// Preamble is any text between the heading line and the first unit,
	// typically something typed by hand in an editor.
	Preamble string
	Units    []Unit
}
