package markup

import "strings"

// NoteType is the semantic class of a footnote.
type NoteType string

const (
	// NoteLiteral is an original-language gloss ("Heb. ...", "Gr. ...").
	NoteLiteral NoteType = "literal"
	// NoteAlternate is an alternative English reading ("Or, ...").
	NoteAlternate NoteType = "alternate"
	// NoteMixed carries both kinds of information.
	NoteMixed NoteType = "mixed"
)

// Valid reports whether t is one of the three known note types.
func (t NoteType) Valid() bool {
	switch t {
	case NoteLiteral, NoteAlternate, NoteMixed:
		return true
	}
	return false
}

func (t NoteType) String() string { return string(t) }

// Lexical markers, matched case-insensitively as substrings.
var (
	literalMarkers = []string{
		"heb.", "gr.", "chald.", "greek",
		"the word in the original",
		"that is,",
	}
	alternateMarkers = []string{
		"or,", "or ",
		"some read,", "some copies read",
	}
)

// Classify assigns a note type to cleaned note text. Text matching both
// marker sets is mixed, text matching only the literal set is literal, and
// everything else, including text with no marker at all, is alternate.
func Classify(text string) NoteType {
	lower := strings.ToLower(text)
	literal := containsAny(lower, literalMarkers)
	alternate := containsAny(lower, alternateMarkers)

	switch {
	case literal && alternate:
		return NoteMixed
	case literal:
		return NoteLiteral
	default:
		return NoteAlternate
	}
}

// ClassifyReadings assigns a note type from OSIS <rdg type="..."> values:
// x-literal and alternate together are mixed, x-literal alone is literal, and
// anything else is alternate.
func ClassifyReadings(types []string) NoteType {
	var literal, alternate bool
	for _, t := range types {
		switch strings.TrimSpace(t) {
		case "x-literal":
			literal = true
		case "alternate":
			alternate = true
		}
	}

	switch {
	case literal && alternate:
		return NoteMixed
	case literal:
		return NoteLiteral
	default:
		return NoteAlternate
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
