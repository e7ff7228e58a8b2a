package extract

import (
	"context"
	"regexp"

	"github.com/FocuswithJustin/JuniperFootnotes/core/books"
	"github.com/FocuswithJustin/JuniperFootnotes/core/markup"
)

// DialectMySword is the name of the MySword extractor.
const DialectMySword = "mysword"

// rfPattern matches one MySword footnote: <RF> or <RF q=...> up to <Rf>.
var rfPattern = regexp.MustCompile(`(?s)<RF(?:\s[^>]*)?>(.*?)<Rf>`)

// MySword extracts <RF>...<Rf> footnotes from MySword verse text.
type MySword struct {
	opts Options
}

// NewMySword creates a MySword extractor.
func NewMySword(opts Options) *MySword {
	return &MySword{opts: opts}
}

func (x *MySword) Name() string { return DialectMySword }

// Extract scans MySword records whose Book is the decimal book number.
func (x *MySword) Extract(ctx context.Context, records []Record) (Mapping, Stats, error) {
	return run(ctx, DialectMySword, x.opts, (*books.Table).ByNumberString, x, records)
}

// Notes returns the footnotes of one verse. The catch word of each note comes
// from the text between the previous marker (or the verse start) and this one.
func (x *MySword) Notes(text string) []Footnote {
	var notes []Footnote
	prev := 0
	for _, loc := range rfPattern.FindAllStringSubmatchIndex(text, -1) {
		before := text[prev:loc[0]]
		payload := text[loc[2]:loc[3]]
		prev = loc[1]

		noteText := markup.MySwordNote.Clean(payload)
		notes = append(notes, Footnote{
			CatchWord: markup.CatchPhrase(before, markup.MySwordText, x.opts.CatchWords),
			NoteText:  noteText,
			NoteType:  markup.Classify(noteText),
		})
	}
	return notes
}
