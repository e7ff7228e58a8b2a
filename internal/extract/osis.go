package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/FocuswithJustin/JuniperFootnotes/core/books"
	"github.com/FocuswithJustin/JuniperFootnotes/core/markup"
	"github.com/FocuswithJustin/JuniperFootnotes/core/xml"
)

// DialectOSIS is the name of the OSIS extractor.
const DialectOSIS = "osis"

var (
	// notePattern matches a <note> element with content. Self-closing notes
	// carry no text and are not matched.
	notePattern      = regexp.MustCompile(`(?s)<note(?:\s[^>]*[^/>])?\s*>.*?</note>`)
	catchWordPattern = regexp.MustCompile(`(?s)<catchWord\b[^>]*>(.*?)</catchWord>`)
	rdgTypePattern   = regexp.MustCompile(`<rdg\b[^>]*\btype="([^"]*)"`)

	ellipsis = strings.NewReplacer("â€¦", "...", "…", "...")
)

// OSIS extracts <note> footnotes from OSIS verse text.
type OSIS struct {
	opts Options
}

// NewOSIS creates an OSIS extractor.
func NewOSIS(opts Options) *OSIS {
	return &OSIS{opts: opts}
}

func (x *OSIS) Name() string { return DialectOSIS }

// Extract scans OSIS records whose Book is an OSIS book ID or a book name.
func (x *OSIS) Extract(ctx context.Context, records []Record) (Mapping, Stats, error) {
	return run(ctx, DialectOSIS, x.opts, resolveOSIS, x, records)
}

func resolveOSIS(t *books.Table, id string) (books.Book, bool) {
	if b, ok := t.ByOSIS(id); ok {
		return b, true
	}
	return t.Lookup(id)
}

// Notes returns the footnotes of one verse in marker order.
func (x *OSIS) Notes(text string) []Footnote {
	var notes []Footnote
	for _, loc := range notePattern.FindAllStringIndex(text, -1) {
		raw := text[loc[0]:loc[1]]
		catch, found, types := parseNote(raw)
		if !found {
			// OSISText drops earlier notes, so the whole verse prefix is usable.
			catch = markup.CatchPhrase(text[:loc[0]], markup.OSISText, x.opts.CatchWords)
		}

		noteText := noteBody(raw)
		noteType := markup.ClassifyReadings(types)
		if len(types) == 0 && x.opts.KeywordFallback {
			noteType = markup.Classify(noteText)
		}
		notes = append(notes, Footnote{CatchWord: catch, NoteText: noteText, NoteType: noteType})
	}
	return notes
}

// parseNote reads the catch word and reading types of one note. Well-formed
// notes are queried as XML; anything else falls back to patterns.
func parseNote(raw string) (catch string, found bool, types []string) {
	if doc, err := xml.ParseFragment(raw); err == nil {
		if n, _ := doc.XPathFirst("//catchWord"); n != nil {
			catch, found = markup.CollapseSpace(n.InnerText()), true
		}
		rdgs, _ := doc.XPath("//rdg")
		types = xml.Attrs(rdgs, "type")
	} else {
		if m := catchWordPattern.FindStringSubmatch(raw); m != nil {
			catch, found = markup.OSISText.Clean(m[1]), true
		}
		for _, m := range rdgTypePattern.FindAllStringSubmatch(raw, -1) {
			types = append(types, m[1])
		}
	}
	return ellipsis.Replace(catch), found, types
}

// noteBody is the note text without the catch word and the separator that
// follows it.
func noteBody(raw string) string {
	s := markup.OSISNote.Clean(raw)
	return strings.TrimSpace(strings.TrimLeft(s, ":"))
}
