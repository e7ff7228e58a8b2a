package canon

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/JuniperFootnotes/core/books"
	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
)

// Mode selects how Merge treats verses the mapping has no entry for.
type Mode string

const (
	// ModePartial replaces footnotes only for mapped verses of books in scope.
	ModePartial Mode = "partial"
	// ModeFull replaces footnotes for every verse; unmapped verses lose theirs.
	ModeFull Mode = "full"
)

// ParseMode parses a merge mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePartial, "":
		return ModePartial, nil
	case ModeFull:
		return ModeFull, nil
	}
	return "", &errors.ValidationError{Field: "policy", Value: s, Message: "must be partial or full"}
}

// Policy is a merge policy.
type Policy struct {
	Mode  Mode
	Scope books.Set // partial only; nil means every book
}

// Partial returns a policy that updates only books in scope. A nil scope
// covers every book; an empty, non-nil scope covers none.
func Partial(scope books.Set) Policy {
	return Policy{Mode: ModePartial, Scope: scope}
}

// Full returns a policy that replaces footnotes throughout the document.
func Full() Policy {
	return Policy{Mode: ModeFull}
}

func (p Policy) String() string {
	if p.Mode != ModePartial {
		return string(p.Mode)
	}
	if p.Scope == nil {
		return "partial(all)"
	}
	return fmt.Sprintf("partial(%d books)", len(p.Scope))
}

func (p Policy) covers(book string) bool {
	return p.Mode == ModeFull || p.Scope.Contains(book)
}

// MergeReport summarises one Merge call.
type MergeReport struct {
	Mode          Mode
	VersesUpdated int    // verses whose footnotes were set from the mapping
	VersesCleared int    // verses that lost their footnotes under ModeFull
	Footnotes     int    // records in the rebuilt flat list
	Unmatched     int    // mapping keys that addressed no verse in scope
	Digest        string // BLAKE3 digest of the flat list
}

// Merge applies mapping m to doc under policy p and rebuilds the flat footnote
// list. Keys that address no verse are counted and otherwise ignored.
func Merge(doc *Document, m Mapping, p Policy) MergeReport {
	report := MergeReport{Mode: p.Mode}
	matched := make(map[Key]bool, len(m))

	doc.Verses(func(b *Book, c *Chapter, v *Verse) bool {
		if !p.covers(b.Name) {
			return true
		}
		k := Key{Book: b.Name, Chapter: c.Chapter, Verse: v.Verse}
		notes, ok := m[k]
		switch {
		case ok:
			matched[k] = true
			v.Footnotes = append([]Footnote(nil), notes...)
			report.VersesUpdated++
		case p.Mode == ModeFull:
			if len(v.Footnotes) > 0 {
				report.VersesCleared++
			}
			v.Footnotes = nil
		}
		return true
	})

	report.Unmatched = len(m) - len(matched)
	report.Footnotes = Rebuild(doc)
	report.Digest = Digest(doc.Footnotes)
	return report
}

// Rebuild regenerates doc.Footnotes from the inline footnotes in book, chapter,
// verse and in-verse order, numbering records from 1. It returns the number of
// records.
func Rebuild(doc *Document) int {
	flat := make([]FootnoteRecord, 0, len(doc.Footnotes))
	doc.Verses(func(b *Book, c *Chapter, v *Verse) bool {
		for _, f := range v.Footnotes {
			flat = append(flat, FootnoteRecord{
				ID:        len(flat) + 1,
				Book:      b.Name,
				Chapter:   c.Chapter,
				Verse:     v.Verse,
				CatchWord: f.CatchWord,
				NoteText:  f.NoteText,
				NoteType:  f.NoteType,
			})
		}
		return true
	})
	doc.Footnotes = flat
	return len(flat)
}
