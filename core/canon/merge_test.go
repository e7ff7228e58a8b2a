package canon

import (
	"bytes"
	"testing"

	"github.com/FocuswithJustin/JuniperFootnotes/core/books"
	"github.com/FocuswithJustin/JuniperFootnotes/core/markup"
)

func sampleDoc() *Document {
	doc := &Document{Books: []*Book{
		{Name: "Genesis", Chapters: []*Chapter{{Chapter: 1, Verses: []*Verse{
			{Verse: 1, Text: "In the beginning God created the heaven and the earth.",
				Footnotes: []Footnote{{"beginning", "Heb. first", markup.NoteLiteral}}},
			{Verse: 2, Text: "And the earth was without form, and void;"},
		}}}},
		{Name: "Matthew", Chapters: []*Chapter{{Chapter: 1, Verses: []*Verse{
			{Verse: 1, Text: "The book of the generation of Jesus Christ,"},
			{Verse: 2, Text: "Abraham begat Isaac;",
				Footnotes: []Footnote{{"Isaac", "Or, laughter", markup.NoteAlternate}}},
		}}}},
	}}
	Rebuild(doc)
	return doc
}

// assertFlatConsistent checks the flat list against the inline footnotes.
func assertFlatConsistent(t *testing.T, doc *Document) {
	t.Helper()
	inline := 0
	doc.Verses(func(_ *Book, _ *Chapter, v *Verse) bool {
		inline += len(v.Footnotes)
		return true
	})
	if len(doc.Footnotes) != inline {
		t.Fatalf("flat list has %d records, inline total %d", len(doc.Footnotes), inline)
	}
	for i, r := range doc.Footnotes {
		if r.ID != i+1 {
			t.Errorf("record %d has id %d", i, r.ID)
		}
	}
	if problems := Check(doc); len(problems) != 0 {
		t.Errorf("Check() = %v", problems)
	}
}

func footnotesOf(doc *Document, book string) map[Key][]Footnote {
	out := make(map[Key][]Footnote)
	doc.Verses(func(b *Book, c *Chapter, v *Verse) bool {
		if b.Name == book {
			out[Key{b.Name, c.Chapter, v.Verse}] = append([]Footnote(nil), v.Footnotes...)
		}
		return true
	})
	return out
}

func TestMergePartial(t *testing.T) {
	doc := sampleDoc()
	before := footnotesOf(doc, "Genesis")

	m := Mapping{
		{"Genesis", 1, 2}: {{"earth", "Heb. land", markup.NoteLiteral}},
		{"Matthew", 1, 1}: {
			{"book", "Gr. scroll", markup.NoteLiteral},
			{"generation", "Or, genealogy", markup.NoteAlternate},
		},
	}
	scope := books.NewSet(books.KJV.Testament(books.NewTestament)...)
	report := Merge(doc, m, Partial(scope))

	if report.VersesUpdated != 1 || report.VersesCleared != 0 || report.Unmatched != 1 || report.Footnotes != 4 {
		t.Errorf("report = %+v", report)
	}
	after := footnotesOf(doc, "Genesis")
	for k, notes := range before {
		if len(after[k]) != len(notes) {
			t.Errorf("%v changed outside scope: %v -> %v", k, notes, after[k])
		}
	}
	if got := doc.Verse(Key{"Matthew", 1, 2}).Footnotes; len(got) != 1 || got[0].CatchWord != "Isaac" {
		t.Errorf("partial merge must not delete unmapped notes, got %v", got)
	}
	if got := doc.Verse(Key{"Matthew", 1, 1}).Footnotes; len(got) != 2 || got[1].CatchWord != "generation" {
		t.Errorf("mapped verse = %v", got)
	}
	if doc.Footnotes[1].Book != "Matthew" || doc.Footnotes[1].CatchWord != "book" {
		t.Errorf("flat order wrong: %+v", doc.Footnotes)
	}
	assertFlatConsistent(t, doc)
}

func TestMergePartialEmptyScope(t *testing.T) {
	doc := sampleDoc()
	doc.Footnotes = nil
	m := Mapping{{"Matthew", 1, 1}: {{"book", "Gr. scroll", markup.NoteLiteral}}}

	report := Merge(doc, m, Partial(books.Set{}))
	if report.VersesUpdated != 0 || report.Unmatched != 1 || report.Footnotes != 2 {
		t.Errorf("report = %+v", report)
	}
	assertFlatConsistent(t, doc)
}

func TestMergePartialNilScopeCoversAll(t *testing.T) {
	doc := sampleDoc()
	m := Mapping{{"Genesis", 1, 2}: {{"earth", "Heb. land", markup.NoteLiteral}}}
	report := Merge(doc, m, Partial(nil))
	if report.VersesUpdated != 1 || report.Footnotes != 3 {
		t.Errorf("report = %+v", report)
	}
	assertFlatConsistent(t, doc)
}

func TestMergeFull(t *testing.T) {
	doc := sampleDoc()
	m := Mapping{
		{"Matthew", 1, 1}: {{"book", "Gr. scroll", markup.NoteLiteral}},
		{"Matthew", 9, 9}: {{"x", "y", markup.NoteAlternate}},
	}
	report := Merge(doc, m, Full())

	if report.VersesUpdated != 1 || report.VersesCleared != 2 || report.Unmatched != 1 || report.Footnotes != 1 {
		t.Errorf("report = %+v", report)
	}
	if doc.Verse(Key{"Genesis", 1, 1}).Footnotes != nil {
		t.Error("full merge should clear unmapped verses")
	}
	assertFlatConsistent(t, doc)

	first, err := marshalValue(doc)
	if err != nil {
		t.Fatal(err)
	}
	Merge(doc, m, Full())
	second, err := marshalValue(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("full merge not idempotent:\n%s\n%s", first, second)
	}
}

func TestMergeDoesNotAliasMapping(t *testing.T) {
	doc := sampleDoc()
	notes := []Footnote{{"book", "Gr. scroll", markup.NoteLiteral}}
	m := Mapping{{"Matthew", 1, 1}: notes}
	Merge(doc, m, Full())
	notes[0].CatchWord = "changed"
	if doc.Verse(Key{"Matthew", 1, 1}).Footnotes[0].CatchWord != "book" {
		t.Error("merged verse shares storage with the mapping")
	}
}

func TestMergeEmptyMappingEntryRemovesField(t *testing.T) {
	doc := sampleDoc()
	Merge(doc, Mapping{{"Genesis", 1, 1}: {}}, Partial(nil))
	if doc.Verse(Key{"Genesis", 1, 1}).Footnotes != nil {
		t.Error("empty mapped list should leave the verse without footnotes")
	}
	assertFlatConsistent(t, doc)
}

func TestRebuildOrder(t *testing.T) {
	doc := sampleDoc()
	doc.Footnotes = []FootnoteRecord{{ID: 99}}
	if n := Rebuild(doc); n != 2 {
		t.Fatalf("Rebuild() = %d, want 2", n)
	}
	want := []FootnoteRecord{
		{ID: 1, Book: "Genesis", Chapter: 1, Verse: 1, CatchWord: "beginning", NoteText: "Heb. first", NoteType: markup.NoteLiteral},
		{ID: 2, Book: "Matthew", Chapter: 1, Verse: 2, CatchWord: "Isaac", NoteText: "Or, laughter", NoteType: markup.NoteAlternate},
	}
	for i := range want {
		if doc.Footnotes[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, doc.Footnotes[i], want[i])
		}
	}
	if doc.Footnotes[0].Footnote() != doc.Books[0].Chapters[0].Verses[0].Footnotes[0] {
		t.Error("FootnoteRecord.Footnote() does not match the inline note")
	}
}

func TestDigest(t *testing.T) {
	a, b := sampleDoc(), sampleDoc()
	if Digest(a.Footnotes) != Digest(b.Footnotes) {
		t.Error("equal lists should have equal digests")
	}
	if len(Digest(nil)) != 64 || Digest(nil) != Digest([]FootnoteRecord{}) {
		t.Errorf("Digest(nil) = %q", Digest(nil))
	}
	b.Footnotes[0].NoteText = "Heb. head"
	if Digest(a.Footnotes) == Digest(b.Footnotes) {
		t.Error("different lists should have different digests")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModePartial, false},
		{"partial", ModePartial, false},
		{" FULL ", ModeFull, false},
		{"replace", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %q, %v", tt.in, got, err)
		}
	}
	if Full().String() != "full" || Partial(nil).String() != "partial(all)" || Partial(books.Set{"Jude": true}).String() != "partial(1 books)" {
		t.Error("Policy.String() mismatch")
	}
}
