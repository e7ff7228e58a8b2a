package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/FocuswithJustin/JuniperFootnotes/core/books"
	"github.com/FocuswithJustin/JuniperFootnotes/core/markup"
)

func TestNew(t *testing.T) {
	for _, dialect := range []string{DialectMySword, DialectOSIS} {
		x, err := New(dialect, Options{})
		if err != nil {
			t.Fatalf("New(%q): %v", dialect, err)
		}
		if x.Name() != dialect {
			t.Errorf("Name() = %q, want %q", x.Name(), dialect)
		}
	}
	if _, err := New("thml", Options{}); err == nil {
		t.Error("New(thml) should fail")
	}
}

func TestExtractCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewMySword(Options{}).Extract(ctx, []Record{{Book: "1", Chapter: 1, Verse: 1, Text: "x<RF>y<Rf>"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Extract() error = %v, want context.Canceled", err)
	}
}

func TestExtractScope(t *testing.T) {
	opts := Options{Scope: books.NewSet(books.KJV.Testament(books.NewTestament)...)}
	records := []Record{
		{Book: "1", Chapter: 1, Verse: 1, Text: "beginning<RF>Heb. first<Rf>"},
		{Book: "40", Chapter: 1, Verse: 1, Text: "generation<RF>Or, genealogy<Rf>"},
	}
	m, stats, err := NewMySword(opts).Extract(context.Background(), records)
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 1 || stats.Records != 2 || stats.Notes != 1 {
		t.Errorf("mapping = %v, stats = %+v", m, stats)
	}
	if _, ok := m[Key{Book: "Matthew", Chapter: 1, Verse: 1}]; !ok {
		t.Errorf("Matthew 1:1 missing from %v", m)
	}
}

func TestCatchWordsOption(t *testing.T) {
	x := NewMySword(Options{CatchWords: 2})
	notes := x.Notes("In the beginning<RF>Heb. first<Rf>")
	if len(notes) != 1 || notes[0].CatchWord != "the beginning" {
		t.Errorf("Notes() = %+v", notes)
	}
	if notes[0].NoteType != markup.NoteLiteral {
		t.Errorf("NoteType = %q", notes[0].NoteType)
	}
}
