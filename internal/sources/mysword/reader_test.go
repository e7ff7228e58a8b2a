package mysword

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/FocuswithJustin/JuniperFootnotes/core/books"
	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
	"github.com/FocuswithJustin/JuniperFootnotes/core/sqlite"
)

// createTestDB writes a small MySword Bible database.
func createTestDB(t *testing.T, table string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "akjv.bbl.mybible")
	db := sqlite.MustOpen(path)
	defer db.Close()

	stmts := []string{
		"CREATE TABLE " + table + " (Book INT, Chapter INT, Verse INT, Scripture TEXT)",
		"CREATE TABLE info (name TEXT, value TEXT)",
		"INSERT INTO info VALUES ('description', 'King James Version with footnotes')",
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}

	verses := []struct {
		book, chapter, verse int
		text                 string
	}{
		{1, 1, 1, "In the beginning<RF>Heb. first<Rf> God created"},
		{1, 1, 2, "And the earth was without form"},
		{40, 1, 1, "The book<RF>Gr. scroll<Rf> of the generation"},
		{66, 22, 21, "The grace<RF q=a>Or, favour<Rf> of our Lord"},
		{67, 1, 1, "Extra<RF>Or, apocrypha<Rf>"},
	}
	for _, v := range verses {
		if _, err := db.Exec("INSERT INTO "+table+" VALUES (?, ?, ?, ?)", v.book, v.chapter, v.verse, v.text); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	return path
}

func TestRecords(t *testing.T) {
	ctx := context.Background()
	for _, table := range []string{"Bible", "Books"} {
		t.Run(table, func(t *testing.T) {
			r, err := Open(ctx, createTestDB(t, table))
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer r.Close()

			if got := r.Metadata("description"); got != "King James Version with footnotes" {
				t.Errorf("Metadata(description) = %q", got)
			}

			all, err := r.Records(ctx, Query{})
			if err != nil {
				t.Fatal(err)
			}
			if len(all) != 5 || all[0].Book != "1" || all[4].Book != "67" {
				t.Errorf("Records(all) = %+v", all)
			}

			notes, err := r.Records(ctx, Query{FootnotesOnly: true})
			if err != nil {
				t.Fatal(err)
			}
			if len(notes) != 4 {
				t.Errorf("Records(footnotes only) returned %d, want 4", len(notes))
			}

			nt, err := r.Records(ctx, Query{FirstBook: 40, LastBook: 66, FootnotesOnly: true})
			if err != nil {
				t.Fatal(err)
			}
			if len(nt) != 2 || nt[1].Chapter != 22 || nt[1].Verse != 21 {
				t.Errorf("Records(NT) = %+v", nt)
			}
		})
	}
}

func TestQueryForScope(t *testing.T) {
	nt, err := books.ParseScope(books.NewTestamentScope, books.KJV)
	if err != nil {
		t.Fatal(err)
	}
	if q := QueryForScope(nt, books.KJV); q.FirstBook != 40 || q.LastBook != 66 || !q.FootnotesOnly {
		t.Errorf("QueryForScope(NT) = %+v", q)
	}
	if q := QueryForScope(nil, books.KJV); q.FirstBook != 0 || q.LastBook != 0 {
		t.Errorf("QueryForScope(nil) = %+v", q)
	}

	stmt, args := QueryForScope(books.Set{}, books.KJV).sql("Bible")
	if len(args) != 2 || args[0] != 1 || args[1] != -1 {
		t.Errorf("empty scope query = %s %v", stmt, args)
	}
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	if _, err := Open(ctx, filepath.Join(dir, "missing.bbl.mybible")); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Open(missing) = %v, want ErrNotFound", err)
	}
	if _, err := Open(ctx, filepath.Join(dir, "mhc.commentaries.mybible")); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("Open(commentary) = %v, want ErrUnsupported", err)
	}

	empty := filepath.Join(dir, "empty.bbl.mybible")
	db := sqlite.MustOpen(empty)
	if _, err := db.Exec("CREATE TABLE other (x INT)"); err != nil {
		t.Fatal(err)
	}
	db.Close()
	var pe *errors.ParseError
	if _, err := Open(ctx, empty); !errors.As(err, &pe) {
		t.Errorf("Open(no verse table) = %v, want ParseError", err)
	}
}

func TestDetectModuleType(t *testing.T) {
	tests := map[string]string{
		"akjv.bbl.mybible":          "bible",
		"MHC.commentaries.mybible":  "commentary",
		"easton.dictionary.mybible": "dictionary",
		"notes.txt":                 "",
	}
	for in, want := range tests {
		if got := DetectModuleType(in); got != want {
			t.Errorf("DetectModuleType(%q) = %q, want %q", in, got, want)
		}
	}
}
