// Package mysword reads raw verse markup from MySword Bible databases.
//
// A MySword Bible module (.bbl.mybible) is a SQLite database with a Bible
// table (Book, Chapter, Verse, Scripture) and an info table of name/value
// metadata. Older conversions name the verse table Books.
package mysword

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/JuniperFootnotes/core/books"
	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
	"github.com/FocuswithJustin/JuniperFootnotes/core/sqlite"
	"github.com/FocuswithJustin/JuniperFootnotes/internal/extract"
)

// verseTables are the accepted verse table names, in lookup order.
var verseTables = []string{"Bible", "Books"}

// Reader reads verse records from one MySword database.
type Reader struct {
	db       *sql.DB
	path     string
	table    string
	metadata map[string]string
}

// Open opens a MySword Bible database read-only.
func Open(ctx context.Context, path string) (*Reader, error) {
	if kind := DetectModuleType(path); kind != "" && kind != "bible" {
		return nil, errors.NewUnsupported("MySword module", kind+" modules carry no verse text")
	}

	db, err := sqlite.OpenReadOnly(ctx, path)
	if err != nil {
		return nil, err
	}

	r := &Reader{db: db, path: path, metadata: make(map[string]string)}
	if r.table, err = r.findVerseTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	// Metadata is optional.
	_ = r.loadMetadata(ctx)
	return r, nil
}

// Close closes the database connection.
func (r *Reader) Close() error {
	if r.db != nil {
		err := r.db.Close()
		r.db = nil
		return err
	}
	return nil
}

// Path returns the database path.
func (r *Reader) Path() string { return r.path }

// Metadata returns an info table value by name.
func (r *Reader) Metadata(name string) string {
	return r.metadata[name]
}

func (r *Reader) findVerseTable(ctx context.Context) (string, error) {
	for _, name := range verseTables {
		var found string
		err := r.db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&found)
		if err == nil {
			return found, nil
		}
		if err != sql.ErrNoRows {
			return "", errors.NewIO("query", r.path, err)
		}
	}
	return "", errors.NewParse("MySword", r.path, "no Bible or Books table")
}

func (r *Reader) loadMetadata(ctx context.Context) error {
	rows, err := r.db.QueryContext(ctx, "SELECT name, value FROM info")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value sql.NullString
		if err := rows.Scan(&name, &value); err != nil {
			continue
		}
		r.metadata[name.String] = value.String
	}
	return rows.Err()
}

// Query selects verse records.
type Query struct {
	FirstBook int // 0 means no lower bound
	LastBook  int // 0 means no upper bound

	// FootnotesOnly returns only verses containing an <RF marker.
	FootnotesOnly bool
}

// QueryForScope returns a query covering the book numbers of scope. A nil
// scope is unbounded, so records with unknown book numbers still reach the
// extractor and are reported there.
func QueryForScope(scope books.Set, t *books.Table) Query {
	q := Query{FootnotesOnly: true}
	if scope == nil {
		return q
	}
	for _, b := range t.Books() {
		if !scope.Contains(b.Name) {
			continue
		}
		if q.FirstBook == 0 || b.Number < q.FirstBook {
			q.FirstBook = b.Number
		}
		if b.Number > q.LastBook {
			q.LastBook = b.Number
		}
	}
	if q.FirstBook == 0 {
		// Empty scope: select nothing.
		q.FirstBook, q.LastBook = 1, -1
	}
	return q
}

func (q Query) sql(table string) (string, []any) {
	var where []string
	var args []any
	if q.FirstBook != 0 {
		where = append(where, "Book >= ?")
		args = append(args, q.FirstBook)
	}
	if q.LastBook != 0 {
		where = append(where, "Book <= ?")
		args = append(args, q.LastBook)
	}
	if q.FootnotesOnly {
		where = append(where, "Scripture LIKE '%<RF%'")
	}

	stmt := fmt.Sprintf("SELECT Book, Chapter, Verse, Scripture FROM %s", table)
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	return stmt + " ORDER BY Book, Chapter, Verse", args
}

// Records returns the verse records selected by q in canonical order. Book is
// the decimal MySword book number.
func (r *Reader) Records(ctx context.Context, q Query) ([]extract.Record, error) {
	stmt, args := q.sql(r.table)
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.NewIO("query", r.path, err)
	}
	defer rows.Close()

	var records []extract.Record
	for rows.Next() {
		var book, chapter, verse int
		var scripture sql.NullString
		if err := rows.Scan(&book, &chapter, &verse, &scripture); err != nil {
			return nil, errors.NewIO("read", r.path, err)
		}
		records = append(records, extract.Record{
			Book:    strconv.Itoa(book),
			Chapter: chapter,
			Verse:   verse,
			Text:    scripture.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("read", r.path, err)
	}
	return records, nil
}

// DetectModuleType determines the type of MySword module from its file name.
func DetectModuleType(filename string) string {
	base := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(base, ".commentaries.mybible"):
		return "commentary"
	case strings.HasSuffix(base, ".dictionary.mybible"):
		return "dictionary"
	case strings.HasSuffix(base, ".mybible"):
		return "bible"
	}
	return ""
}
