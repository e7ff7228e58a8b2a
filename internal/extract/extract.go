// Package extract finds footnote markers in raw verse markup and turns them
// into canonical footnotes keyed by verse location.
//
// Two dialects are supported: MySword (<RF>note<Rf>) and OSIS (<note> with
// <catchWord> and typed <rdg> readings). Both share one record loop that maps
// source book identifiers onto canonical names, applies the book scope and
// skips records it cannot place.
package extract

import (
	"context"

	"github.com/FocuswithJustin/JuniperFootnotes/core/books"
	"github.com/FocuswithJustin/JuniperFootnotes/core/canon"
	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
	"github.com/FocuswithJustin/JuniperFootnotes/internal/logging"
)

// Record is one verse of raw source text. Book is the source's own book
// identifier: the decimal book number for MySword, the OSIS book ID for SWORD.
type Record struct {
	Book    string
	Chapter int
	Verse   int
	Text    string
}

// Aliases for the canonical types extractors produce.
type (
	Key      = canon.Key
	Mapping  = canon.Mapping
	Footnote = canon.Footnote
)

// Stats counts the work done by one Extract call.
type Stats struct {
	Records int // records read
	Verses  int // distinct verses with at least one note
	Notes   int // notes extracted
	Skipped int // records whose book could not be mapped
}

// Options configures an extractor.
type Options struct {
	// Books maps source identifiers to canonical names. Defaults to books.KJV.
	Books *books.Table

	// Scope restricts extraction to these books. Nil means every book.
	Scope books.Set

	// CatchWords is the number of trailing words taken when a catch word is
	// resolved from verse context. Values below 1 mean a single word.
	CatchWords int

	// KeywordFallback classifies OSIS notes without typed readings by their
	// text instead of defaulting them to alternate.
	KeywordFallback bool
}

func (o Options) table() *books.Table {
	if o.Books == nil {
		return books.KJV
	}
	return o.Books
}

// Extractor turns raw verse records into a footnote mapping.
type Extractor interface {
	// Name returns the dialect name used in logs.
	Name() string
	// Extract scans records in order. Unknown books are logged and skipped.
	Extract(ctx context.Context, records []Record) (Mapping, Stats, error)
}

// scanner finds the notes in one verse, in marker order.
type scanner interface {
	Notes(text string) []Footnote
}

type bookResolver func(t *books.Table, id string) (books.Book, bool)

// run is the record loop shared by every dialect.
func run(ctx context.Context, source string, opts Options, resolve bookResolver, s scanner, records []Record) (Mapping, Stats, error) {
	table := opts.table()
	m := make(Mapping)
	var stats Stats

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		stats.Records++

		book, ok := resolve(table, rec.Book)
		if !ok {
			stats.Skipped++
			logging.UnknownBook(ctx, &errors.UnknownBookError{
				Source:  source,
				BookID:  rec.Book,
				Chapter: rec.Chapter,
				Verse:   rec.Verse,
			})
			continue
		}
		if !opts.Scope.Contains(book.Name) {
			continue
		}

		k := Key{Book: book.Name, Chapter: rec.Chapter, Verse: rec.Verse}
		for _, f := range s.Notes(rec.Text) {
			m.Add(k, f)
			stats.Notes++
		}
	}

	stats.Verses = len(m)
	logging.ExtractionSummary(ctx, source, stats.Records, stats.Verses, stats.Notes, stats.Skipped)
	return m, stats, nil
}

// New returns the extractor for a dialect name ("mysword" or "osis").
func New(dialect string, opts Options) (Extractor, error) {
	switch dialect {
	case DialectMySword:
		return NewMySword(opts), nil
	case DialectOSIS:
		return NewOSIS(opts), nil
	}
	return nil, errors.NewUnsupported("markup dialect", dialect)
}
