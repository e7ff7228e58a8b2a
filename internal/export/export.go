// Package export writes a canonical document in the downstream formats the
// project publishes: verse and footnote CSV files, and MySQL and PostgreSQL
// dumps.
package export

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/FocuswithJustin/JuniperFootnotes/core/canon"
	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
	"github.com/FocuswithJustin/JuniperFootnotes/internal/logging"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMySQL    Format = "mysql"
	FormatPostgres Format = "postgres"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatMySQL, FormatPostgres}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", errors.NewValidation("format", "expected csv, mysql or postgres, got "+s)
}

// Meta describes the translation being exported.
type Meta struct {
	Translation string // identifier used in file and table names
	Title       string
	License     string
}

var translationID = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// normalize validates the identifier and fills defaults. Title and license
// land in SQL comments so they are kept to one line.
func (m Meta) normalize() (Meta, error) {
	if !translationID.MatchString(m.Translation) {
		return m, errors.NewValidation("translation", "must be letters, digits or underscore: "+m.Translation)
	}
	if m.Title = oneLine(m.Title); m.Title == "" {
		m.Title = m.Translation
	}
	if m.License = oneLine(m.License); m.License == "" {
		m.License = "Unknown"
	}
	return m, nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// subdirs is the output layout under the export directory.
var subdirs = map[Format]string{
	FormatCSV:      "csv",
	FormatMySQL:    "sql",
	FormatPostgres: "psql",
}

// Export writes doc in format f under dir and returns the written paths.
func Export(ctx context.Context, f Format, doc *canon.Document, dir string, meta Meta) ([]string, error) {
	meta, err := meta.normalize()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := filepath.Join(dir, subdirs[f])
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, errors.NewIO("create", out, err)
	}

	var written []string
	write := func(name string, fn func(io.Writer) error) error {
		p := filepath.Join(out, name)
		if err := writeFile(p, fn); err != nil {
			return err
		}
		written = append(written, p)
		logging.InfoContext(ctx, "export_written", "format", string(f), "path", p)
		return nil
	}

	switch f {
	case FormatCSV:
		err = write(meta.Translation+".csv", func(w io.Writer) error { return VersesCSV(w, doc) })
		if err == nil && len(doc.Footnotes) > 0 {
			err = write(meta.Translation+"_footnotes.csv", func(w io.Writer) error { return FootnotesCSV(w, doc) })
		}
	case FormatMySQL, FormatPostgres:
		err = write(meta.Translation+".sql", func(w io.Writer) error { return SQL(w, f, doc, meta) })
	default:
		err = errors.NewUnsupported("export format", string(f))
	}
	return written, err
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return errors.NewIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewIO("close", path, err)
	}
	return nil
}
