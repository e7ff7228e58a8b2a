package export

import (
	"embed"
	"io"
	"strings"
	"text/template"

	"golang.org/x/text/unicode/norm"

	"github.com/FocuswithJustin/JuniperFootnotes/core/canon"
	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
)

//go:embed templates/*.sql.tmpl
var templateFS embed.FS

// mysqlEscaper matches the escaping MySQL clients apply to string literals.
var mysqlEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"\x00", "\\0",
	"\n", "\\n",
	"\r", "\\r",
	"\x1a", "\\Z",
	"'", "\\'",
	`"`, `\"`,
)

var postgresEscaper = strings.NewReplacer("'", "''")

// mojibake is the misdecoded right single quote found in some sources.
var mojibake = strings.NewReplacer("Ã†", "'")

// NormalizeText repairs known mojibake and applies NFKD normalisation.
func NormalizeText(s string) string {
	return norm.NFKD.String(mojibake.Replace(s))
}

func quoter(r *strings.Replacer) func(string) string {
	return func(s string) string { return "'" + r.Replace(s) + "'" }
}

func newTemplate(name string, r *strings.Replacer) *template.Template {
	str := quoter(r)
	return template.Must(template.New(name).Funcs(template.FuncMap{
		"str":  str,
		"text": func(s string) string { return str(NormalizeText(s)) },
	}).ParseFS(templateFS, "templates/"+name))
}

var sqlTemplates = map[Format]*template.Template{
	FormatMySQL:    newTemplate("mysql.sql.tmpl", mysqlEscaper),
	FormatPostgres: newTemplate("postgres.sql.tmpl", postgresEscaper),
}

type bookRow struct {
	Name string
}

type verseRow struct {
	BookID  int
	Chapter int
	Verse   int
	Text    string
}

type dump struct {
	Meta
	Books     []bookRow
	Verses    []verseRow
	Footnotes []canon.FootnoteRecord
}

// SQL writes a dump of doc for dialect f. Book ids follow document order
// starting at 1, matching the AUTO_INCREMENT/SERIAL ids the inserts produce.
func SQL(w io.Writer, f Format, doc *canon.Document, meta Meta) error {
	tmpl, ok := sqlTemplates[f]
	if !ok {
		return errors.NewUnsupported("SQL dialect", string(f))
	}
	meta, err := meta.normalize()
	if err != nil {
		return err
	}

	d := dump{Meta: meta, Footnotes: doc.Footnotes}
	for _, b := range doc.Books {
		if b == nil {
			continue
		}
		d.Books = append(d.Books, bookRow{Name: b.Name})
		id := len(d.Books)
		for _, c := range b.Chapters {
			if c == nil {
				continue
			}
			for _, v := range c.Verses {
				if v == nil {
					continue
				}
				d.Verses = append(d.Verses, verseRow{BookID: id, Chapter: c.Chapter, Verse: v.Verse, Text: v.Text})
			}
		}
	}
	return tmpl.Execute(w, d)
}
