package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/FocuswithJustin/JuniperFootnotes/core/canon"
)

// VersesCSV writes one Book,Chapter,Verse,Text row per verse.
func VersesCSV(w io.Writer, doc *canon.Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Book", "Chapter", "Verse", "Text"}); err != nil {
		return err
	}
	var err error
	doc.Verses(func(b *canon.Book, c *canon.Chapter, v *canon.Verse) bool {
		err = cw.Write([]string{b.Name, strconv.Itoa(c.Chapter), strconv.Itoa(v.Verse), v.Text})
		return err == nil
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// FootnotesCSV writes the flat footnote list in id order.
func FootnotesCSV(w io.Writer, doc *canon.Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Book", "Chapter", "Verse", "CatchWord", "NoteText", "NoteType"}); err != nil {
		return err
	}
	for _, fn := range doc.Footnotes {
		row := []string{
			fn.Book,
			strconv.Itoa(fn.Chapter),
			strconv.Itoa(fn.Verse),
			fn.CatchWord,
			fn.NoteText,
			string(fn.NoteType),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
