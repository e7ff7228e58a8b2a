// Package canon models the canonical translation document: books, chapters and
// verses with inline footnotes, plus the flat top-level footnote list that is
// rebuilt from them after every merge.
//
// Only the fields the footnote pipeline owns are modelled. Every other member
// of the JSON objects is kept verbatim, in its original position, so loading
// and saving a document never loses data written by other tools.
package canon

import (
	"bytes"
	"encoding/json"

	"github.com/FocuswithJustin/JuniperFootnotes/core/markup"
)

// NoteType is the semantic type of a footnote.
type NoteType = markup.NoteType

// Document is the root of a canonical document.
type Document struct {
	members
	Books     []*Book
	Footnotes []FootnoteRecord
}

// Book is one book of a Document. Name is the location key component.
type Book struct {
	members
	Name     string
	Chapters []*Chapter
}

// Chapter is one chapter of a Book.
type Chapter struct {
	members
	Chapter int
	Verses  []*Verse
}

// Verse is one verse of a Chapter. A verse without footnotes has no
// "footnotes" member when saved.
type Verse struct {
	members
	Verse     int
	Text      string
	Footnotes []Footnote
}

// Footnote is the inline form of a note attached to a verse.
type Footnote struct {
	CatchWord string   `json:"catch_word"`
	NoteText  string   `json:"note_text"`
	NoteType  NoteType `json:"note_type"`
}

// FootnoteRecord is the flat form of a footnote with its location.
type FootnoteRecord struct {
	ID        int      `json:"id"`
	Book      string   `json:"book"`
	Chapter   int      `json:"chapter"`
	Verse     int      `json:"verse"`
	CatchWord string   `json:"catch_word"`
	NoteText  string   `json:"note_text"`
	NoteType  NoteType `json:"note_type"`
}

// Footnote returns the inline form of r.
func (r FootnoteRecord) Footnote() Footnote {
	return Footnote{CatchWord: r.CatchWord, NoteText: r.NoteText, NoteType: r.NoteType}
}

// Key addresses at most one verse of a Document.
type Key struct {
	Book    string
	Chapter int
	Verse   int
}

// Mapping holds newly extracted footnotes by location, in marker order.
type Mapping map[Key][]Footnote

// Add appends f to the notes of k.
func (m Mapping) Add(k Key, f Footnote) {
	m[k] = append(m[k], f)
}

// Notes returns the total number of footnotes in m.
func (m Mapping) Notes() int {
	n := 0
	for _, notes := range m {
		n += len(notes)
	}
	return n
}

// Verses visits every verse of d in document order. It stops early when fn
// returns false.
func (d *Document) Verses(fn func(b *Book, c *Chapter, v *Verse) bool) {
	for _, b := range d.Books {
		if b == nil {
			continue
		}
		for _, c := range b.Chapters {
			if c == nil {
				continue
			}
			for _, v := range c.Verses {
				if v == nil {
					continue
				}
				if !fn(b, c, v) {
					return
				}
			}
		}
	}
}

// Book returns the first book named name.
func (d *Document) Book(name string) *Book {
	for _, b := range d.Books {
		if b != nil && b.Name == name {
			return b
		}
	}
	return nil
}

// Verse returns the verse at k, or nil.
func (d *Document) Verse(k Key) *Verse {
	var found *Verse
	d.Verses(func(b *Book, c *Chapter, v *Verse) bool {
		if b.Name == k.Book && c.Chapter == k.Chapter && v.Verse == k.Verse {
			found = v
			return false
		}
		return true
	})
	return found
}

var null = []byte("null")

func (d Document) MarshalJSON() ([]byte, error) {
	bks := d.Books
	if bks == nil {
		bks = []*Book{}
	}
	fns := d.Footnotes
	if fns == nil {
		fns = []FootnoteRecord{}
	}
	return d.members.encode(
		member{key: "books", value: bks},
		member{key: "footnotes", value: fns},
	)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), null) {
		return nil
	}
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out Document
	if err := obj.take("books", &out.Books); err != nil {
		return err
	}
	if err := obj.take("footnotes", &out.Footnotes); err != nil {
		return err
	}
	out.members = obj.rest()
	*d = out
	return nil
}

func (b Book) MarshalJSON() ([]byte, error) {
	chs := b.Chapters
	if chs == nil {
		chs = []*Chapter{}
	}
	return b.members.encode(
		member{key: "name", value: b.Name},
		member{key: "chapters", value: chs},
	)
}

func (b *Book) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out Book
	if err := obj.take("name", &out.Name); err != nil {
		return err
	}
	if err := obj.take("chapters", &out.Chapters); err != nil {
		return err
	}
	out.members = obj.rest()
	*b = out
	return nil
}

func (c Chapter) MarshalJSON() ([]byte, error) {
	vs := c.Verses
	if vs == nil {
		vs = []*Verse{}
	}
	return c.members.encode(
		member{key: "chapter", value: c.Chapter},
		member{key: "verses", value: vs},
	)
}

func (c *Chapter) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out Chapter
	if err := obj.take("chapter", &out.Chapter); err != nil {
		return err
	}
	if err := obj.take("verses", &out.Verses); err != nil {
		return err
	}
	out.members = obj.rest()
	*c = out
	return nil
}

func (v Verse) MarshalJSON() ([]byte, error) {
	return v.members.encode(
		member{key: "verse", value: v.Verse},
		member{key: "text", value: v.Text},
		member{key: "footnotes", value: v.Footnotes, omit: len(v.Footnotes) == 0},
	)
}

func (v *Verse) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out Verse
	if err := obj.take("verse", &out.Verse); err != nil {
		return err
	}
	if err := obj.take("text", &out.Text); err != nil {
		return err
	}
	if err := obj.take("footnotes", &out.Footnotes); err != nil {
		return err
	}
	if len(out.Footnotes) == 0 {
		out.Footnotes = nil
	}
	out.members = obj.rest()
	*v = out
	return nil
}

// compile-time interface checks
var (
	_ json.Marshaler   = Document{}
	_ json.Unmarshaler = (*Document)(nil)
	_ json.Marshaler   = Book{}
	_ json.Marshaler   = Chapter{}
	_ json.Marshaler   = Verse{}
)
