package canon

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/FocuswithJustin/JuniperFootnotes/core/markup"
)

const compactDoc = `{"translation":"KJV","books":[{"name":"Genesis","abbrev":"Gen","chapters":[{"chapter":1,"verses":[{"verse":1,"text":"In the <i>beginning</i> & end","strongs":["H7225"],"footnotes":[]}]}]}],"footnotes":[]}`

func TestDocumentPreservesUnknownMembers(t *testing.T) {
	var doc Document
	if err := json.Unmarshal([]byte(compactDoc), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if raw, ok := doc.Extra("translation"); !ok || string(raw) != `"KJV"` {
		t.Errorf("Extra(translation) = %s, %v", raw, ok)
	}
	v := doc.Books[0].Chapters[0].Verses[0]
	if v.Footnotes != nil {
		t.Errorf("empty footnotes should decode as nil, got %#v", v.Footnotes)
	}

	out, err := marshalValue(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"translation":"KJV","books":[{"name":"Genesis","abbrev":"Gen","chapters":[{"chapter":1,"verses":[{"verse":1,"text":"In the <i>beginning</i> & end","strongs":["H7225"]}]}]}],"footnotes":[]}`
	if string(out) != want {
		t.Errorf("round trip:\n got %s\nwant %s", out, want)
	}
}

func TestVerseFootnotesPosition(t *testing.T) {
	var v Verse
	if err := json.Unmarshal([]byte(`{"verse":3,"text":"light","strongs":["H216"]}`), &v); err != nil {
		t.Fatal(err)
	}
	v.Footnotes = []Footnote{{CatchWord: "light", NoteText: "Heb. lamp", NoteType: markup.NoteLiteral}}

	out, err := marshalValue(v)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"verse":3,"text":"light","strongs":["H216"],"footnotes":[{"catch_word":"light","note_text":"Heb. lamp","note_type":"literal"}]}`
	if string(out) != want {
		t.Errorf("got %s\nwant %s", out, want)
	}

	fresh, err := marshalValue(Verse{Verse: 2, Text: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if string(fresh) != `{"verse":2,"text":"x"}` {
		t.Errorf("fresh verse = %s", fresh)
	}
}

func TestSetExtra(t *testing.T) {
	b := Book{Name: "Jude"}
	b.SetExtra("zeta", json.RawMessage(`1`))
	b.SetExtra("alpha", json.RawMessage(`true`))

	out, err := marshalValue(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"name":"Jude","chapters":[],"alpha":true,"zeta":1}` {
		t.Errorf("got %s", out)
	}
	if keys := b.ExtraKeys(); len(keys) != 2 || keys[0] != "alpha" {
		t.Errorf("ExtraKeys() = %v", keys)
	}
}

func TestEncodeLayout(t *testing.T) {
	doc := &Document{Books: []*Book{{
		Name:     "Jude",
		Chapters: []*Chapter{{Chapter: 1, Verses: []*Verse{{Verse: 1, Text: "Jude & <James>"}}}},
	}}}
	Rebuild(doc)

	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatal(err)
	}
	want := `{
    "books": [
        {
            "name": "Jude",
            "chapters": [
                {
                    "chapter": 1,
                    "verses": [
                        {
                            "verse": 1,
                            "text": "Jude & <James>"
                        }
                    ]
                }
            ]
        }
    ],
    "footnotes": []
}
`
	if buf.String() != want {
		t.Errorf("Encode():\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	for _, in := range []string{`[]`, `{"books":5}`, `{"books":[{"name":1}]}`, `{"books":[{"chapters":[{"verses":[{"verse":"one"}]}]}]}`} {
		var doc Document
		if err := json.Unmarshal([]byte(in), &doc); err == nil {
			t.Errorf("Unmarshal(%s) should fail", in)
		}
	}
}

func TestDocumentLookups(t *testing.T) {
	doc := sampleDoc()
	if doc.Book("Matthew") == nil || doc.Book("Mark") != nil {
		t.Error("Book() lookup wrong")
	}
	v := doc.Verse(Key{Book: "Genesis", Chapter: 1, Verse: 2})
	if v == nil || !strings.HasPrefix(v.Text, "And the earth") {
		t.Errorf("Verse() = %+v", v)
	}
	if doc.Verse(Key{Book: "Genesis", Chapter: 2, Verse: 1}) != nil {
		t.Error("Verse() should return nil for a missing key")
	}

	m := Mapping{}
	m.Add(Key{"Genesis", 1, 1}, Footnote{CatchWord: "a"})
	m.Add(Key{"Genesis", 1, 1}, Footnote{CatchWord: "b"})
	m.Add(Key{"Genesis", 1, 2}, Footnote{CatchWord: "c"})
	if m.Notes() != 3 || len(m) != 2 {
		t.Errorf("Mapping has %d keys and %d notes", len(m), m.Notes())
	}
}
