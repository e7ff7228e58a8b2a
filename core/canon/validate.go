package canon

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
)

//go:embed schema.json
var schemaJSON []byte

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to load document schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile document schema: %w", err)
	}
	return schema, nil
})

// ValidateSchema checks canonical document JSON against the document schema.
func ValidateSchema(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return &errors.ParseError{Format: "JSON", Message: err.Error()}
	}
	if err := schema.Validate(v); err != nil {
		return &errors.ValidationError{Field: "document", Message: err.Error()}
	}
	return nil
}

// Problem is one invariant violation found by Check.
type Problem struct {
	Path    string
	Message string
}

func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return p.Path + ": " + p.Message
}

// maxRecordProblems caps how many flat-list mismatches Check reports.
const maxRecordProblems = 10

// Check verifies the structural invariants of doc: unique book names, unique
// positive chapter and verse numbers, valid note types, and a flat footnote
// list that equals the inline footnotes in traversal order with ids 1..N.
func Check(doc *Document) []Problem {
	var problems []Problem
	add := func(path, format string, args ...any) {
		problems = append(problems, Problem{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	names := make(map[string]bool, len(doc.Books))
	for bi, b := range doc.Books {
		if b == nil {
			add(fmt.Sprintf("books[%d]", bi), "null book")
			continue
		}
		if names[b.Name] {
			add(fmt.Sprintf("books[%d]", bi), "duplicate book name %q", b.Name)
		}
		names[b.Name] = true

		chapters := make(map[int]bool, len(b.Chapters))
		for ci, c := range b.Chapters {
			cpath := fmt.Sprintf("%s[%d]", b.Name, ci)
			if c == nil {
				add(cpath, "null chapter")
				continue
			}
			if c.Chapter < 1 || chapters[c.Chapter] {
				add(cpath, "invalid or duplicate chapter number %d", c.Chapter)
			}
			chapters[c.Chapter] = true

			verses := make(map[int]bool, len(c.Verses))
			for vi, v := range c.Verses {
				vpath := fmt.Sprintf("%s %d[%d]", b.Name, c.Chapter, vi)
				if v == nil {
					add(vpath, "null verse")
					continue
				}
				if v.Verse < 1 || verses[v.Verse] {
					add(vpath, "invalid or duplicate verse number %d", v.Verse)
				}
				verses[v.Verse] = true
				for fi, f := range v.Footnotes {
					if !f.NoteType.Valid() {
						add(fmt.Sprintf("%s %d:%d footnotes[%d]", b.Name, c.Chapter, v.Verse, fi),
							"invalid note type %q", f.NoteType)
					}
				}
			}
		}
	}

	expected := &Document{Books: doc.Books}
	Rebuild(expected)
	if len(expected.Footnotes) != len(doc.Footnotes) {
		add("footnotes", "has %d records, inline footnotes total %d", len(doc.Footnotes), len(expected.Footnotes))
	}
	mismatches := 0
	for i := 0; i < len(doc.Footnotes) && i < len(expected.Footnotes); i++ {
		if doc.Footnotes[i] == expected.Footnotes[i] {
			continue
		}
		if mismatches++; mismatches > maxRecordProblems {
			break
		}
		got, want := doc.Footnotes[i], expected.Footnotes[i]
		add(fmt.Sprintf("footnotes[%d]", i), "record id %d %s %d:%d does not match inline footnote id %d %s %d:%d",
			got.ID, got.Book, got.Chapter, got.Verse, want.ID, want.Book, want.Chapter, want.Verse)
	}
	return problems
}
