package books

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
)

// NewTestamentScope is the scope used by NT-only partial extraction.
const NewTestamentScope = "40-66"

// scopeGrammar is the participle grammar for book scope expressions.
// Examples: "NT", "40-66", "Matt-Rev", "Genesis, Exodus", "I Samuel-II Kings, 19",
// "1 John-3 John"
//
//nolint:govet // participle grammar tags are not standard struct tags
type scopeGrammar struct {
	Items []*scopeItem `parser:"@@ ( \",\" @@ )*"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type scopeItem struct {
	From *scopeEndpoint `parser:"@@"`
	To   *scopeEndpoint `parser:"( \"-\" @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type scopeEndpoint struct {
	Number *int     `parser:"( @Int"`
	Suffix []string `parser:"  @Ident* )"`
	Words  []string `parser:"| @Ident+"`
}

// scopeLexer tokenises scope expressions. Ident accepts a leading 1-3 so that
// OSIS IDs such as "1Sam" lex as a single word.
var scopeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[1-3]?[A-Za-z][A-Za-z.]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[,\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var scopeParser = participle.MustBuild[scopeGrammar](
	participle.Lexer(scopeLexer),
	participle.Elide("Whitespace"),
)

// ParseScope parses a scope expression against table t. The expression is a
// comma separated list of books or inclusive ranges; a book is a number, an
// OSIS ID, or a name. The keywords OT and NT select a testament. An empty
// expression or "all" returns a nil Set, which contains every book.
func ParseScope(expr string, t *Table) (Set, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" || strings.EqualFold(expr, "all") {
		return nil, nil
	}

	parsed, err := scopeParser.ParseString("", expr)
	if err != nil {
		return nil, &errors.ValidationError{Field: "scope", Value: expr, Message: err.Error()}
	}

	set := make(Set)
	for _, item := range parsed.Items {
		if item.To == nil {
			if tm, ok := item.From.testament(); ok {
				for _, b := range t.Testament(tm) {
					set[b.Name] = true
				}
				continue
			}
		}

		from, err := item.From.resolve(t)
		if err != nil {
			return nil, err
		}
		if item.To == nil {
			set[from.Name] = true
			continue
		}
		to, err := item.To.resolve(t)
		if err != nil {
			return nil, err
		}
		for _, b := range t.Range(from, to) {
			set[b.Name] = true
		}
	}
	return set, nil
}

// text returns the endpoint as written. A number followed by words is a
// book name such as "1 John".
func (e *scopeEndpoint) text() string {
	if e.Number != nil {
		return strings.Join(append([]string{fmt.Sprint(*e.Number)}, e.Suffix...), " ")
	}
	return strings.Join(e.Words, " ")
}

func (e *scopeEndpoint) testament() (Testament, bool) {
	if e.Number != nil || len(e.Words) != 1 {
		return "", false
	}
	switch strings.ToUpper(e.Words[0]) {
	case "OT":
		return OldTestament, true
	case "NT":
		return NewTestament, true
	}
	return "", false
}

func (e *scopeEndpoint) resolve(t *Table) (Book, error) {
	var (
		b  Book
		ok bool
	)
	if e.Number != nil && len(e.Suffix) == 0 {
		b, ok = t.ByNumber(*e.Number)
	} else {
		b, ok = t.Lookup(e.text())
	}
	if !ok {
		return Book{}, errors.NewValidation("scope", fmt.Sprintf("unknown book %q", e.text()))
	}
	return b, nil
}
