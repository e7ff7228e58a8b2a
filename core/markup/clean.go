// Package markup turns the inline markup found in Bible module verse text into
// plain text, resolves footnote catch words, and classifies note text.
//
// Cleaning is rule based rather than grammar based: source markup is not
// guaranteed to be well formed, so a Cleaner applies an ordered list of
// independent pattern rules and leaves anything it does not recognise in place.
package markup

import (
	"regexp"
	"strings"
)

// Rule is one tag-removal step of a Cleaner.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

// Cleaner strips one markup dialect's tags from text fragments.
// A nil *Cleaner only decodes entities and collapses whitespace.
type Cleaner struct {
	name  string
	rules []Rule
}

// NewCleaner creates a cleaner that applies rules in the given order.
func NewCleaner(name string, rules ...Rule) *Cleaner {
	return &Cleaner{name: name, rules: append([]Rule(nil), rules...)}
}

// rule builds a Rule that deletes every match of pattern.
func rule(name, pattern string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern)}
}

// spaced builds a Rule that replaces every match of pattern with a space so
// the text on either side stays separate words.
func spaced(name, pattern string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern), Replace: " "}
}

// Name returns the cleaner's dialect name.
func (c *Cleaner) Name() string {
	if c == nil {
		return "plain"
	}
	return c.name
}

// Rules returns a copy of the cleaner's rules in application order.
func (c *Cleaner) Rules() []Rule {
	if c == nil {
		return nil
	}
	return append([]Rule(nil), c.rules...)
}

// With returns a new cleaner with extra rules appended after the existing ones.
func (c *Cleaner) With(name string, rules ...Rule) *Cleaner {
	return NewCleaner(name, append(c.Rules(), rules...)...)
}

// Strip applies the tag rules only, without entity decoding or whitespace
// normalisation.
func (c *Cleaner) Strip(s string) string {
	if c == nil {
		return s
	}
	for _, r := range c.rules {
		s = r.Pattern.ReplaceAllString(s, r.Replace)
	}
	return s
}

// Clean returns the plain text of s: tags removed (content between paired
// tags is kept), known entities decoded, whitespace runs collapsed to a single
// space and the result trimmed.
func (c *Cleaner) Clean(s string) string {
	s = c.Strip(s)
	s = DecodeEntities(s)
	return CollapseSpace(s)
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&#39;", "'",
	"&nbsp;", " ",
)

// DecodeEntities decodes the HTML entities that occur in module text.
// Unknown entities are left untouched.
func DecodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityReplacer.Replace(s)
}

// CollapseSpace replaces every run of Unicode whitespace with one space and
// trims both ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// genericTag matches any remaining angle-bracket tag. It never spans a '<' so a
// stray less-than sign in prose survives.
var genericTag = rule("tag", `<[^<>]+>`)

// MySwordText cleans MySword verse text (the context before an <RF> marker).
var MySwordText = NewCleaner("mysword-text",
	spaced("title", `<T[Ss]>`),
	rule("strongs", `<W[HG]\d+[a-z]?>`),
	rule("morphology", `<WT[^>]*>`),
	rule("format", `</?F[ROIUBAroiuba]>`),
	rule("paragraph", `<CM>|<CL>|<PF\d>|<PI\d>`),
	rule("pilcrow", `(?:Â)?¶\s*`),
	rule("crossref", `<RX[^>]*>`),
	genericTag,
)

// MySwordNote cleans the payload between <RF> and <Rf>.
var MySwordNote = NewCleaner("mysword-note",
	rule("italic", `</?i>`),
	rule("bold", `</?b>`),
	genericTag,
)

// OSISText cleans OSIS verse text (the context before a <note> element).
var OSISText = NewCleaner("osis-text",
	rule("note", `(?s)<note\b[^>]*>.*?</note>`),
	spaced("title", `</?title\b[^>]*>`),
	rule("word", `</?w\b[^>]*>`),
	rule("transChange", `</?transChange\b[^>]*>`),
	rule("milestone", `<milestone\b[^>]*/>`),
	genericTag,
)

// OSISNote cleans the text of an OSIS <note> element. The catch word element is
// dropped entirely; reading wrappers keep their content.
var OSISNote = NewCleaner("osis-note",
	rule("catchWord", `(?s)<catchWord>.*?</catchWord>`),
	rule("noteOpen", `<note[^>]*>`),
	rule("noteClose", `</note>`),
	rule("rdgOpen", `<rdg[^>]*>`),
	rule("rdgClose", `</rdg>`),
	genericTag,
)
