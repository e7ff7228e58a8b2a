package markup

import "strings"

// trailingPunct is stripped from the end of the cleaned context before the
// last word is taken.
const trailingPunct = ":;,."

// CatchWord returns the word a footnote marker is anchored to: the last
// whitespace-delimited token of prefix after cleaning it with c and trimming
// trailing punctuation. An empty prefix yields "".
func CatchWord(prefix string, c *Cleaner) string {
	return CatchPhrase(prefix, c, 1)
}

// CatchPhrase is CatchWord returning up to n trailing tokens. n < 1 is treated
// as 1, which keeps the single-word behaviour of existing canonical output.
func CatchPhrase(prefix string, c *Cleaner, n int) string {
	clean := strings.TrimRight(c.Clean(prefix), trailingPunct)
	words := strings.Fields(clean)
	if len(words) == 0 {
		return ""
	}
	if n < 1 {
		n = 1
	}
	if n > len(words) {
		n = len(words)
	}
	return strings.Join(words[len(words)-n:], " ")
}
