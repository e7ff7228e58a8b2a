// Package books holds the static table of the 66 canonical books and the
// lookups the extractors use to map source identifiers onto canonical names.
//
// The table is immutable configuration data: it is built once at package
// initialisation and handed to extractors by reference.
package books

import (
	"sort"
	"strconv"
	"strings"
)

// Testament identifies the Old or New Testament.
type Testament string

const (
	OldTestament Testament = "OT"
	NewTestament Testament = "NT"
)

// Book describes one canonical book.
type Book struct {
	Number    int       // 1-66, MySword/e-Sword numbering
	Name      string    // canonical document name (e.g. "I Samuel")
	OSIS      string    // OSIS book ID (e.g. "1Sam")
	Testament Testament
}

// Table is a lookup table over a fixed list of books.
type Table struct {
	books    []Book
	byNumber map[int]int
	byName   map[string]int
	byOSIS   map[string]int
	byAlias  map[string]int
}

var canon = []Book{
	{1, "Genesis", "Gen", OldTestament},
	{2, "Exodus", "Exod", OldTestament},
	{3, "Leviticus", "Lev", OldTestament},
	{4, "Numbers", "Num", OldTestament},
	{5, "Deuteronomy", "Deut", OldTestament},
	{6, "Joshua", "Josh", OldTestament},
	{7, "Judges", "Judg", OldTestament},
	{8, "Ruth", "Ruth", OldTestament},
	{9, "I Samuel", "1Sam", OldTestament},
	{10, "II Samuel", "2Sam", OldTestament},
	{11, "I Kings", "1Kgs", OldTestament},
	{12, "II Kings", "2Kgs", OldTestament},
	{13, "I Chronicles", "1Chr", OldTestament},
	{14, "II Chronicles", "2Chr", OldTestament},
	{15, "Ezra", "Ezra", OldTestament},
	{16, "Nehemiah", "Neh", OldTestament},
	{17, "Esther", "Esth", OldTestament},
	{18, "Job", "Job", OldTestament},
	{19, "Psalms", "Ps", OldTestament},
	{20, "Proverbs", "Prov", OldTestament},
	{21, "Ecclesiastes", "Eccl", OldTestament},
	{22, "Song of Solomon", "Song", OldTestament},
	{23, "Isaiah", "Isa", OldTestament},
	{24, "Jeremiah", "Jer", OldTestament},
	{25, "Lamentations", "Lam", OldTestament},
	{26, "Ezekiel", "Ezek", OldTestament},
	{27, "Daniel", "Dan", OldTestament},
	{28, "Hosea", "Hos", OldTestament},
	{29, "Joel", "Joel", OldTestament},
	{30, "Amos", "Amos", OldTestament},
	{31, "Obadiah", "Obad", OldTestament},
	{32, "Jonah", "Jonah", OldTestament},
	{33, "Micah", "Mic", OldTestament},
	{34, "Nahum", "Nah", OldTestament},
	{35, "Habakkuk", "Hab", OldTestament},
	{36, "Zephaniah", "Zeph", OldTestament},
	{37, "Haggai", "Hag", OldTestament},
	{38, "Zechariah", "Zech", OldTestament},
	{39, "Malachi", "Mal", OldTestament},
	{40, "Matthew", "Matt", NewTestament},
	{41, "Mark", "Mark", NewTestament},
	{42, "Luke", "Luke", NewTestament},
	{43, "John", "John", NewTestament},
	{44, "Acts", "Acts", NewTestament},
	{45, "Romans", "Rom", NewTestament},
	{46, "I Corinthians", "1Cor", NewTestament},
	{47, "II Corinthians", "2Cor", NewTestament},
	{48, "Galatians", "Gal", NewTestament},
	{49, "Ephesians", "Eph", NewTestament},
	{50, "Philippians", "Phil", NewTestament},
	{51, "Colossians", "Col", NewTestament},
	{52, "I Thessalonians", "1Thess", NewTestament},
	{53, "II Thessalonians", "2Thess", NewTestament},
	{54, "I Timothy", "1Tim", NewTestament},
	{55, "II Timothy", "2Tim", NewTestament},
	{56, "Titus", "Titus", NewTestament},
	{57, "Philemon", "Phlm", NewTestament},
	{58, "Hebrews", "Heb", NewTestament},
	{59, "James", "Jas", NewTestament},
	{60, "I Peter", "1Pet", NewTestament},
	{61, "II Peter", "2Pet", NewTestament},
	{62, "I John", "1John", NewTestament},
	{63, "II John", "2John", NewTestament},
	{64, "III John", "3John", NewTestament},
	{65, "Jude", "Jude", NewTestament},
	{66, "Revelation of John", "Rev", NewTestament},
}

// aliases maps other common spellings onto canonical names.
var aliases = map[string]string{
	"1 samuel": "I Samuel", "2 samuel": "II Samuel",
	"1 kings": "I Kings", "2 kings": "II Kings",
	"1 chronicles": "I Chronicles", "2 chronicles": "II Chronicles",
	"psalm":           "Psalms",
	"song of songs":   "Song of Solomon",
	"canticles":       "Song of Solomon",
	"1 corinthians":   "I Corinthians",
	"2 corinthians":   "II Corinthians",
	"1 thessalonians": "I Thessalonians",
	"2 thessalonians": "II Thessalonians",
	"1 timothy":       "I Timothy",
	"2 timothy":       "II Timothy",
	"1 peter":         "I Peter",
	"2 peter":         "II Peter",
	"1 john":          "I John",
	"2 john":          "II John",
	"3 john":          "III John",
	"revelation":      "Revelation of John",
	"revelations":     "Revelation of John",
}

// KJV is the default 66-book table.
var KJV = NewTable(canon)

// NewTable builds a lookup table over list. Book numbers, names and OSIS IDs
// are expected to be unique.
func NewTable(list []Book) *Table {
	t := &Table{
		books:    append([]Book(nil), list...),
		byNumber: make(map[int]int, len(list)),
		byName:   make(map[string]int, len(list)),
		byOSIS:   make(map[string]int, len(list)),
		byAlias:  make(map[string]int, len(aliases)),
	}
	for i, b := range t.books {
		t.byNumber[b.Number] = i
		t.byName[strings.ToLower(b.Name)] = i
		t.byOSIS[strings.ToLower(b.OSIS)] = i
	}
	for alias, name := range aliases {
		if i, ok := t.byName[strings.ToLower(name)]; ok {
			t.byAlias[alias] = i
		}
	}
	return t
}

// Books returns the books in canonical order.
func (t *Table) Books() []Book {
	return append([]Book(nil), t.books...)
}

// Len returns the number of books in the table.
func (t *Table) Len() int { return len(t.books) }

// ByNumber looks up a book by its 1-based number.
func (t *Table) ByNumber(n int) (Book, bool) {
	i, ok := t.byNumber[n]
	if !ok {
		return Book{}, false
	}
	return t.books[i], true
}

// ByNumberString looks up a book by a decimal number string, as stored in
// MySword records.
func (t *Table) ByNumberString(s string) (Book, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Book{}, false
	}
	return t.ByNumber(n)
}

// ByOSIS looks up a book by OSIS ID, case-insensitively.
func (t *Table) ByOSIS(id string) (Book, bool) {
	i, ok := t.byOSIS[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Book{}, false
	}
	return t.books[i], true
}

// ByName looks up a book by canonical name or a known alias, case-insensitively.
func (t *Table) ByName(name string) (Book, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if i, ok := t.byName[key]; ok {
		return t.books[i], true
	}
	if i, ok := t.byAlias[key]; ok {
		return t.books[i], true
	}
	return Book{}, false
}

// Lookup resolves a number, OSIS ID, name or alias.
func (t *Table) Lookup(id string) (Book, bool) {
	if b, ok := t.ByNumberString(id); ok {
		return b, true
	}
	if b, ok := t.ByOSIS(id); ok {
		return b, true
	}
	return t.ByName(id)
}

// Testament returns every book of testament tm in canonical order.
func (t *Table) Testament(tm Testament) []Book {
	var out []Book
	for _, b := range t.books {
		if b.Testament == tm {
			out = append(out, b)
		}
	}
	return out
}

// Range returns the books from first to last inclusive in table order. The
// endpoints may be given in either order.
func (t *Table) Range(first, last Book) []Book {
	i, ok1 := t.byNumber[first.Number]
	j, ok2 := t.byNumber[last.Number]
	if !ok1 || !ok2 {
		return nil
	}
	if i > j {
		i, j = j, i
	}
	return append([]Book(nil), t.books[i:j+1]...)
}

// Set is a set of canonical book names.
type Set map[string]bool

// NewSet builds a set from books.
func NewSet(list ...Book) Set {
	s := make(Set, len(list))
	for _, b := range list {
		s[b.Name] = true
	}
	return s
}

// Contains reports whether name is in the set. A nil Set contains every book.
func (s Set) Contains(name string) bool {
	if s == nil {
		return true
	}
	return s[name]
}

// Names returns the names in s ordered as in table t. Names unknown to t are
// appended in lexical order.
func (s Set) Names(t *Table) []string {
	var out []string
	seen := make(map[string]bool, len(s))
	for _, b := range t.books {
		if s[b.Name] {
			out = append(out, b.Name)
			seen[b.Name] = true
		}
	}
	var rest []string
	for name := range s {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
