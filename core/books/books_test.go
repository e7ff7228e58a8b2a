package books

import (
	"reflect"
	"testing"
)

func TestKJVTable(t *testing.T) {
	if got := KJV.Len(); got != 66 {
		t.Fatalf("KJV.Len() = %d, want 66", got)
	}
	if got := len(KJV.Testament(OldTestament)); got != 39 {
		t.Errorf("OT books = %d, want 39", got)
	}
	if got := len(KJV.Testament(NewTestament)); got != 27 {
		t.Errorf("NT books = %d, want 27", got)
	}

	seen := make(map[string]bool)
	for i, b := range KJV.Books() {
		if b.Number != i+1 {
			t.Errorf("book %q has number %d at position %d", b.Name, b.Number, i)
		}
		if seen[b.OSIS] {
			t.Errorf("duplicate OSIS id %q", b.OSIS)
		}
		seen[b.OSIS] = true
	}
}

func TestLookups(t *testing.T) {
	tests := []struct {
		name   string
		lookup func(string) (Book, bool)
		in     string
		want   string
		wantOK bool
	}{
		{"number", KJV.ByNumberString, "40", "Matthew", true},
		{"number with spaces", KJV.ByNumberString, " 9 ", "I Samuel", true},
		{"number out of range", KJV.ByNumberString, "67", "", false},
		{"number not numeric", KJV.ByNumberString, "Gen", "", false},
		{"osis", KJV.ByOSIS, "1Sam", "I Samuel", true},
		{"osis lower case", KJV.ByOSIS, "rev", "Revelation of John", true},
		{"osis unknown", KJV.ByOSIS, "Tob", "", false},
		{"name", KJV.ByName, "Song of Solomon", "Song of Solomon", true},
		{"name spacing and case", KJV.ByName, "  i   samuel ", "I Samuel", true},
		{"alias", KJV.ByName, "Revelation", "Revelation of John", true},
		{"alias arabic numeral", KJV.ByName, "1 John", "I John", true},
		{"lookup number", KJV.Lookup, "1", "Genesis", true},
		{"lookup osis", KJV.Lookup, "Phlm", "Philemon", true},
		{"lookup name", KJV.Lookup, "III John", "III John", true},
		{"lookup unknown", KJV.Lookup, "Hezekiah", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.lookup(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("lookup(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if got.Name != tt.want {
				t.Errorf("lookup(%q) = %q, want %q", tt.in, got.Name, tt.want)
			}
		})
	}
}

func TestRange(t *testing.T) {
	sam, _ := KJV.ByOSIS("1Sam")
	kgs, _ := KJV.ByOSIS("2Kgs")
	want := []string{"I Samuel", "II Samuel", "I Kings", "II Kings"}

	for _, pair := range [][2]Book{{sam, kgs}, {kgs, sam}} {
		var got []string
		for _, b := range KJV.Range(pair[0], pair[1]) {
			got = append(got, b.Name)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Range(%s, %s) = %v, want %v", pair[0].OSIS, pair[1].OSIS, got, want)
		}
	}

	if got := KJV.Range(Book{Number: 99}, sam); got != nil {
		t.Errorf("Range with unknown endpoint = %v, want nil", got)
	}
}

func TestSet(t *testing.T) {
	var all Set
	if !all.Contains("Genesis") || !all.Contains("anything") {
		t.Error("nil Set should contain every book")
	}

	s := NewSet(KJV.Testament(NewTestament)...)
	if !s.Contains("Matthew") || s.Contains("Malachi") {
		t.Errorf("NT set membership wrong: %v", s)
	}

	mixed := Set{"Revelation of John": true, "Zeta": true, "Genesis": true, "Alpha": true}
	want := []string{"Genesis", "Revelation of John", "Alpha", "Zeta"}
	if got := mixed.Names(KJV); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
