package books

import (
	"testing"

	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		expr    string
		want    int
		has     []string
		missing []string
	}{
		{expr: "NT", want: 27, has: []string{"Matthew", "Revelation of John"}, missing: []string{"Malachi"}},
		{expr: "ot", want: 39, has: []string{"Genesis", "Malachi"}, missing: []string{"Matthew"}},
		{expr: NewTestamentScope, want: 27, has: []string{"Matthew"}, missing: []string{"Malachi"}},
		{expr: "Matt-Rev", want: 27},
		{expr: "66-40", want: 27},
		{expr: "Genesis, Exodus", want: 2, has: []string{"Genesis", "Exodus"}},
		{expr: "I Samuel-II Kings", want: 4, has: []string{"I Samuel", "II Kings"}, missing: []string{"I Chronicles"}},
		{expr: "Song of Solomon", want: 1, has: []string{"Song of Solomon"}},
		{expr: "1Sam", want: 1, has: []string{"I Samuel"}},
		{expr: "1 John", want: 1, has: []string{"I John"}, missing: []string{"II John"}},
		{expr: "1 John-3 John", want: 3, has: []string{"I John", "III John"}, missing: []string{"Jude"}},
		{expr: "2 Kings, 40", want: 2, has: []string{"II Kings", "Matthew"}},
		{expr: "Rev, 1", want: 2, has: []string{"Genesis", "Revelation of John"}},
		{expr: "OT, Matt", want: 40, has: []string{"Matthew"}, missing: []string{"Mark"}},
		{expr: "Jude, Jude", want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			set, err := ParseScope(tt.expr, KJV)
			if err != nil {
				t.Fatalf("ParseScope(%q) error: %v", tt.expr, err)
			}
			if len(set) != tt.want {
				t.Errorf("ParseScope(%q) has %d books, want %d: %v", tt.expr, len(set), tt.want, set.Names(KJV))
			}
			for _, name := range tt.has {
				if !set.Contains(name) {
					t.Errorf("ParseScope(%q) missing %q", tt.expr, name)
				}
			}
			for _, name := range tt.missing {
				if set.Contains(name) {
					t.Errorf("ParseScope(%q) unexpectedly contains %q", tt.expr, name)
				}
			}
		})
	}
}

func TestParseScopeAll(t *testing.T) {
	for _, expr := range []string{"", "  ", "all", "ALL"} {
		set, err := ParseScope(expr, KJV)
		if err != nil {
			t.Fatalf("ParseScope(%q) error: %v", expr, err)
		}
		if set != nil {
			t.Errorf("ParseScope(%q) = %v, want nil", expr, set)
		}
	}
}

func TestParseScopeInvalid(t *testing.T) {
	for _, expr := range []string{"Hezekiah", "67", "0", "40-", ",", "Gen,,Exod", "NT-Rev", "Gen Exod", "4 John"} {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseScope(expr, KJV)
			if err == nil {
				t.Fatalf("ParseScope(%q) succeeded, want error", expr)
			}
			var ve *errors.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("ParseScope(%q) error = %T, want *ValidationError", expr, err)
			}
		})
	}
}
