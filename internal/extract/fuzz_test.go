package extract

import "testing"

func FuzzMySwordNotes(f *testing.F) {
	f.Add("In the beginning<RF>Gr. at first<Rf>")
	f.Add("<RF q=a><Rf><RF>")
	f.Add("<FR><WH1>x<Fr>,<RF><i>Or,</i> y<Rf>")
	x := NewMySword(Options{})
	f.Fuzz(func(t *testing.T, text string) {
		for _, n := range x.Notes(text) {
			if !n.NoteType.Valid() {
				t.Errorf("invalid note type %q for %q", n.NoteType, text)
			}
		}
	})
}

func FuzzOSISNotes(f *testing.F) {
	f.Add(`<note><catchWord>God</catchWord>: <rdg type="x-literal">Heb.</rdg></note>`)
	f.Add(`<note type="x"><catchWord>a</note></catchWord>`)
	f.Add(`<note>&bogus;</note><note/>`)
	x := NewOSIS(Options{KeywordFallback: true})
	f.Fuzz(func(t *testing.T, text string) {
		for _, n := range x.Notes(text) {
			if !n.NoteType.Valid() {
				t.Errorf("invalid note type %q for %q", n.NoteType, text)
			}
		}
	})
}
