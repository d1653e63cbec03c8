package engine

import (
	"reflect"
	"sync"
	"testing"

	"github.com/ummet-social/censor/denylist"
)

func newDefault(opt Options) *Engine {
	e := New(opt)
	e.ReplaceAll(denylist.Default().Terms())
	return e
}

func TestScanReferenceScenarios(t *testing.T) {
	e := newDefault(Options{})

	if got := e.Scan("Bugün çok güzel bir gün"); got.Found {
		t.Fatalf("clean sentence matched: %v", got.MatchedTerms)
	}

	got := e.Scan("Bu yorum tam bir siktir git")
	if !got.Found || !containsTerm(got.MatchedTerms, "siktir") {
		t.Fatalf("expected siktir, got %+v", got)
	}
	if !containsTerm(got.MatchedTerms, "siktir git") {
		t.Fatalf("expected phrase match, got %v", got.MatchedTerms)
	}

	if got := e.Scan("FUCK this"); !got.Found || !containsTerm(got.MatchedTerms, "fuck") {
		t.Fatalf("expected case-insensitive match, got %+v", got)
	}

	if got := e.Scan("sakın ahmaklaşma"); !got.Found || !containsTerm(got.MatchedTerms, "ahmak") {
		t.Fatalf("substring mode must match inside words, got %+v", got)
	}
}

func TestScanEmptyInput(t *testing.T) {
	e := newDefault(Options{})
	got := e.Scan("")
	if got.Found || got.MatchedTerms == nil || len(got.MatchedTerms) != 0 {
		t.Fatalf("unexpected result for empty input: %#v", got)
	}

	empty := New(Options{})
	got = empty.Scan("anything")
	if got.Found || got.MatchedTerms == nil {
		t.Fatalf("unexpected result for empty engine: %#v", got)
	}
}

func TestScanReportsTermsInInstallOrder(t *testing.T) {
	e := New(Options{})
	e.ReplaceAll([]string{"zeta", "alpha", "mid"})
	got := e.Scan("alpha mid zeta alpha")
	want := []string{"zeta", "alpha", "mid"}
	if !reflect.DeepEqual(got.MatchedTerms, want) {
		t.Fatalf("expected %v, got %v", want, got.MatchedTerms)
	}
}

func TestScanIsIdempotent(t *testing.T) {
	e := newDefault(Options{})
	a := e.Scan("Sen ne ahmak bir bastard'sın")
	b := e.Scan("Sen ne ahmak bir bastard'sın")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("results differ: %v vs %v", a, b)
	}
}

func TestScanEveryTermEmbeddedInNoise(t *testing.T) {
	e := newDefault(Options{})
	for _, term := range e.Terms() {
		for _, variant := range []string{term, upperASCII(term)} {
			got := e.Scan("xx " + variant + "yy")
			if !got.Found || !containsTerm(got.MatchedTerms, term) {
				t.Fatalf("term %q not found in variant %q: %v", term, variant, got.MatchedTerms)
			}
		}
	}
}

func TestWordModeRequiresWholeTokens(t *testing.T) {
	e := newDefault(Options{Mode: MatchWord})
	if got := e.Scan("sakın ahmaklaşma"); got.Found {
		t.Fatalf("word mode must not match inside words: %v", got.MatchedTerms)
	}
	if got := e.Scan("Sen bir AHMAK!"); !containsTerm(got.MatchedTerms, "ahmak") {
		t.Fatalf("expected whole word match, got %v", got.MatchedTerms)
	}
	got := e.Scan("bu yorum: siktir,   git")
	if !containsTerm(got.MatchedTerms, "siktir git") {
		t.Fatalf("phrase must match across punctuation, got %v", got.MatchedTerms)
	}
}

func TestWildcardLiteralKeepsStarPlain(t *testing.T) {
	e := New(Options{})
	e.ReplaceAll([]string{"s*ktir"})
	if got := e.Scan("sektir"); got.Found {
		t.Fatalf("literal mode must not expand wildcard: %v", got.MatchedTerms)
	}
	if got := e.Scan("ne s*ktir"); !got.Found {
		t.Fatalf("literal star must match literally")
	}
}

func TestWildcardExpandMatchesOneCharacter(t *testing.T) {
	e := New(Options{Wildcards: WildcardExpand})
	e.ReplaceAll([]string{"s*ktir", "***"})
	if e.Count() != 1 {
		t.Fatalf("pure-wildcard term must be dropped, got %v", e.Terms())
	}
	for _, in := range []string{"sektir", "S1KTIR lan", "s*ktir", "sıktir"} {
		if got := e.Scan(in); !got.Found {
			t.Fatalf("expected %q to match", in)
		}
	}
	if got := e.Scan("sktir"); got.Found {
		t.Fatalf("wildcard must consume exactly one character")
	}

	w := New(Options{Mode: MatchWord, Wildcards: WildcardExpand})
	w.ReplaceAll([]string{"f*ck"})
	if got := w.Scan("what the f@ck"); got.Found {
		t.Fatalf("'@' splits tokens in word mode")
	}
	if got := w.Scan("what the fuck"); !got.Found {
		t.Fatalf("expected word wildcard match")
	}
	if got := w.Scan("fucking"); got.Found {
		t.Fatalf("word wildcard must match whole tokens only")
	}
}

func TestTurkishFolding(t *testing.T) {
	plain := New(Options{})
	plain.ReplaceAll([]string{"siktir"})
	if got := plain.Scan("SİKTİR"); !got.Found {
		t.Fatalf("plain folding must map İ to i")
	}

	tr := New(Options{Fold: FoldTurkish})
	tr.ReplaceAll([]string{"siktir", "ırz"})
	if got := tr.Scan("SİKTİR"); !got.Found {
		t.Fatalf("turkish folding must map İ to i")
	}
	if got := tr.Scan("IRZ düşmanı"); !got.Found {
		t.Fatalf("turkish folding must map I to ı")
	}
	if got := plain.Scan("IRZ"); got.Found {
		t.Fatalf("plain engine has no such term")
	}
}

func TestAddRemoveAndStats(t *testing.T) {
	e := New(Options{})
	if e.AddTerm(" ") {
		t.Fatalf("empty term must be ignored")
	}
	if !e.AddTerm("Hello World") {
		t.Fatalf("term must be added")
	}
	if e.AddTerm("hello world") {
		t.Fatalf("duplicate term should be ignored")
	}
	if !e.RemoveTerm("HELLO world") {
		t.Fatalf("term must be removed")
	}
	if e.RemoveTerm("hello world") {
		t.Fatalf("missing term should not be removed")
	}
	_ = e.Scan("x")
	e.ReplaceAll([]string{"a", "b", "b", " "})
	if e.Count() != 2 {
		t.Fatalf("expected 2 terms, got %d", e.Count())
	}
	st := e.Stats()
	if st.TotalLookups == 0 || st.TotalReloadCount != 1 || st.TermCount != 2 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	e.Clear()
	if e.Count() != 0 {
		t.Fatalf("expected 0 after clear, got %d", e.Count())
	}
}

func TestEngineConcurrentAccess(t *testing.T) {
	e := New(Options{})
	e.AddTerm("spam")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := e.Scan("SPAM spam"); !got.Found {
				t.Errorf("spam must always be found")
			}
			_ = e.AddTerm("x")
			_ = e.RemoveTerm("x")
		}()
	}
	wg.Wait()
}

func containsTerm(terms []string, want string) bool {
	for _, t := range terms {
		if t == want {
			return true
		}
	}
	return false
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}

func TestTurkishFoldingUppercaseTerms(t *testing.T) {
	tr := New(Options{Fold: FoldTurkish})
	tr.ReplaceAll(denylist.New([]string{"IRZ", "KİN"}).Terms())
	if got := tr.Terms(); !reflect.DeepEqual(got, []string{"ırz", "kin"}) {
		t.Fatalf("unexpected folded terms %v", got)
	}
	for _, in := range []string{"IRZ", "ırz düşmanı", "Irz", "KİN", "kin tutma"} {
		if got := tr.Scan(in); !got.Found {
			t.Fatalf("expected %q to match", in)
		}
	}
	if got := tr.Scan("irz"); got.Found {
		t.Fatalf("dotted i must not match a dotless term: %v", got.MatchedTerms)
	}

	plain := New(Options{})
	plain.ReplaceAll(denylist.New([]string{"IRZ"}).Terms())
	if got := plain.Scan("irz"); !got.Found {
		t.Fatalf("plain folding must map I to i")
	}
}

func TestWordModePunctuatedTerms(t *testing.T) {
	e := New(Options{Mode: MatchWord})
	e.ReplaceAll([]string{"s*ktir", "a.q"})
	for _, in := range []string{"s ktir", "bir a q dedi", "aa.qq", "sektir"} {
		if got := e.Scan(in); got.Found {
			t.Fatalf("%q must not match: %v", in, got.MatchedTerms)
		}
	}
	for _, in := range []string{"ne s*ktir", "bu A.Q ne", "a.q", "(a.q)"} {
		if got := e.Scan(in); !got.Found {
			t.Fatalf("expected %q to match", in)
		}
	}

	x := New(Options{Mode: MatchWord, Wildcards: WildcardExpand})
	x.ReplaceAll([]string{"a.*"})
	if got := x.Scan("bu a.q ne"); !got.Found {
		t.Fatalf("expected wildcard bounded match")
	}
	if got := x.Scan("bu a.qq ne"); got.Found {
		t.Fatalf("bounded match must end on a word boundary")
	}
}
