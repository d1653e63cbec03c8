package engine

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ummet-social/censor/models"
)

// MatchMode selects how a term must occur in the text.
type MatchMode int

const (
	// MatchSubstring reports a term found anywhere in the text, including
	// inside longer words.
	MatchSubstring MatchMode = iota
	// MatchWord requires whole tokens; phrases must match a run of tokens.
	MatchWord
)

// WildcardMode selects how '*' inside a term is treated.
type WildcardMode int

const (
	// WildcardLiteral matches '*' as a plain character.
	WildcardLiteral WildcardMode = iota
	// WildcardExpand lets '*' stand for exactly one character.
	WildcardExpand
)

// FoldMode selects the case folding applied to terms and text.
type FoldMode int

const (
	FoldLower FoldMode = iota
	// FoldTurkish maps I to ı and İ to i.
	FoldTurkish
)

const wildcard = '*'

// Options configure matching.
type Options struct {
	Mode      MatchMode
	Wildcards WildcardMode
	Fold      FoldMode
}

// Stats contains runtime in-memory engine metrics.
type Stats struct {
	TermCount        int64
	LastLookupNanos  int64
	TotalLookups     int64
	TotalTermHits    int64
	LastReloadNanos  int64
	TotalReloadCount int64
}

type term struct {
	text    string
	pattern []rune
	words   []string
	// bounded terms carry punctuation ("a.q") and are matched as a substring
	// delimited by non-word characters in word mode.
	bounded []rune
}

// snapshot is never modified once published.
type snapshot struct {
	terms []term
	index map[string]struct{}
}

// Engine stores denylist terms and executes case-insensitive lookup.
type Engine struct {
	opt Options

	mu   sync.Mutex
	snap atomic.Pointer[snapshot]

	lastLookupNanos atomic.Int64
	totalLookups    atomic.Int64
	totalTermHits   atomic.Int64
	lastReloadNanos atomic.Int64
	totalReloads    atomic.Int64
}

// New creates an empty engine.
func New(opt Options) *Engine {
	e := &Engine{opt: opt}
	e.snap.Store(&snapshot{index: map[string]struct{}{}})
	return e
}

// Options returns the matching options.
func (e *Engine) Options() Options {
	return e.opt
}

func (e *Engine) fold(s string) string {
	if e.opt.Fold == FoldTurkish {
		// A Caser keeps state, so one is built per call.
		return cases.Lower(language.Turkish).String(s)
	}
	return strings.ToLower(s)
}

// Fold applies the engine's case folding to s.
func (e *Engine) Fold(s string) string {
	return e.fold(s)
}

func (e *Engine) compile(raw string) (term, bool) {
	t := e.fold(strings.TrimSpace(raw))
	if t == "" {
		return term{}, false
	}
	expand := e.opt.Wildcards == WildcardExpand && strings.ContainsRune(t, wildcard)
	if expand && strings.Trim(t, string(wildcard)) == "" {
		return term{}, false
	}
	out := term{text: t}
	if expand {
		out.pattern = []rune(t)
	}
	if e.opt.Mode == MatchWord {
		if !wordsOnly(t, expand) {
			out.bounded = []rune(t)
			return out, true
		}
		out.words = splitTokens(t, expand)
		if len(out.words) == 0 {
			return term{}, false
		}
	}
	return out, true
}

func (s *snapshot) clone() *snapshot {
	next := &snapshot{
		terms: append([]term(nil), s.terms...),
		index: make(map[string]struct{}, len(s.index)+1),
	}
	for k := range s.index {
		next.index[k] = struct{}{}
	}
	return next
}

// AddTerm appends one term. It returns false for empty or known terms.
func (e *Engine) AddTerm(raw string) bool {
	t, ok := e.compile(raw)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	cur := e.snap.Load()
	if _, exists := cur.index[t.text]; exists {
		return false
	}
	next := cur.clone()
	next.terms = append(next.terms, t)
	next.index[t.text] = struct{}{}
	e.snap.Store(next)
	return true
}

// RemoveTerm deletes one term.
func (e *Engine) RemoveTerm(raw string) bool {
	t := e.fold(strings.TrimSpace(raw))
	if t == "" {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	cur := e.snap.Load()
	if _, exists := cur.index[t]; !exists {
		return false
	}
	next := &snapshot{
		terms: make([]term, 0, len(cur.terms)),
		index: make(map[string]struct{}, len(cur.index)),
	}
	for _, ct := range cur.terms {
		if ct.text == t {
			continue
		}
		next.terms = append(next.terms, ct)
		next.index[ct.text] = struct{}{}
	}
	e.snap.Store(next)
	return true
}

// ReplaceAll replaces all terms atomically, keeping their order.
func (e *Engine) ReplaceAll(terms []string) {
	start := time.Now()
	next := &snapshot{
		terms: make([]term, 0, len(terms)),
		index: make(map[string]struct{}, len(terms)),
	}
	for _, raw := range terms {
		t, ok := e.compile(raw)
		if !ok {
			continue
		}
		if _, exists := next.index[t.text]; exists {
			continue
		}
		next.index[t.text] = struct{}{}
		next.terms = append(next.terms, t)
	}

	e.mu.Lock()
	e.snap.Store(next)
	e.mu.Unlock()

	e.lastReloadNanos.Store(time.Since(start).Nanoseconds())
	e.totalReloads.Add(1)
}

// Clear removes all terms.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.snap.Store(&snapshot{index: map[string]struct{}{}})
	e.mu.Unlock()
}

// Count returns the term count.
func (e *Engine) Count() int {
	return len(e.snap.Load().terms)
}

// Terms returns the installed terms in order.
func (e *Engine) Terms() []string {
	s := e.snap.Load()
	out := make([]string, 0, len(s.terms))
	for _, t := range s.terms {
		out = append(out, t.text)
	}
	return out
}

// Scan reports every installed term found in text, in installation order.
// MatchedTerms is never nil.
func (e *Engine) Scan(text string) models.ScanResult {
	start := time.Now()
	defer func() {
		e.lastLookupNanos.Store(time.Since(start).Nanoseconds())
		e.totalLookups.Add(1)
	}()

	s := e.snap.Load()
	res := models.ScanResult{MatchedTerms: []string{}}
	if len(s.terms) == 0 || text == "" {
		return res
	}

	folded := e.fold(text)
	var m matcher
	if e.opt.Mode == MatchWord {
		m = newWordMatcher(folded, e.opt.Wildcards == WildcardExpand)
	} else {
		m = &substringMatcher{text: folded}
	}
	for _, t := range s.terms {
		if m.match(t) {
			res.MatchedTerms = append(res.MatchedTerms, t.text)
		}
	}

	res.Found = len(res.MatchedTerms) > 0
	e.totalTermHits.Add(int64(len(res.MatchedTerms)))
	return res
}

type matcher interface {
	match(t term) bool
}

type substringMatcher struct {
	text  string
	runes []rune
}

func (m *substringMatcher) match(t term) bool {
	if t.pattern == nil {
		return strings.Contains(m.text, t.text)
	}
	if m.runes == nil {
		m.runes = []rune(m.text)
	}
	return containsPattern(m.runes, t.pattern)
}

// containsPattern reports whether pat occurs in text with '*' matching any
// single rune.
func containsPattern(text, pat []rune) bool {
	for i := 0; i+len(pat) <= len(text); i++ {
		if runesMatch(text[i:i+len(pat)], pat) {
			return true
		}
	}
	return false
}

func runesMatch(text, pat []rune) bool {
	if len(text) != len(pat) {
		return false
	}
	for j, r := range pat {
		if r != wildcard && r != text[j] {
			return false
		}
	}
	return true
}

type wordMatcher struct {
	text   string
	runes  []rune
	tokens []string
	set    map[string]struct{}
	expand bool
}

func newWordMatcher(folded string, expand bool) *wordMatcher {
	tokens := splitTokens(folded, false)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return &wordMatcher{text: folded, tokens: tokens, set: set, expand: expand}
}

func (m *wordMatcher) match(t term) bool {
	if t.bounded != nil {
		return m.matchBounded(t)
	}
	if len(t.words) == 1 && t.pattern == nil {
		_, ok := m.set[t.words[0]]
		return ok
	}
	for i := 0; i+len(t.words) <= len(m.tokens); i++ {
		ok := true
		for j, w := range t.words {
			if !m.wordEqual(w, m.tokens[i+j]) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func (m *wordMatcher) wordEqual(w, tok string) bool {
	if !m.expand || !strings.ContainsRune(w, wildcard) {
		return w == tok
	}
	return runesMatch([]rune(tok), []rune(w))
}

func (m *wordMatcher) matchBounded(t term) bool {
	if m.runes == nil {
		m.runes = []rune(m.text)
	}
	n := len(t.bounded)
	for i := 0; i+n <= len(m.runes); i++ {
		seg := m.runes[i : i+n]
		if t.pattern != nil {
			if !runesMatch(seg, t.pattern) {
				continue
			}
		} else if string(seg) != t.text {
			continue
		}
		if i > 0 && isWordRune(m.runes[i-1], false) {
			continue
		}
		if i+n < len(m.runes) && isWordRune(m.runes[i+n], false) {
			continue
		}
		return true
	}
	return false
}

func isWordRune(r rune, keepWildcard bool) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || r == '_' || (keepWildcard && r == wildcard)
}

// wordsOnly reports whether t is made of word characters and spaces only.
func wordsOnly(t string, keepWildcard bool) bool {
	for _, r := range t {
		if !isWordRune(r, keepWildcard) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// splitTokens splits on anything that is not a letter, digit or underscore.
// With keepWildcard the '*' marker stays inside tokens.
func splitTokens(s string, keepWildcard bool) []string {
	res := make([]string, 0, 16)
	start := -1
	for i, r := range s {
		if isWordRune(r, keepWildcard) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			res = append(res, s[start:i])
			start = -1
		}
	}
	if start != -1 {
		res = append(res, s[start:])
	}
	return res
}

// Stats returns current metrics.
func (e *Engine) Stats() Stats {
	return Stats{
		TermCount:        int64(e.Count()),
		LastLookupNanos:  e.lastLookupNanos.Load(),
		TotalLookups:     e.totalLookups.Load(),
		TotalTermHits:    e.totalTermHits.Load(),
		LastReloadNanos:  e.lastReloadNanos.Load(),
		TotalReloadCount: e.totalReloads.Load(),
	}
}
