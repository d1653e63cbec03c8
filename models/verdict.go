package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Category is a moderation score category.
type Category string

const (
	CategoryToxic      Category = "toxic"
	CategoryObscene    Category = "obscene"
	CategoryHate       Category = "hate"
	CategoryThreat     Category = "threat"
	CategoryHarassment Category = "harassment"
	CategorySelfHarm   Category = "selfHarm"
	CategoryExtremism  Category = "extremism"
)

// Categories lists all categories in wire order.
var Categories = []Category{
	CategoryToxic,
	CategoryObscene,
	CategoryHate,
	CategoryThreat,
	CategoryHarassment,
	CategorySelfHarm,
	CategoryExtremism,
}

// Source tells which stage produced a verdict.
type Source string

const (
	SourceDenylist Source = "denylist"
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Reference scores assigned on a denylist hit.
const (
	DenylistToxic   = 0.9
	DenylistOverall = 0.7
)

// Scores holds per-category severities in [0,1].
type Scores struct {
	Toxic      float64 `json:"toxic"`
	Obscene    float64 `json:"obscene"`
	Hate       float64 `json:"hate"`
	Threat     float64 `json:"threat"`
	Harassment float64 `json:"harassment"`
	SelfHarm   float64 `json:"selfHarm"`
	Extremism  float64 `json:"extremism"`
}

// Get returns the score of one category.
func (s Scores) Get(c Category) float64 {
	switch c {
	case CategoryToxic:
		return s.Toxic
	case CategoryObscene:
		return s.Obscene
	case CategoryHate:
		return s.Hate
	case CategoryThreat:
		return s.Threat
	case CategoryHarassment:
		return s.Harassment
	case CategorySelfHarm:
		return s.SelfHarm
	case CategoryExtremism:
		return s.Extremism
	default:
		return 0
	}
}

func (s Scores) slice() []float64 {
	return []float64{s.Toxic, s.Obscene, s.Hate, s.Threat, s.Harassment, s.SelfHarm, s.Extremism}
}

func scoresFromSlice(v []float64) Scores {
	get := func(i int) float64 {
		if i < len(v) {
			return v[i]
		}
		return 0
	}
	return Scores{
		Toxic:      get(0),
		Obscene:    get(1),
		Hate:       get(2),
		Threat:     get(3),
		Harassment: get(4),
		SelfHarm:   get(5),
		Extremism:  get(6),
	}
}

func maxScores(a, b Scores) Scores {
	av, bv := a.slice(), b.slice()
	out := make([]float64, len(av))
	for i := range av {
		out[i] = math.Max(av[i], bv[i])
	}
	return scoresFromSlice(out)
}

// Verdict is a moderation decision for one piece of text.
type Verdict struct {
	Categories   Scores   `json:"categories"`
	Overall      float64  `json:"overall"`
	Flagged      bool     `json:"flagged"`
	Reason       string   `json:"reason"`
	Source       Source   `json:"source,omitempty"`
	MatchedTerms []string `json:"matchedTerms,omitempty"`
}

// CleanVerdict is the all-zero verdict.
func CleanVerdict() Verdict {
	return Verdict{Source: SourceDenylist}
}

// DenylistVerdict is the verdict for text that matched the given terms.
func DenylistVerdict(terms []string) Verdict {
	if len(terms) == 0 {
		return CleanVerdict()
	}
	return Verdict{
		Categories:   Scores{Toxic: DenylistToxic},
		Overall:      DenylistOverall,
		Flagged:      true,
		Reason:       "forbidden words detected: " + strings.Join(terms, ", "),
		Source:       SourceDenylist,
		MatchedTerms: append([]string(nil), terms...),
	}
}

// ReviewVerdict holds content for human review when no decision could be made.
func ReviewVerdict(reason string) Verdict {
	return Verdict{
		Overall: 1,
		Flagged: true,
		Reason:  reason,
		Source:  SourceFallback,
	}
}

// Merge combines two verdicts taking the more severe value of every field.
func Merge(a, b Verdict) Verdict {
	out := Verdict{
		Categories: maxScores(a.Categories, b.Categories),
		Overall:    math.Max(a.Overall, b.Overall),
		Flagged:    a.Flagged || b.Flagged,
		Source:     b.Source,
	}
	if out.Source == "" {
		out.Source = a.Source
	}

	reasons := make([]string, 0, 2)
	for _, r := range []string{a.Reason, b.Reason} {
		if r = strings.TrimSpace(r); r != "" && !contains(reasons, r) {
			reasons = append(reasons, r)
		}
	}
	out.Reason = strings.Join(reasons, "; ")

	for _, t := range append(append([]string(nil), a.MatchedTerms...), b.MatchedTerms...) {
		if !contains(out.MatchedTerms, t) {
			out.MatchedTerms = append(out.MatchedTerms, t)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Validate checks that every score is within [0,1].
func (v Verdict) Validate() error {
	for i, s := range v.Categories.slice() {
		if !inUnit(s) {
			return fmt.Errorf("models: %s score out of range: %v", Categories[i], s)
		}
	}
	if !inUnit(v.Overall) {
		return fmt.Errorf("models: overall score out of range: %v", v.Overall)
	}
	return nil
}

func inUnit(f float64) bool {
	return !math.IsNaN(f) && f >= 0 && f <= 1
}

type verdictFull struct {
	Categories   Scores   `json:"categories"`
	Overall      *float64 `json:"overall"`
	Flagged      bool     `json:"flagged"`
	Reason       string   `json:"reason"`
	Source       Source   `json:"source,omitempty"`
	MatchedTerms []string `json:"matchedTerms,omitempty"`
}

type verdictCompact struct {
	S []float64 `json:"s"`
	O *float64  `json:"o"`
	F bool      `json:"f"`
	R string    `json:"r"`
	M []string  `json:"m"`
}

// UnmarshalJSON supports full and compact verdict formats.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var full verdictFull
	if err := json.Unmarshal(data, &full); err == nil && full.Overall != nil {
		*v = Verdict{
			Categories:   full.Categories,
			Overall:      *full.Overall,
			Flagged:      full.Flagged,
			Reason:       full.Reason,
			Source:       full.Source,
			MatchedTerms: full.MatchedTerms,
		}
		return nil
	}

	var compact verdictCompact
	if err := json.Unmarshal(data, &compact); err == nil && compact.O != nil {
		*v = Verdict{
			Categories:   scoresFromSlice(compact.S),
			Overall:      *compact.O,
			Flagged:      compact.F,
			Reason:       compact.R,
			MatchedTerms: compact.M,
		}
		return nil
	}

	return fmt.Errorf("models: unsupported verdict format")
}
