// Package denylist holds the ordered set of disallowed terms and the loaders
// that read it from files.
package denylist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Wildcard is the marker character some entries use for obfuscated spellings.
const Wildcard = '*'

// Denylist is an ordered, immutable list of terms. Terms keep the spelling
// they were written with; case folding belongs to the matcher, because the
// dotted and dotless I fold differently under Turkish rules.
type Denylist struct {
	terms []string
}

// New trims terms, drops empty entries and keeps the first occurrence of
// duplicates.
func New(terms []string) *Denylist {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		t := Normalize(term)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return &Denylist{terms: out}
}

// Default returns the built-in list.
func Default() *Denylist {
	return New(defaultTerms)
}

// Normalize is the stored form of a term.
func Normalize(term string) string {
	return strings.TrimSpace(term)
}

// Terms returns a copy of the terms in order.
func (d *Denylist) Terms() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.terms...)
}

// Len returns the number of terms.
func (d *Denylist) Len() int {
	if d == nil {
		return 0
	}
	return len(d.terms)
}

// Union returns a new list with the terms of d followed by any extra terms
// not already present.
func (d *Denylist) Union(extra []string) *Denylist {
	return New(append(d.Terms(), extra...))
}

// Parse reads a plain-text list: one term per line, blank lines and lines
// starting with '#' are skipped.
func Parse(r io.Reader) (*Denylist, error) {
	var terms []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		terms = append(terms, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("denylist: read: %w", err)
	}
	return New(terms), nil
}

type yamlDocument struct {
	Terms []string `yaml:"terms"`
}

// ParseYAML reads a YAML document of the form `terms: [...]`.
func ParseYAML(data []byte) (*Denylist, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("denylist: yaml: %w", err)
	}
	if doc.Terms == nil {
		return nil, errors.New("denylist: yaml document has no terms key")
	}
	return New(doc.Terms), nil
}

// LoadFile reads a list from disk. Files ending in .yaml or .yml are parsed as
// YAML, everything else as plain text.
func LoadFile(path string) (*Denylist, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ParseYAML(data)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return Parse(f)
	}
}
