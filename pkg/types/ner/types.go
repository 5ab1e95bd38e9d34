// Package ner holds the public data model of the entity extractor: the ordered
// category dictionary, extracted entities with their character spans, and the
// per-text result set.
package ner

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
)

// ---------------------------------------------------------------------------
// Dictionary
// ---------------------------------------------------------------------------

// Category is a named class of entities and its canonical phrases.
type Category struct {
	Name    string   `json:"name" yaml:"name"`
	Phrases []string `json:"phrases" yaml:"phrases"`
}

// Dictionary is an ordered list of categories. Order matters: the category
// matcher walks categories in this order and, under the first-satisfying
// policy, stops at the first category that clears the threshold.
type Dictionary struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// NewDictionary returns a dictionary holding categories in the given order.
func NewDictionary(categories ...Category) Dictionary {
	return Dictionary{Categories: append([]Category(nil), categories...)}
}

// FromMap builds a dictionary from a Go map. Map iteration order is random,
// so categories are sorted by name to keep matching deterministic.
func FromMap(m map[string][]string) Dictionary {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	d := Dictionary{Categories: make([]Category, 0, len(names))}
	for _, name := range names {
		d.Categories = append(d.Categories, Category{Name: name, Phrases: append([]string(nil), m[name]...)})
	}
	return d
}

// Add appends phrases to the named category, creating it at the end of the
// dictionary when it does not exist yet.
func (d *Dictionary) Add(name string, phrases ...string) {
	for i := range d.Categories {
		if d.Categories[i].Name == name {
			d.Categories[i].Phrases = append(d.Categories[i].Phrases, phrases...)
			return
		}
	}
	d.Categories = append(d.Categories, Category{Name: name, Phrases: append([]string(nil), phrases...)})
}

// Len returns the number of categories.
func (d Dictionary) Len() int { return len(d.Categories) }

// PhraseCount returns the number of phrases across all categories.
func (d Dictionary) PhraseCount() int {
	n := 0
	for _, c := range d.Categories {
		n += len(c.Phrases)
	}
	return n
}

// Names returns the category names in dictionary order.
func (d Dictionary) Names() []string {
	out := make([]string, len(d.Categories))
	for i, c := range d.Categories {
		out[i] = c.Name
	}
	return out
}

// Lookup returns the phrases of the named category.
func (d Dictionary) Lookup(name string) ([]string, bool) {
	for _, c := range d.Categories {
		if c.Name == name {
			return c.Phrases, true
		}
	}
	return nil, false
}

// MaxPhraseTokens returns the largest whitespace token count of any phrase in
// the dictionary. It bounds the n-gram length used during generation.
func (d Dictionary) MaxPhraseTokens() int {
	maxN := 0
	for _, c := range d.Categories {
		for _, p := range c.Phrases {
			if n := len(strings.Fields(p)); n > maxN {
				maxN = n
			}
		}
	}
	return maxN
}

// Validate checks the dictionary shape: at least one category, every category
// named uniquely and holding at least one phrase, and no blank phrases.
func (d Dictionary) Validate() error {
	if len(d.Categories) == 0 {
		return errors.InvalidDictionary("dictionary has no categories")
	}
	seen := make(map[string]struct{}, len(d.Categories))
	for i, c := range d.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return errors.InvalidDictionary("category name must not be empty").
				WithDetail(fmt.Sprintf("position=%d", i))
		}
		if _, dup := seen[c.Name]; dup {
			return errors.InvalidDictionary("duplicate category").
				WithDetail("category=" + c.Name)
		}
		seen[c.Name] = struct{}{}

		if len(c.Phrases) == 0 {
			return errors.InvalidDictionary("category has no phrases").
				WithDetail("category=" + c.Name)
		}
		for j, p := range c.Phrases {
			if strings.TrimSpace(p) == "" {
				return errors.InvalidDictionary("phrase must not be empty").
					WithDetail(fmt.Sprintf("category=%s index=%d", c.Name, j))
			}
		}
	}
	return nil
}

// UnmarshalYAML accepts two layouts and keeps document order in both:
//
//	ORG: [Acme Corporation, Globex]      # mapping form
//	LOC: New York City                   # a scalar is a single phrase
//
//	categories:                          # list form
//	  - name: ORG
//	    phrases: [Acme Corporation]
//
// JSON documents decode the same way since yaml.v3 reads JSON objects as
// mappings.
func (d *Dictionary) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.DocumentNode && len(value.Content) == 1 {
		value = value.Content[0]
	}

	switch value.Kind {
	case yaml.SequenceNode:
		var cats []Category
		if err := value.Decode(&cats); err != nil {
			return err
		}
		d.Categories = cats
		return nil

	case yaml.MappingNode:
		if isListForm(value) {
			var cats []Category
			if err := value.Content[1].Decode(&cats); err != nil {
				return err
			}
			d.Categories = cats
			return nil
		}

		cats := make([]Category, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			var phrases []string
			switch val.Kind {
			case yaml.ScalarNode:
				phrases = []string{val.Value}
			case yaml.SequenceNode:
				if err := val.Decode(&phrases); err != nil {
					return fmt.Errorf("category %q: %w", key.Value, err)
				}
			default:
				return fmt.Errorf("category %q: line %d: phrases must be a list of strings", key.Value, val.Line)
			}
			cats = append(cats, Category{Name: key.Value, Phrases: phrases})
		}
		d.Categories = cats
		return nil
	}
	return fmt.Errorf("line %d: dictionary must be a mapping or a list of categories", value.Line)
}

// isListForm reports whether a mapping node is {categories: [{name, phrases}]}.
func isListForm(n *yaml.Node) bool {
	if len(n.Content) != 2 || n.Content[0].Value != "categories" {
		return false
	}
	seq := n.Content[1]
	if seq.Kind != yaml.SequenceNode {
		return false
	}
	return len(seq.Content) == 0 || seq.Content[0].Kind == yaml.MappingNode
}

// ---------------------------------------------------------------------------
// Entities
// ---------------------------------------------------------------------------

// Span is an inclusive range of character offsets into the source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether the two ranges share at least one offset.
func (s Span) Overlaps(o Span) bool {
	return !(s.End < o.Start || s.Start > o.End)
}

// Len returns the number of characters covered by the span.
func (s Span) Len() int { return s.End - s.Start + 1 }

// Entity is a dictionary match located in the text.
type Entity struct {
	ID       string `json:"id"`
	Text     string `json:"entity"`
	Category string `json:"category"`
	Score    int    `json:"score"`
	Index    Span   `json:"index"`

	// Phrase is the canonical dictionary phrase the text matched.
	Phrase string `json:"phrase,omitempty"`
}

// EntitySet is the result of one extraction.
type EntitySet struct {
	Entities      []Entity `json:"entities"`
	Text          string   `json:"text"`
	TextAnnotated string   `json:"text_annotated"`
}

// SortedByStart returns a copy of the entities in reading order.
func (s *EntitySet) SortedByStart() []Entity {
	out := append([]Entity(nil), s.Entities...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Index.Start < out[j].Index.Start
	})
	return out
}

// CountByCategory returns how many entities were kept per category.
func (s *EntitySet) CountByCategory() map[string]int {
	out := make(map[string]int)
	for _, e := range s.Entities {
		out[e.Category]++
	}
	return out
}
