// Package knowledge answers definition and advice questions from declarative
// topic tables. The tables ship as embedded YAML so wording can change without
// touching the router.
package knowledge

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ministock/backend/internal/application/textmatch"
)

//go:embed data/*.yaml
var tables embed.FS

// Entry is one topic of a table.
type Entry struct {
	Topic    string
	Text     string
	match    textmatch.Pattern
	requires textmatch.Pattern
	optional bool
}

// Matches reports whether folded text selects this entry.
func (e *Entry) Matches(folded string) bool {
	if !e.match.Match(folded) {
		return false
	}
	return e.optional || e.requires.Match(folded)
}

// Table is an ordered list of entries behind a trigger pattern.
type Table struct {
	Name    string
	trigger textmatch.Pattern
	entries []*Entry
}

type tableFile struct {
	Name    string      `yaml:"name"`
	Trigger string      `yaml:"trigger"`
	Entries []entryFile `yaml:"entries"`
}

type entryFile struct {
	Topic    string `yaml:"topic"`
	Match    string `yaml:"match"`
	Requires string `yaml:"requires"`
	Text     string `yaml:"text"`
}

// Load parses a YAML table.
func Load(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse knowledge table: %w", err)
	}
	if f.Trigger == "" {
		return nil, fmt.Errorf("knowledge table %q: missing trigger", f.Name)
	}
	trigger, err := textmatch.Compile(f.Trigger)
	if err != nil {
		return nil, fmt.Errorf("knowledge table %q: trigger: %w", f.Name, err)
	}

	t := &Table{Name: f.Name, trigger: trigger}
	for _, ef := range f.Entries {
		if ef.Topic == "" || ef.Match == "" {
			return nil, fmt.Errorf("knowledge table %q: entry needs topic and match", f.Name)
		}
		e := &Entry{Topic: ef.Topic, Text: strings.TrimRight(ef.Text, "\n"), optional: ef.Requires == ""}
		if e.match, err = textmatch.Compile(ef.Match); err != nil {
			return nil, fmt.Errorf("knowledge table %q: topic %s: %w", f.Name, ef.Topic, err)
		}
		if !e.optional {
			if e.requires, err = textmatch.Compile(ef.Requires); err != nil {
				return nil, fmt.Errorf("knowledge table %q: topic %s: %w", f.Name, ef.Topic, err)
			}
		}
		t.entries = append(t.entries, e)
	}
	return t, nil
}

func mustLoad(name string) *Table {
	data, err := tables.ReadFile("data/" + name)
	if err != nil {
		panic(err)
	}
	t, err := Load(data)
	if err != nil {
		panic(err)
	}
	return t
}

var (
	glossary = mustLoad("glossary.yaml")
	advice   = mustLoad("advice.yaml")
)

// Glossary returns the built-in definitions table.
func Glossary() *Table { return glossary }

// Advice returns the built-in business advice table.
func Advice() *Table { return advice }

// Triggered reports whether folded text contains the table's trigger.
func (t *Table) Triggered(folded string) bool {
	return t.trigger.Match(folded)
}

// Lookup returns the first entry selected by folded text, or nil when the
// trigger is absent or no topic applies.
func (t *Table) Lookup(folded string) *Entry {
	if !t.Triggered(folded) {
		return nil
	}
	for _, e := range t.entries {
		if e.Matches(folded) {
			return e
		}
	}
	return nil
}

// Topics lists the topic names in table order.
func (t *Table) Topics() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Topic
	}
	return out
}
