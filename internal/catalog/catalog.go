package catalog

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known entry types the report reconciles against
const (
	TypeAward        = "award"
	TypeAchievement  = "achievement"
	TypeChallenge    = "challenge"
	TypeArmorSpecial = "armorspecial"
	TypeFragment     = "fragment"
	TypeArchetype    = "archetype"
	TypeTrait        = "trait"
	TypeQuest        = "quest"
)

// QuestIDPrefix is the id namespace completed-quest log entries resolve under
const QuestIDPrefix = "Quest_"

// Entry is one static item catalog record
type Entry struct {
	ID         string            `yaml:"id" json:"id"`
	ProfileID  string            `yaml:"profile_id,omitempty" json:"profile_id,omitempty"`
	Type       string            `yaml:"type" json:"type"`
	Name       string            `yaml:"name" json:"name"`
	Properties map[string]string `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// Property returns a named property or an empty string
func (e Entry) Property(name string) string {
	return e.Properties[name]
}

func (e Entry) clone() Entry {
	e.Properties = maps.Clone(e.Properties)
	return e
}

// Lookup resolves identifiers against the catalog
type Lookup interface {
	// ByID matches the primary identifier exactly
	ByID(id string) (Entry, bool)

	// ByProfileID matches the alternate key; entries without one never match
	ByProfileID(profileID string) (Entry, bool)

	// All returns every entry in catalog order
	All() []Entry
}

// Catalog is an immutable, indexed Lookup.
// It is safe for concurrent reads.
type Catalog struct {
	entries     []Entry
	byID        map[string]int
	byProfileID map[string]int
}

var _ Lookup = (*Catalog)(nil)

type document struct {
	Version int     `yaml:"version"`
	Items   []Entry `yaml:"items"`
}

// Load reads a YAML catalog document from disk
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog document
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if doc.Version != 1 {
		return nil, fmt.Errorf("unsupported catalog version: %d", doc.Version)
	}
	return New(doc.Items)
}

// New indexes entries, rejecting duplicate keys
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries:     make([]Entry, len(entries)),
		byID:        make(map[string]int, len(entries)),
		byProfileID: make(map[string]int),
	}
	for i, e := range entries {
		c.entries[i] = e.clone()
	}

	for i, e := range c.entries {
		if strings.TrimSpace(e.ID) == "" {
			return nil, fmt.Errorf("catalog entry %d id is required", i)
		}
		if strings.TrimSpace(e.Type) == "" {
			return nil, fmt.Errorf("catalog entry %s type is required", e.ID)
		}
		if _, exists := c.byID[e.ID]; exists {
			return nil, fmt.Errorf("duplicate catalog id: %s", e.ID)
		}
		c.byID[e.ID] = i

		if e.ProfileID == "" {
			continue
		}
		if _, exists := c.byProfileID[e.ProfileID]; exists {
			return nil, fmt.Errorf("duplicate catalog profile id: %s", e.ProfileID)
		}
		c.byProfileID[e.ProfileID] = i
	}

	return c, nil
}

// ByID implements Lookup
func (c *Catalog) ByID(id string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i].clone(), true
}

// ByProfileID implements Lookup
func (c *Catalog) ByProfileID(profileID string) (Entry, bool) {
	if c == nil || profileID == "" {
		return Entry{}, false
	}
	i, ok := c.byProfileID[profileID]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i].clone(), true
}

// All implements Lookup
func (c *Catalog) All() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// OfType returns the entries of one type in catalog order
func OfType(l Lookup, entryType string) []Entry {
	var out []Entry
	for _, e := range l.All() {
		if e.Type == entryType {
			out = append(out, e)
		}
	}
	return out
}
