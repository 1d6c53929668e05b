// Package report reconciles a decoded save against the item catalog and
// renders the account and per-character progress report.
//
// The report is a pure function of its inputs: the same Dataset and catalog
// always produce the same lines in the same order. Unresolved catalog
// references and unrecognised loadout records become warning lines; nothing
// stops the report early.
package report

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/catalog"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/dataset"
)

// Severity of a report line
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "info"
}

// Line is one rendered report line
type Line struct {
	Severity Severity
	Text     string
}

// Sink receives report lines as they are produced
type Sink interface {
	Info(line string)
	Warn(line string)
}

// KnownItemFunc decides whether an uncatalogued inventory item, identified by
// the asset name derived from its profile id, is expected to be missing from the catalog
type KnownItemFunc func(name string) bool

// DefaultKnownPrefixes are asset name prefixes of inventory records the catalog does not list
var DefaultKnownPrefixes = []string{"Material_", "Consumable_", "Currency", "Engram_"}

// KnownPrefixes builds a KnownItemFunc matching any of the prefixes
func KnownPrefixes(prefixes ...string) KnownItemFunc {
	return func(name string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(name, p) {
				return true
			}
		}
		return false
	}
}

// DefaultNonCollectibleTypes are catalog types not counted as acquirable items
var DefaultNonCollectibleTypes = []string{
	catalog.TypeAward,
	catalog.TypeAchievement,
	catalog.TypeChallenge,
	catalog.TypeQuest,
	catalog.TypeArmorSpecial,
}

// Config holds the engine dependencies
type Config struct {
	Catalog catalog.Lookup

	// KnownItem defaults to KnownPrefixes(DefaultKnownPrefixes...)
	KnownItem KnownItemFunc

	// NonCollectibleTypes defaults to DefaultNonCollectibleTypes
	NonCollectibleTypes []string
}

// Engine renders reports. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	catalog        catalog.Lookup
	knownItem      KnownItemFunc
	nonCollectible map[string]struct{}
}

// New creates a report engine
func New(cfg *Config) *Engine {
	if cfg == nil {
		panic("report Config cannot be nil")
	}
	if cfg.Catalog == nil {
		panic("report catalog cannot be nil")
	}

	known := cfg.KnownItem
	if known == nil {
		known = KnownPrefixes(DefaultKnownPrefixes...)
	}

	types := cfg.NonCollectibleTypes
	if types == nil {
		types = DefaultNonCollectibleTypes
	}
	nonCollectible := make(map[string]struct{}, len(types))
	for _, t := range types {
		nonCollectible[t] = struct{}{}
	}

	return &Engine{
		catalog:        cfg.Catalog,
		knownItem:      known,
		nonCollectible: nonCollectible,
	}
}

// Generate renders the full report for a dataset
func (e *Engine) Generate(ds *dataset.Dataset) []Line {
	if ds == nil {
		return nil
	}

	w := &writer{}
	w.info("Active character save: save_%d.sav", ds.ActiveCharacterIndex)
	w.info("Profile save file version: %d, game build: %d", ds.ProfileHeader.Version, ds.ProfileHeader.BuildNumber)

	e.accountAwards(w, ds.AccountAwards)

	for i := range ds.Characters {
		e.character(w, i, &ds.Characters[i])
	}

	return w.lines
}

// Run renders the report straight into a sink
func (e *Engine) Run(ds *dataset.Dataset, sink Sink) {
	Write(e.Generate(ds), sink)
}

// Progression summarizes collection progress per character as
// "Character N: acquired/total", comma separated
func (e *Engine) Progression(ds *dataset.Dataset) string {
	if ds == nil {
		return ""
	}

	parts := make([]string, 0, len(ds.Characters))
	for i := range ds.Characters {
		acquired, missing := e.collection(ds.Characters[i].Profile.Inventory)
		parts = append(parts, fmt.Sprintf("Character %d: %d/%d", i+1, acquired, acquired+missing))
	}
	return strings.Join(parts, ", ")
}

// Write replays lines into a sink
func Write(lines []Line, sink Sink) {
	for _, l := range lines {
		if l.Severity == SeverityWarning {
			sink.Warn(l.Text)
			continue
		}
		sink.Info(l.Text)
	}
}

// Collector is a Sink that keeps every line in order
type Collector struct {
	Lines []Line
}

// Info implements Sink
func (c *Collector) Info(line string) {
	c.Lines = append(c.Lines, Line{Severity: SeverityInfo, Text: line})
}

// Warn implements Sink
func (c *Collector) Warn(line string) {
	c.Lines = append(c.Lines, Line{Severity: SeverityWarning, Text: line})
}

type writer struct {
	lines []Line
}

func (w *writer) info(format string, args ...any) {
	w.lines = append(w.lines, Line{Severity: SeverityInfo, Text: fmt.Sprintf(format, args...)})
}

func (w *writer) warn(format string, args ...any) {
	w.lines = append(w.lines, Line{Severity: SeverityWarning, Text: fmt.Sprintf(format, args...)})
}

func (w *writer) raw(record dataset.RawRecord) {
	for _, f := range record {
		w.info("  %s: %s", f.Name, f.Value)
	}
}

func (e *Engine) accountAwards(w *writer, awards []string) {
	w.info("BEGIN Account Awards")

	owned := make(map[string]struct{}, len(awards))
	for _, id := range awards {
		owned[id] = struct{}{}
		entry, ok := e.catalog.ByID(id)
		if !ok {
			w.warn("  UnknownMarker account award: %s", id)
			continue
		}
		w.info("  Account award: %s", entry.Name)
	}

	e.missing(w, catalog.TypeAward, owned)
	w.info("END Account Awards")
}

// missing reports every catalog entry of a type whose id is not in owned
func (e *Engine) missing(w *writer, entryType string, owned map[string]struct{}) {
	for _, entry := range catalog.OfType(e.catalog, entryType) {
		if _, ok := owned[entry.ID]; ok {
			continue
		}
		w.info("  Missing %s: %s", capitalize(entryType), entry.Name)
	}
}

func (e *Engine) character(w *writer, position int, c *dataset.Character) {
	label := fmt.Sprintf("Character %d (save_%d)", position+1, c.Index)
	p := &c.Profile

	acquired, missing := e.collection(p.Inventory)
	w.info("%s, Acquired Items: %d, Missing Items: %d, Total: %d", label, acquired, missing, acquired+missing)
	w.info("World save file version: %d, game build: %d", c.Save.Header.Version, c.Save.Header.BuildNumber)
	w.info("Is Hardcore: %t", p.IsHardcore)
	w.info("Trait Rank: %d", p.TraitRank)
	w.info("Last Saved Trait Points: %d", p.LastSavedTraitPoints)
	w.info("Power Level: %d", p.PowerLevel)
	w.info("Item Level: %d", p.ItemLevel)
	w.info("Gender: %s", p.Gender)
	w.info("Relic Charges: %d", p.RelicCharges)

	mods := newModIndex(p.Inventory)

	e.equipment(w, label, p.Inventory, mods)
	e.loadouts(w, label, p.Loadouts)
	e.inventory(w, label, p.Inventory, mods)
	e.quickSlots(w, label, p.QuickSlots)
	e.world(w, label, &c.Save)
	e.objectives(w, label, catalog.TypeAchievement, "Achievements", p.Objectives)
	e.objectives(w, label, catalog.TypeChallenge, "Challenges", p.Objectives)

	w.info("%s", strings.Repeat("-", 77))
}

// collection counts the distinct collectible catalog entries owned and missing
func (e *Engine) collection(inventory []dataset.InventoryItem) (acquired, missing int) {
	owned := make(map[string]struct{})
	for _, item := range inventory {
		if entry, ok := e.catalog.ByProfileID(item.ProfileID); ok {
			owned[entry.ID] = struct{}{}
		}
	}

	for _, entry := range e.catalog.All() {
		if !e.collectible(entry) {
			continue
		}
		if _, ok := owned[entry.ID]; ok {
			acquired++
		} else {
			missing++
		}
	}
	return acquired, missing
}

func (e *Engine) collectible(entry catalog.Entry) bool {
	if entry.ProfileID == "" {
		return false
	}
	_, excluded := e.nonCollectible[entry.Type]
	return !excluded
}

func (e *Engine) objectives(w *writer, label, objectiveType, title string, objectives []dataset.ObjectiveProgress) {
	w.info("BEGIN %s for %s", title, label)

	done := make(map[string]struct{}, len(objectives))
	for _, o := range objectives {
		done[o.ID] = struct{}{}
		if o.Type != objectiveType {
			continue
		}
		w.info("  %s: %s - %s", capitalize(o.Type), o.Description, o.Progress)
	}

	e.missing(w, objectiveType, done)
	w.info("END %s for %s", title, label)
}
