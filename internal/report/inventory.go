package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/catalog"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/dataset"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/format"
)

// inventoryGroup holds the items of one resolved catalog type.
// The group with an empty Type holds the items the catalog does not know.
type inventoryGroup struct {
	Type  string
	Items []resolvedItem
}

// groupInventory partitions items by resolved type, ascending by type, the
// unresolved group first. Every item lands in exactly one group.
func groupInventory(lookup catalog.Lookup, inventory []dataset.InventoryItem) []inventoryGroup {
	byType := make(map[string]*inventoryGroup)
	var keys []string
	for _, item := range inventory {
		entry, _ := lookup.ByProfileID(item.ProfileID)
		g, ok := byType[entry.Type]
		if !ok {
			g = &inventoryGroup{Type: entry.Type}
			byType[entry.Type] = g
			keys = append(keys, entry.Type)
		}
		g.Items = append(g.Items, resolvedItem{item: item, entry: entry})
	}

	sort.Strings(keys)
	groups := make([]inventoryGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, *byType[k])
	}
	return groups
}

func (e *Engine) inventory(w *writer, label string, inventory []dataset.InventoryItem, mods modIndex) {
	w.info("BEGIN Inventory, %s", label)

	for _, g := range groupInventory(e.catalog, inventory) {
		if g.Type == "" {
			e.uncatalogued(w, g.Items)
			continue
		}
		if g.Type == catalog.TypeArmorSpecial {
			continue
		}

		w.info("  %s:", capitalize(g.Type))

		items := g.Items
		sort.SliceStable(items, func(i, j int) bool { return items[i].entry.Name < items[j].entry.Name })

		shown := false
		for _, r := range items {
			if q, ok := r.item.Quantity.Get(); ok && q == 0 {
				continue
			}
			shown = true
			w.info("    %s", inventoryLine(r))

			for _, linked := range mods.attached(r.item) {
				entry, ok := e.catalog.ByProfileID(linked.ProfileID)
				if !ok {
					w.warn("      !!Slotted item with profile id '%s' not found", linked.ProfileID)
					continue
				}
				w.info("      %s", format.EquipmentSlot("", entry.Type, linked.Level.OrElse(1), entry.Name))
			}
		}
		if !shown {
			w.info("    None")
		}
	}

	w.info("END Inventory, %s", label)
}

func (e *Engine) uncatalogued(w *writer, items []resolvedItem) {
	for _, r := range items {
		name := format.NameFromProfileID(r.item.ProfileID)
		if e.knownItem(name) {
			w.info("  Uncatalogued inventory item: %s", name)
			continue
		}
		w.warn("  Inventory item not found in database: %s", r.item.ProfileID)
	}
}

func inventoryLine(r resolvedItem) string {
	var b strings.Builder

	level, hasLevel := r.item.Level.Get()
	switch r.entry.Type {
	case catalog.TypeFragment:
		b.WriteString(format.RelicFragmentLevel(r.entry.Name, r.item.Level.OrElse(1)))
	default:
		b.WriteString(r.entry.Name)
	}

	if q, ok := r.item.Quantity.Get(); ok {
		fmt.Fprintf(&b, " x%d", q)
	}

	if hasLevel {
		switch r.entry.Type {
		case catalog.TypeFragment:
			fmt.Fprintf(&b, " (lvl %d)", level)
		case catalog.TypeArchetype, catalog.TypeTrait:
			fmt.Fprintf(&b, ", Level %d", level)
		default:
			fmt.Fprintf(&b, " +%d", level)
		}
	}

	if r.item.Favorited {
		b.WriteString(", favorite")
	}
	if r.item.New {
		b.WriteString(", new")
	}
	if r.item.IsSlotted() {
		b.WriteString(", slotted")
	}
	return b.String()
}

func (e *Engine) quickSlots(w *writer, label string, slots []dataset.InventoryItem) {
	w.info("BEGIN Quick slots, %s", label)
	for _, item := range slots {
		entry, ok := e.catalog.ByProfileID(item.ProfileID)
		if !ok {
			w.info("  (empty)")
			continue
		}
		w.info("  %s", entry.Name)
	}
	w.info("END Quick slots, %s", label)
}
