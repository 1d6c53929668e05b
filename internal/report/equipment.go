package report

import (
	"fmt"
	"sort"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/catalog"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/dataset"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/format"
)

func capitalize(s string) string {
	return format.Capitalize(s)
}

// modIndex maps a host item id to the items slotted into it, in inventory order
type modIndex map[int][]dataset.InventoryItem

func newModIndex(inventory []dataset.InventoryItem) modIndex {
	idx := make(modIndex)
	for _, item := range inventory {
		if !item.IsSlotted() {
			continue
		}
		host := item.EquippedModItemID.OrElse(-1)
		idx[host] = append(idx[host], item)
	}
	return idx
}

// attached returns the items slotted into host; items without an id host nothing
func (m modIndex) attached(host dataset.InventoryItem) []dataset.InventoryItem {
	id, ok := host.ID.Get()
	if !ok {
		return nil
	}
	return m[id]
}

type resolvedItem struct {
	item  dataset.InventoryItem
	entry catalog.Entry
}

func (e *Engine) equipment(w *writer, label string, inventory []dataset.InventoryItem, mods modIndex) {
	w.info("BEGIN Equipment, %s", label)

	var gear, traits []dataset.InventoryItem
	for _, item := range inventory {
		if !item.IsEquipped {
			continue
		}
		if item.IsTrait {
			traits = append(traits, item)
			continue
		}
		if slot, ok := item.EquippedSlot.Get(); ok && slot.Known() {
			gear = append(gear, item)
		}
	}

	sort.SliceStable(gear, func(i, j int) bool {
		return gear[i].EquippedSlot.OrElse(0) < gear[j].EquippedSlot.OrElse(0)
	})

	for _, item := range gear {
		slot := item.EquippedSlot.OrElse(0)
		if entry, ok := e.catalog.ByProfileID(item.ProfileID); ok {
			level := ""
			if l := item.Level.OrElse(0); l > 0 {
				level = fmt.Sprintf(" +%d", l)
			}
			w.info("  %s: %s%s", format.CamelAsWords(slot.String()), entry.Name, level)
		} else {
			w.warn("  !!%s not found in the database!", item.ProfileID)
		}

		for _, mod := range mods.attached(item) {
			modEntry, ok := e.catalog.ByProfileID(mod.ProfileID)
			if !ok {
				w.warn("    !!Slotted item %s not found in the database!", mod.ProfileID)
				continue
			}
			w.info("    %s", format.EquipmentSlot("", modEntry.Type, mod.Level.OrElse(1), modEntry.Name))
		}
	}

	e.equippedTraits(w, traits)

	w.info("END Equipment, %s", label)
}

func (e *Engine) equippedTraits(w *writer, traits []dataset.InventoryItem) {
	var resolved []resolvedItem
	var unresolved []dataset.InventoryItem
	for _, item := range traits {
		entry, ok := e.catalog.ByProfileID(item.ProfileID)
		if !ok {
			unresolved = append(unresolved, item)
			continue
		}
		resolved = append(resolved, resolvedItem{item: item, entry: entry})
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].entry.Name < resolved[j].entry.Name
	})
	sort.SliceStable(unresolved, func(i, j int) bool {
		return unresolved[i].ProfileID < unresolved[j].ProfileID
	})

	for _, r := range resolved {
		if level, ok := r.item.Level.Get(); ok {
			w.info("  Trait: %s, Level %d", r.entry.Name, level)
			continue
		}
		w.info("  Trait: %s", r.entry.Name)
	}
	for _, item := range unresolved {
		w.warn("  !!Trait %s not found in the database!", item.ProfileID)
	}
}

func (e *Engine) loadouts(w *writer, label string, loadouts dataset.Optional[[]dataset.Loadout]) {
	w.info("BEGIN Loadouts, %s", label)

	presets, ok := loadouts.Get()
	if !ok {
		w.info("This character has no loadouts")
		w.info("END Loadouts, %s", label)
		return
	}

	for i, loadout := range presets {
		if len(loadout) == 0 {
			w.info("Loadout %d: empty", i+1)
			continue
		}
		w.info("Loadout %d:", i+1)

		var gear, traits, other []dataset.LoadoutRecord
		for _, r := range loadout {
			switch r.Type {
			case dataset.LoadoutRecordEquipment:
				gear = append(gear, r)
			case dataset.LoadoutRecordTrait:
				traits = append(traits, r)
			default:
				other = append(other, r)
			}
		}

		sort.SliceStable(gear, func(i, j int) bool { return gear[i].Slot < gear[j].Slot })
		sort.SliceStable(traits, func(i, j int) bool { return traits[i].Slot < traits[j].Slot })

		for _, r := range gear {
			w.info("  %s", format.EquipmentSlot(dataset.LoadoutSlot(r.Slot).String(), r.ItemType, r.Level, r.Name))
		}

		for _, r := range traits {
			switch r.Slot {
			case 0, 1:
				// archetypes are already shown as equipment
			case 2:
				w.info("  Trait: %s, Level %d", r.Name, r.Level)
			default:
				w.warn("  !!!Unknown Slot %s, %s, %d, %d", r.Name, r.Type, r.Slot, r.Level)
			}
		}

		for _, r := range other {
			w.warn("  !!!Unknown Type %s, %s, %d, %d", r.Name, r.Type, r.Slot, r.Level)
		}
	}

	w.info("END Loadouts, %s", label)
}
