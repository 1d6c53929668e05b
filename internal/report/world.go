package report

import (
	"sort"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/catalog"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/dataset"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/format"
)

const (
	modeCampaign  = "campaign"
	modeAdventure = "adventure"
)

func (e *Engine) world(w *writer, label string, save *dataset.Save) {
	if fruit, ok := save.ThaenFruit.Get(); ok {
		w.info("Thaen fruit data")
		w.raw(fruit)
	} else {
		w.info("Thaen fruit data not found")
	}

	w.info("Save play time: %s", format.Playtime(save.Playtime))

	campaign := &save.Campaign
	for _, z := range campaign.Zones {
		w.info("Campaign story: %s", z.Story)
	}
	e.mode(w, label, modeCampaign, campaign)

	if adventure, ok := save.Adventure.Get(); ok {
		story := "Unknown"
		if len(adventure.Zones) > 0 {
			story = adventure.Zones[0].Story
		}
		w.info("Adventure story: %s", story)
		e.mode(w, label, modeAdventure, &adventure)
	}

	w.info("BEGIN Cass shop, %s", label)
	for _, entry := range save.CassShop {
		w.info("  %s", entry.Name)
	}
	w.info("END Cass shop, %s", label)

	e.questLog(w, label, save.QuestCompletedLog)
}

func (e *Engine) mode(w *writer, label, name string, m *dataset.Mode) {
	title := capitalize(name)
	w.info("%s difficulty: %s", title, m.Difficulty)
	w.info("%s play time: %s", title, format.Playtime(m.Playtime))
	w.info("%s respawn point: %s", title, m.RespawnPoint.OrElse("Unknown"))

	if moon, ok := m.BloodMoon.Get(); ok {
		w.info("Blood moon data")
		w.raw(moon)
	} else {
		w.info("Blood moon data not found")
	}

	w.info("BEGIN Quest inventory, %s, mode: %s", label, name)

	var names []string
	for _, item := range m.QuestInventory {
		entry, ok := e.catalog.ByProfileID(item.ProfileID)
		if !ok {
			w.warn("  Quest item not found in database: %s", item.ProfileID)
			continue
		}
		names = append(names, entry.Name)
	}
	sort.Strings(names)
	for _, n := range names {
		w.info("  %s", n)
	}

	w.info("END Quest inventory, %s, mode: %s", label, name)
}

func (e *Engine) questLog(w *writer, label string, log []string) {
	w.info("BEGIN Quest log, %s", label)

	var done []catalog.Entry
	for _, id := range log {
		entry, ok := e.catalog.ByID(catalog.QuestIDPrefix + id)
		if !ok {
			w.warn("  Quest not found in database: %s", id)
			continue
		}
		done = append(done, entry)
	}
	for _, entry := range done {
		w.info("  %s (%s)", entry.Name, entry.Property("Subtype"))
	}

	w.info("END Quest log, %s", label)
}
