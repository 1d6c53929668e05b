package testutils

import (
	"fmt"
	"testing"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/catalog"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/dataset"
	"github.com/stretchr/testify/require"
)

// Profile ids used by the test catalog
const (
	ProfileLongGun   = "/Game/Items/Weapons/Longguns/Wpn_Repulsor.Wpn_Repulsor_C"
	ProfileMod       = "/Game/Items/Mods/Mod_Stormcaller.Mod_Stormcaller_C"
	ProfileMutator   = "/Game/Items/Mutators/Mutator_Bandit.Mutator_Bandit_C"
	ProfileHelmet    = "/Game/Items/Armor/Head_Cultist.Head_Cultist_C"
	ProfileRing      = "/Game/Items/Rings/Ring_Probability.Ring_Probability_C"
	ProfileFragment  = "/Game/Items/Relics/Fragment_Crit.Fragment_Crit_C"
	ProfileTrait     = "/Game/Items/Traits/Trait_Vigor.Trait_Vigor_C"
	ProfileTraitB    = "/Game/Items/Traits/Trait_Endurance.Trait_Endurance_C"
	ProfileArchetype = "/Game/Items/Archetypes/Archetype_Hunter.Archetype_Hunter_C"
	ProfileQuestItem = "/Game/Items/Quest/Quest_Key.Quest_Key_C"
	ProfileArmorSet  = "/Game/Items/Armor/Special_Set.Special_Set_C"
	ProfileMaterial  = "/Game/Items/Materials/Material_Scrap.Material_Scrap_C"
)

// CreateTestEntries returns a small but complete catalog
func CreateTestEntries() []catalog.Entry {
	return []catalog.Entry{
		{ID: "Award_Cube", Type: catalog.TypeAward, Name: "Cube Gun Award"},
		{ID: "Award_Dragon", Type: catalog.TypeAward, Name: "Dragon Award"},
		{ID: "Wpn_Repulsor", ProfileID: ProfileLongGun, Type: "longgun", Name: "Repulsor"},
		{ID: "Mod_Stormcaller", ProfileID: ProfileMod, Type: "mod", Name: "Stormcaller"},
		{ID: "Mutator_Bandit", ProfileID: ProfileMutator, Type: "mutator", Name: "Bandit"},
		{ID: "Head_Cultist", ProfileID: ProfileHelmet, Type: "helmet", Name: "Cultist Hat"},
		{ID: "Ring_Probability", ProfileID: ProfileRing, Type: "ring", Name: "Probability Cord"},
		{ID: "Fragment_Crit", ProfileID: ProfileFragment, Type: catalog.TypeFragment, Name: "Critical Chance"},
		{ID: "Trait_Vigor", ProfileID: ProfileTrait, Type: catalog.TypeTrait, Name: "Vigor"},
		{ID: "Trait_Endurance", ProfileID: ProfileTraitB, Type: catalog.TypeTrait, Name: "Endurance"},
		{ID: "Archetype_Hunter", ProfileID: ProfileArchetype, Type: catalog.TypeArchetype, Name: "Hunter"},
		{ID: "QuestItem_Key", ProfileID: ProfileQuestItem, Type: catalog.TypeQuest, Name: "Rusty Key"},
		{ID: "Special_Set", ProfileID: ProfileArmorSet, Type: catalog.TypeArmorSpecial, Name: "Set Bonus"},
		{ID: "Quest_Main_01", Type: catalog.TypeQuest, Name: "The Awakening", Properties: map[string]string{"Subtype": "Main"}},
		{ID: "Achievement_First", Type: catalog.TypeAchievement, Name: "First Steps"},
		{ID: "Achievement_Second", Type: catalog.TypeAchievement, Name: "Second Wind"},
	}
}

// CreateTestCatalog builds a catalog from entries, failing the test on invalid input
func CreateTestCatalog(t *testing.T, entries ...catalog.Entry) *catalog.Catalog {
	t.Helper()
	if entries == nil {
		entries = CreateTestEntries()
	}
	c, err := catalog.New(entries)
	require.NoError(t, err)
	return c
}

// CreateChallenges returns count challenge entries Challenge_1..Challenge_count
func CreateChallenges(count int) []catalog.Entry {
	out := make([]catalog.Entry, 0, count)
	for i := 1; i <= count; i++ {
		out = append(out, catalog.Entry{
			ID:   fmt.Sprintf("Challenge_%d", i),
			Type: catalog.TypeChallenge,
			Name: fmt.Sprintf("Challenge %d", i),
		})
	}
	return out
}

// CreateTestItem creates an owned inventory item
func CreateTestItem(id int, profileID string) dataset.InventoryItem {
	return dataset.InventoryItem{
		ID:        dataset.Some(id),
		ProfileID: profileID,
	}
}

// CreateEquippedItem creates an item equipped in slot
func CreateEquippedItem(id int, profileID string, slot dataset.EquipmentSlot, level int) dataset.InventoryItem {
	item := CreateTestItem(id, profileID)
	item.IsEquipped = true
	item.EquippedSlot = dataset.Some(slot)
	item.Level = dataset.Some(level)
	return item
}

// CreateSlottedItem creates a mod or fragment attached to host
func CreateSlottedItem(id int, profileID string, host int) dataset.InventoryItem {
	item := CreateTestItem(id, profileID)
	item.EquippedModItemID = dataset.Some(host)
	return item
}

// CreateTestCharacter creates a character with an empty campaign
func CreateTestCharacter(index int, inventory ...dataset.InventoryItem) dataset.Character {
	return dataset.Character{
		Index: index,
		Profile: dataset.Profile{
			Inventory: inventory,
		},
		Save: dataset.Save{
			Header:   dataset.FileHeader{Version: 4, BuildNumber: 400000},
			Campaign: dataset.Mode{Difficulty: "Survivor"},
		},
	}
}

// CreateTestDataset wraps characters in a dataset
func CreateTestDataset(characters ...dataset.Character) *dataset.Dataset {
	return &dataset.Dataset{
		ProfileHeader: dataset.FileHeader{Version: 9, BuildNumber: 400000},
		Characters:    characters,
	}
}
