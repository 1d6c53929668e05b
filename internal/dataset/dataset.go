package dataset

import (
	"time"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/catalog"
)

// FileHeader identifies the save format a file was written with
type FileHeader struct {
	Version     int `json:"version"`
	BuildNumber int `json:"build_number"`
}

// Dataset is the decoded state of one save folder.
// It is built by a Decoder and replaced wholesale on reload, never edited in place.
type Dataset struct {
	ProfileHeader        FileHeader  `json:"profile_header"`
	AccountAwards        []string    `json:"account_awards,omitempty"`
	ActiveCharacterIndex int         `json:"active_character_index"`
	Characters           []Character `json:"characters,omitempty"`
}

// Character is one save slot
type Character struct {
	Index   int     `json:"index"`
	Profile Profile `json:"profile"`
	Save    Save    `json:"save"`
}

// Profile is the per-character persistent progression
type Profile struct {
	Inventory            []InventoryItem     `json:"inventory,omitempty"`
	Loadouts             Optional[[]Loadout] `json:"loadouts,omitzero"`
	Objectives           []ObjectiveProgress `json:"objectives,omitempty"`
	QuickSlots           []InventoryItem     `json:"quick_slots,omitempty"`
	IsHardcore           bool                `json:"is_hardcore,omitempty"`
	TraitRank            int                 `json:"trait_rank,omitempty"`
	LastSavedTraitPoints int                 `json:"last_saved_trait_points,omitempty"`
	PowerLevel           int                 `json:"power_level,omitempty"`
	ItemLevel            int                 `json:"item_level,omitempty"`
	Gender               string              `json:"gender,omitempty"`
	RelicCharges         int                 `json:"relic_charges,omitempty"`
}

// InventoryItem is one owned or equipped item.
// Mods and fragments point at their host through EquippedModItemID rather than being nested.
type InventoryItem struct {
	ID                Optional[int]           `json:"id,omitzero"`
	ProfileID         string                  `json:"profile_id"`
	Level             Optional[int]           `json:"level,omitzero"`
	Quantity          Optional[int]           `json:"quantity,omitzero"`
	IsEquipped        bool                    `json:"is_equipped,omitempty"`
	EquippedSlot      Optional[EquipmentSlot] `json:"equipped_slot,omitzero"`
	EquippedModItemID Optional[int]           `json:"equipped_mod_item_id,omitzero"`
	IsTrait           bool                    `json:"is_trait,omitempty"`
	Favorited         bool                    `json:"favorited,omitempty"`
	New               bool                    `json:"new,omitempty"`
}

// IsSlotted reports whether the item is attached to any host
func (i InventoryItem) IsSlotted() bool {
	id, ok := i.EquippedModItemID.Get()
	return ok && id >= 0
}

// Loadout is one saved equipment preset
type Loadout []LoadoutRecord

// LoadoutRecordType classifies a loadout record
type LoadoutRecordType string

const (
	LoadoutRecordEquipment LoadoutRecordType = "Equipment"
	LoadoutRecordTrait     LoadoutRecordType = "Trait"
)

// LoadoutRecord is one slot of a loadout
type LoadoutRecord struct {
	Type     LoadoutRecordType `json:"type"`
	Slot     int               `json:"slot"`
	Level    int               `json:"level"`
	Name     string            `json:"name"`
	ItemType string            `json:"item_type"`
}

// ObjectiveProgress is an achievement or challenge the character has progressed
type ObjectiveProgress struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Progress    string `json:"progress"`
}

// Save is the per-character world state
type Save struct {
	Header            FileHeader          `json:"header"`
	Playtime          time.Duration       `json:"playtime"`
	Campaign          Mode                `json:"campaign"`
	Adventure         Optional[Mode]      `json:"adventure,omitzero"`
	QuestCompletedLog []string            `json:"quest_completed_log,omitempty"`
	CassShop          []catalog.Entry     `json:"cass_shop,omitempty"`
	ThaenFruit        Optional[RawRecord] `json:"thaen_fruit,omitzero"`
}

// Mode is the campaign or adventure section of a save
type Mode struct {
	Zones          []Zone              `json:"zones,omitempty"`
	Difficulty     string              `json:"difficulty"`
	Playtime       time.Duration       `json:"playtime"`
	RespawnPoint   Optional[string]    `json:"respawn_point,omitzero"`
	BloodMoon      Optional[RawRecord] `json:"blood_moon,omitzero"`
	QuestInventory []InventoryItem     `json:"quest_inventory,omitempty"`
}

// Zone is one generated world of a mode
type Zone struct {
	Story string `json:"story"`
}

// RawField is one stringified property of a raw save record
type RawField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RawRecord keeps raw save properties in decode order
type RawRecord []RawField
