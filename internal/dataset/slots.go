package dataset

import "strconv"

// EquipmentSlot is the slot an equipped inventory item occupies
type EquipmentSlot int

const (
	SlotHelmet EquipmentSlot = iota
	SlotBody
	SlotGloves
	SlotLegs
	SlotRelic
	SlotRelicFragment1
	SlotRelicFragment2
	SlotRelicFragment3
	SlotAmulet
	SlotRing1
	SlotRing2
	SlotRing3
	SlotRing4
	SlotLongGun
	SlotMelee
	SlotHandgun
	SlotArchetype1
	SlotArchetype2
)

var equipmentSlotNames = [...]string{
	SlotHelmet:         "Helmet",
	SlotBody:           "Body",
	SlotGloves:         "Gloves",
	SlotLegs:           "Legs",
	SlotRelic:          "Relic",
	SlotRelicFragment1: "RelicFragment1",
	SlotRelicFragment2: "RelicFragment2",
	SlotRelicFragment3: "RelicFragment3",
	SlotAmulet:         "Amulet",
	SlotRing1:          "Ring1",
	SlotRing2:          "Ring2",
	SlotRing3:          "Ring3",
	SlotRing4:          "Ring4",
	SlotLongGun:        "LongGun",
	SlotMelee:          "Melee",
	SlotHandgun:        "Handgun",
	SlotArchetype1:     "Archetype1",
	SlotArchetype2:     "Archetype2",
}

// Known reports whether the slot is one of the recognised equipment slots
func (s EquipmentSlot) Known() bool {
	return s >= 0 && int(s) < len(equipmentSlotNames)
}

// String returns the slot name, or its number when the slot is not recognised
func (s EquipmentSlot) String() string {
	if !s.Known() {
		return strconv.Itoa(int(s))
	}
	return equipmentSlotNames[s]
}

// LoadoutSlot numbers the records of a saved loadout
type LoadoutSlot int

var loadoutSlotNames = [...]string{
	"Helmet",
	"Body",
	"Gloves",
	"Legs",
	"Relic",
	"RelicFragment1",
	"RelicFragment2",
	"RelicFragment3",
	"Amulet",
	"Ring1",
	"Ring2",
	"Ring3",
	"Ring4",
	"LongGun",
	"LongGunMod",
	"LongGunMutator",
	"Melee",
	"MeleeMod",
	"MeleeMutator",
	"Handgun",
	"HandgunMod",
	"HandgunMutator",
}

// String returns the slot name, or its number when the slot is not recognised
func (s LoadoutSlot) String() string {
	if s < 0 || int(s) >= len(loadoutSlotNames) {
		return strconv.Itoa(int(s))
	}
	return loadoutSlotNames[s]
}
