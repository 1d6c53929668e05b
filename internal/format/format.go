// Package format holds the text helpers shared by the report and the CLI.
package format

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// Capitalize upper-cases the first letter of every word, leaving the rest untouched
func Capitalize(s string) string {
	return titleCaser.String(s)
}

// CamelAsWords splits a camel-cased identifier into words: "LongGun" -> "Long Gun"
func CamelAsWords(s string) string {
	if s == "" {
		return s
	}

	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(' ')
			}
		}
		if i > 0 && unicode.IsDigit(r) && !unicode.IsDigit(runes[i-1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Playtime renders a duration as "h:mm:ss", prefixed with days when longer than one
func Playtime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute
	seconds := int(d / time.Second)

	if days > 0 {
		return fmt.Sprintf("%dd %d:%02d:%02d", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}

var fragmentTiers = []string{"Common", "Uncommon", "Rare", "Legendary"}

// RelicFragmentLevel qualifies a relic fragment name with the tier its level maps to
func RelicFragmentLevel(name string, level int) string {
	if level < 1 {
		level = 1
	}
	if level > len(fragmentTiers) {
		level = len(fragmentTiers)
	}
	return fragmentTiers[level-1] + " " + name
}

// EquipmentSlot formats an item attached to an equipment slot.
// slot may be empty for items listed under their host in the inventory.
func EquipmentSlot(slot, itemType string, level int, name string) string {
	label := CamelAsWords(slot)

	var text string
	switch strings.ToLower(itemType) {
	case "mod":
		text = "Mod: " + name
	case "mutator":
		text = fmt.Sprintf("Mutator: %s, Level %d", name, level)
	case "fragment":
		text = "Fragment: " + RelicFragmentLevel(name, level)
	case "archetype", "trait":
		text = fmt.Sprintf("%s, Level %d", name, level)
	default:
		text = name
		if level > 0 {
			text += fmt.Sprintf(" +%d", level)
		}
	}

	if label == "" {
		return text
	}
	return label + ": " + text
}

// NameFromProfileID extracts the asset name from a decoded profile id.
// "/Game/World_Base/Items/Armor/Body_Cultist.Body_Cultist_C" -> "Body_Cultist"
func NameFromProfileID(profileID string) string {
	name := path.Base(strings.ReplaceAll(profileID, "\\", "/"))
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "_C")
}
