package dartex

import (
	"regexp"
	"strings"
)

// Item is one of the twelve numbered item sections of a filing.
type Item int

// MaxItem is the highest item number a filing carries.
const MaxItem Item = 12

var romanNumerals = [...]string{"", "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII"}

// Valid reports whether the item is within 1..MaxItem.
func (i Item) Valid() bool {
	return i >= 1 && i <= MaxItem
}

// Roman returns the item number as a Roman numeral.
// Returns an empty string for invalid items.
func (i Item) Roman() string {
	if !i.Valid() {
		return ""
	}
	return romanNumerals[i]
}

// Key returns the record key of the item slot, e.g. "item_IV".
func (i Item) Key() string {
	return itemKeyPrefix + i.Roman()
}

const itemKeyPrefix = "item_"

// AllItems returns items 1 through 12 in order.
func AllItems() []Item {
	items := make([]Item, 0, MaxItem)
	for i := Item(1); i <= MaxItem; i++ {
		items = append(items, i)
	}
	return items
}

// ParseItems converts item numbers into Items.
// An empty list selects all items. Duplicates keep their first position.
// Returns EINVALID if a number is outside 1..12.
func ParseItems(numbers []int) ([]Item, error) {
	if len(numbers) == 0 {
		return AllItems(), nil
	}

	items := make([]Item, 0, len(numbers))
	seen := make(map[Item]bool, len(numbers))
	for _, n := range numbers {
		item := Item(n)
		if !item.Valid() {
			return nil, Errorf(EINVALID, "item %d out of range 1-%d", n, MaxItem)
		}
		if seen[item] {
			continue
		}
		seen[item] = true
		items = append(items, item)
	}
	return items, nil
}

// sectionTitleRe matches a standalone item numeral I through XII. Word
// characters are Unicode letters, digits and underscore, so a numeral glued
// to Hangul or other non-ASCII letters is not standalone. Longer
// alternatives come first so that leftmost-first matching with the trailing
// boundary rejects tokens such as XIII or IIII.
var sectionTitleRe = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])(?:XII|XI|X|IX|VIII|VII|VI|V|IV|III|II|I)(?:$|[^\p{L}\p{N}_])`)

// IsSectionTitle reports whether a sub-document title contains an item
// numeral as a standalone word. The match is case-sensitive and may occur
// anywhere in the title.
func IsSectionTitle(title string) bool {
	return sectionTitleRe.MatchString(title)
}

// ItemKeyFromTitle derives the record key a sub-document title maps to:
// the text before the first period, taken literally. A title without a
// period maps to a key built from the whole title, which never names a
// requested slot unless the title is a bare numeral.
func ItemKeyFromTitle(title string) string {
	prefix, _, _ := strings.Cut(title, ".")
	return itemKeyPrefix + prefix
}
