package aodata

import (
	"sort"
	"strings"
)

// Item mirrors one entry of the ao-bin-dumps item catalog.
type Item struct {
	UniqueName               string            `json:"UniqueName"`
	LocalizedNames           map[string]string `json:"LocalizedNames"`
	LocalizationNameVariable string            `json:"LocalizationNameVariable"`
	ShopCategory             string            `json:"ShopCategory"`
	ItemCategory             string            `json:"ItemCategory"`
}

// Catalog holds the item lookup dictionaries built from the raw catalog.
type Catalog struct {
	Items      []Item
	Names      map[string]string // item id -> English display name
	Categories map[string]string // item id -> shop category
}

// BuildCatalog builds name and category dictionaries from raw catalog items.
// Entries without a UniqueName are skipped.
func BuildCatalog(items []Item) *Catalog {
	cat := &Catalog{
		Items:      items,
		Names:      make(map[string]string),
		Categories: make(map[string]string),
	}
	for _, item := range items {
		uid := item.UniqueName
		if uid == "" {
			continue
		}
		name := item.LocalizedNames["EN-US"]
		if name == "" {
			name = item.LocalizationNameVariable
		}
		if name == "" {
			name = uid
		}
		cat.Names[uid] = name

		category := item.ShopCategory
		if category == "" {
			category = item.ItemCategory
		}
		if category == "" {
			category = "Uncategorized"
		}
		cat.Categories[uid] = category
	}
	return cat
}

// DisplayName returns the English name for an item id, or the id itself.
func (c *Catalog) DisplayName(itemID string) string {
	if name, ok := c.Names[itemID]; ok {
		return name
	}
	return itemID
}

// CategoryOf returns the shop category for an item id.
func (c *Catalog) CategoryOf(itemID string) string {
	if cat, ok := c.Categories[itemID]; ok {
		return cat
	}
	return "Uncategorized"
}

// CategoryList returns the sorted set of categories among tradeable items.
func (c *Catalog) CategoryList() []string {
	seen := make(map[string]bool)
	for _, id := range c.TradeableIDs() {
		seen[c.CategoryOf(id)] = true
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// TradeableIDs returns the sorted item ids worth querying the market for.
// Low/top-tier gear and non-market junk (trophies, quest items, skins,
// vanity and island items) are excluded to keep requests small.
func (c *Catalog) TradeableIDs() []string {
	var out []string
	for id := range c.Names {
		if tradeable(id) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// FilterByCategory narrows item ids to one category. "All" or "" keeps everything.
func (c *Catalog) FilterByCategory(ids []string, category string) []string {
	if category == "" || category == "All" {
		return ids
	}
	var out []string
	for _, id := range ids {
		if c.CategoryOf(id) == category {
			out = append(out, id)
		}
	}
	return out
}

var excludedPrefixes = []string{"T1_", "T2_", "T8_"}

var excludedSubstrings = []string{
	"_TROPHY", "_BABY",
	"TREASURE_", "EMOTE",
	"UNLOCK", "CRYSTALLEAGUE",
	"TEST", "SKIN",
	"QUESTITEM_", "SILVERBAG",
	"JOURNAL", "QUEST",
	"UNIQUE", "LOOTBAG",
	"CAPEITEM", "ARENA",
	"KNUCKLES",
	"ARMOR_GATHERER", "HEAD_GATHERER", "SHOES_GATHERER",
	"PLAYERISLAND", "FARM",
	"_SET", "_SEED",
}

func tradeable(itemID string) bool {
	for _, p := range excludedPrefixes {
		if strings.HasPrefix(itemID, p) {
			return false
		}
	}
	for _, s := range excludedSubstrings {
		if strings.Contains(itemID, s) {
			return false
		}
	}
	return true
}
