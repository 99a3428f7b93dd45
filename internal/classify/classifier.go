package classify

import (
	"sort"
	"strings"

	"sipor/internal/config"
	"sipor/internal/models"
)

// ItemRule maps a keyword to a supply category.
type ItemRule struct {
	Keyword  string
	Category models.Category
}

// ZoneRule maps a keyword to a location type.
type ZoneRule struct {
	Keyword  string
	Location models.LocationType
}

// Classifier maps free-text item and zone names onto the fixed enums using
// ordered, case-insensitive substring rules. The first matching rule wins,
// so rule order is the tie-break for any future overlapping keywords.
type Classifier struct {
	itemRules    []ItemRule
	zoneRules    []ZoneRule
	zoneFallback models.LocationType
}

// New builds a classifier from explicit rule tables. Keywords are lowered
// once up front; an empty fallback defaults to Yard.
func New(items []ItemRule, zones []ZoneRule, fallback models.LocationType) *Classifier {
	c := &Classifier{zoneFallback: fallback}
	if c.zoneFallback == "" {
		c.zoneFallback = models.LocationYard
	}
	for _, r := range items {
		c.itemRules = append(c.itemRules, ItemRule{Keyword: strings.ToLower(r.Keyword), Category: r.Category})
	}
	for _, r := range zones {
		c.zoneRules = append(c.zoneRules, ZoneRule{Keyword: strings.ToLower(r.Keyword), Location: r.Location})
	}
	return c
}

// FromConfig builds a classifier from the TOML rule tables. Unrecognized
// category or location names in the config are skipped rather than guessed.
func FromConfig(cfg *config.ClassificationConfig) *Classifier {
	var items []ItemRule
	for _, r := range cfg.Items {
		if cat, ok := parseCategory(r.Category); ok {
			items = append(items, ItemRule{Keyword: r.Keyword, Category: cat})
		}
	}
	var zones []ZoneRule
	for _, r := range cfg.Zones {
		if loc, ok := parseLocation(r.Location); ok {
			zones = append(zones, ZoneRule{Keyword: r.Keyword, Location: loc})
		}
	}
	fallback, ok := parseLocation(cfg.FallbackLocation)
	if !ok {
		fallback = models.LocationYard
	}
	return New(items, zones, fallback)
}

// Item classifies a free-text insumo name. Items with no matching keyword
// map to Unclassified; they are excluded from per-category views but still
// counted in all-category totals.
func (c *Classifier) Item(text string) models.Category {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, r := range c.itemRules {
		if strings.Contains(s, r.Keyword) {
			return r.Category
		}
	}
	return models.CategoryUnclassified
}

// Zone classifies a free-text zona name. Unmatched zones get the configured
// fallback instead of inventing a hidden third bucket.
func (c *Classifier) Zone(text string) models.LocationType {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, r := range c.zoneRules {
		if strings.Contains(s, r.Keyword) {
			return r.Location
		}
	}
	return c.zoneFallback
}

// FilterByCategory returns the records whose item classifies to cat, in
// input order.
func (c *Classifier) FilterByCategory(records []models.Record, cat models.Category) []models.Record {
	var out []models.Record
	for _, r := range records {
		if c.Item(r.Item) == cat {
			out = append(out, r)
		}
	}
	return out
}

// UnclassifiedItems returns the distinct item names with no category match,
// sorted, for data-quality reporting.
func (c *Classifier) UnclassifiedItems(records []models.Record) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range records {
		if c.Item(r.Item) != models.CategoryUnclassified {
			continue
		}
		name := strings.TrimSpace(r.Item)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func parseCategory(s string) (models.Category, bool) {
	switch models.Category(strings.TrimSpace(s)) {
	case models.CategoryPallets:
		return models.CategoryPallets, true
	case models.CategoryTarps:
		return models.CategoryTarps, true
	case models.CategoryPlastics:
		return models.CategoryPlastics, true
	case models.CategorySpaces:
		return models.CategorySpaces, true
	case models.CategoryUnclassified:
		return models.CategoryUnclassified, true
	}
	return "", false
}

func parseLocation(s string) (models.LocationType, bool) {
	switch models.LocationType(strings.TrimSpace(s)) {
	case models.LocationYard:
		return models.LocationYard, true
	case models.LocationWarehouse:
		return models.LocationWarehouse, true
	case models.LocationUnknown:
		return models.LocationUnknown, true
	}
	return "", false
}
