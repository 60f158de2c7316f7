package utils

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"bombsquad/models"

	yaml "gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the read-only shop inventory, in display order
type Catalog struct {
	items  []models.Item
	byName map[string]models.Item
}

// Items is the catalog loaded at startup
var Items = MustDefaultCatalog()

type catalogFile struct {
	Items []models.Item `yaml:"items"`
}

// LoadCatalog loads the embedded catalog, or the YAML file at path when set
func LoadCatalog(path string) (*Catalog, error) {
	raw := defaultCatalog
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		raw = b
	}
	return ParseCatalog(raw)
}

// MustDefaultCatalog parses the embedded catalog and panics if it is broken
func MustDefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// ParseCatalog decodes and validates a YAML catalog
func ParseCatalog(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Items) == 0 {
		return nil, fmt.Errorf("catalog has no items")
	}

	c := &Catalog{byName: make(map[string]models.Item, len(f.Items))}
	for _, item := range f.Items {
		item.Name = NormalizeItemName(item.Name)
		if item.Effect == "" {
			item.Effect = models.EffectNone
		}
		switch {
		case item.Name == "":
			return nil, fmt.Errorf("catalog item without a name")
		case item.Price <= 0:
			return nil, fmt.Errorf("item %q: price must be positive", item.Name)
		case !item.Effect.Valid():
			return nil, fmt.Errorf("item %q: unknown effect %q", item.Name, item.Effect)
		}
		if _, dup := c.byName[item.Name]; dup {
			return nil, fmt.Errorf("duplicate catalog item %q", item.Name)
		}
		c.byName[item.Name] = item
		c.items = append(c.items, item)
	}
	return c, nil
}

// Lookup finds an item by (case-insensitive) name
func (c *Catalog) Lookup(name string) (models.Item, bool) {
	item, ok := c.byName[NormalizeItemName(name)]
	return item, ok
}

// All returns the items in display order
func (c *Catalog) All() []models.Item {
	return append([]models.Item(nil), c.items...)
}

// Effect returns the effect of name; unknown items have no effect
func (c *Catalog) Effect(name string) models.Effect {
	if item, ok := c.Lookup(name); ok {
		return item.Effect
	}
	return models.EffectNone
}

// Emoji returns the display emoji of name, or a generic box
func (c *Catalog) Emoji(name string) string {
	if item, ok := c.Lookup(name); ok && item.Emoji != "" {
		return item.Emoji
	}
	return "📦"
}

// NormalizeItemName trims and lower-cases an item name
func NormalizeItemName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// ItemTitle turns "bomb detector" into "Bomb Detector"
func ItemTitle(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
