// Package catalog holds the crafting catalog: equipment categories, per-item
// material costs, and the full armor sets assembled from them. The data ships
// embedded in the binary and is validated against a JSON schema on load; an
// external file can replace it through configuration.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/qri-io/jsonschema"
)

//go:embed data/equipment.json
var defaultData []byte

//go:embed data/catalog_schema.json
var schemaData []byte

// SetPiece is one item of a full set, addressed the same way requests
// address items.
type SetPiece struct {
	Category string `json:"category"`
	ItemName string `json:"item_name"`
}

type itemCost struct {
	a int64
	b int64
}

// Catalog answers category, item, cost and set lookups. It is immutable
// after load and safe for concurrent readers.
type Catalog struct {
	materialA string
	materialB string

	categories []string
	items      map[string][]string
	costs      map[string]map[string]itemCost

	sets      []string
	setPieces map[string][]SetPiece
}

type catalogFile struct {
	Materials struct {
		A string `json:"a"`
		B string `json:"b"`
	} `json:"materials"`
	Categories []struct {
		Name  string `json:"name"`
		Items []struct {
			Name  string `json:"name"`
			CostA int64  `json:"cost_a"`
			CostB int64  `json:"cost_b"`
		} `json:"items"`
	} `json:"categories"`
	Sets []struct {
		Name     string   `json:"name"`
		Category string   `json:"category"`
		Items    []string `json:"items"`
	} `json:"sets"`
}

// Load builds the catalog from the embedded data.
func Load() (*Catalog, error) {
	return parse(defaultData)
}

// LoadFile builds the catalog from an external JSON file, validated the same
// way as the embedded data.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	return parse(raw)
}

func parse(raw []byte) (*Catalog, error) {
	ctx := context.Background()

	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(schemaData, rs); err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}

	verrs, err := rs.ValidateBytes(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("schema validate error: %w", err)
	}
	if len(verrs) > 0 {
		var sb strings.Builder
		for _, v := range verrs {
			sb.WriteString(v.Message)
			sb.WriteString("; ")
		}

		return nil, fmt.Errorf("catalog data invalid: %s", sb.String())
	}

	var f catalogFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		materialA: f.Materials.A,
		materialB: f.Materials.B,
		items:     make(map[string][]string),
		costs:     make(map[string]map[string]itemCost),
		setPieces: make(map[string][]SetPiece),
	}

	for _, cat := range f.Categories {
		if _, ok := c.costs[cat.Name]; ok {
			return nil, fmt.Errorf("duplicate category %q", cat.Name)
		}

		c.categories = append(c.categories, cat.Name)
		c.costs[cat.Name] = make(map[string]itemCost, len(cat.Items))

		names := make([]string, 0, len(cat.Items))
		for _, it := range cat.Items {
			if _, ok := c.costs[cat.Name][it.Name]; ok {
				return nil, fmt.Errorf("duplicate item %q in category %q", it.Name, cat.Name)
			}

			names = append(names, it.Name)
			c.costs[cat.Name][it.Name] = itemCost{a: it.CostA, b: it.CostB}
		}
		c.items[cat.Name] = names
	}

	for _, s := range f.Sets {
		if _, ok := c.setPieces[s.Name]; ok {
			return nil, fmt.Errorf("duplicate set %q", s.Name)
		}

		pieces := make([]SetPiece, 0, len(s.Items))
		for _, name := range s.Items {
			if _, _, ok := c.lookup(s.Category, name); !ok {
				return nil, fmt.Errorf("set %q references unknown item %q in category %q", s.Name, name, s.Category)
			}

			pieces = append(pieces, SetPiece{Category: s.Category, ItemName: name})
		}

		c.sets = append(c.sets, s.Name)
		c.setPieces[s.Name] = pieces
	}

	return c, nil
}

func (c *Catalog) lookup(category, item string) (int64, int64, bool) {
	items, ok := c.costs[category]
	if !ok {
		return 0, 0, false
	}

	cost, ok := items[item]
	if !ok {
		return 0, 0, false
	}

	return cost.a, cost.b, true
}

// Materials returns the display labels of the two tracked materials.
func (c *Catalog) Materials() (string, string) {
	return c.materialA, c.materialB
}

// Categories returns all category names in curated order, including empty
// categories.
func (c *Catalog) Categories() []string {
	return c.categories
}

// Items returns the item names of a category in curated order. An unknown
// category yields nil.
func (c *Catalog) Items(category string) []string {
	return c.items[category]
}

// Cost returns the per-unit material costs of an item. Unknown category or
// item yields (0, 0, false); callers decide whether that is an error.
func (c *Catalog) Cost(category, item string) (int64, int64, bool) {
	return c.lookup(category, item)
}

// Sets returns the names of all full sets in curated order.
func (c *Catalog) Sets() []string {
	return c.sets
}

// SetItems returns the pieces of a full set, nil when the set is unknown.
func (c *Catalog) SetItems(name string) []SetPiece {
	return c.setPieces[name]
}

// SetTotals sums the per-unit costs over every piece of a set.
func (c *Catalog) SetTotals(name string) (int64, int64, bool) {
	pieces, ok := c.setPieces[name]
	if !ok {
		return 0, 0, false
	}

	var a, b int64
	for _, p := range pieces {
		ca, cb, _ := c.lookup(p.Category, p.ItemName)
		a += ca
		b += cb
	}

	return a, b, true
}
