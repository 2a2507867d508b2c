package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var productsYAML []byte

// Catalog is the in-memory product catalog. It is immutable after load;
// lookups are safe for concurrent use.
type Catalog struct {
	products map[string]*ProductConfig
	ordered  []*ProductConfig
}

// NewCatalog loads the catalog embedded in the binary.
func NewCatalog() (*Catalog, error) {
	return NewCatalogFromYAML(productsYAML)
}

// NewCatalogFromYAML parses and validates a catalog definition.
func NewCatalogFromYAML(data []byte) (*Catalog, error) {
	var doc struct {
		Products []*ProductConfig `yaml:"products"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse product catalog: %w", err)
	}
	if len(doc.Products) == 0 {
		return nil, fmt.Errorf("product catalog is empty")
	}

	c := &Catalog{
		products: make(map[string]*ProductConfig, len(doc.Products)),
		ordered:  make([]*ProductConfig, 0, len(doc.Products)),
	}
	for _, p := range doc.Products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.products[p.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
		}
		c.products[p.ID] = p
		c.ordered = append(c.ordered, p)
	}
	sort.SliceStable(c.ordered, func(i, j int) bool {
		if c.ordered[i].SortOrder != c.ordered[j].SortOrder {
			return c.ordered[i].SortOrder < c.ordered[j].SortOrder
		}
		return c.ordered[i].ID < c.ordered[j].ID
	})

	return c, nil
}

// ProductFor returns the catalog entry for a product ID.
// Returns ErrProductNotFound for IDs not in the catalog, including retired
// IDs that were removed from the definition.
func (c *Catalog) ProductFor(productID string) (*ProductConfig, error) {
	p, ok := c.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return p, nil
}

// ListActive returns purchasable products in display order.
func (c *Catalog) ListActive() []*ProductConfig {
	out := make([]*ProductConfig, 0, len(c.ordered))
	for _, p := range c.ordered {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// ListAll returns every catalog entry in display order, retired ones included.
func (c *Catalog) ListAll() []*ProductConfig {
	out := make([]*ProductConfig, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.ordered)
}
