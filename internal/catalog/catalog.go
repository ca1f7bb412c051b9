package catalog

import (
	"fmt"
	"strings"

	"reorder-system/internal/domain"
)

// Catalog is a read-only mapping from detected object classes to orderable
// products. Built once at startup; safe for concurrent reads without locking.
type Catalog struct {
	byClass map[string]domain.Product
}

func New(products []domain.Product) (*Catalog, error) {
	byClass := make(map[string]domain.Product, len(products))
	for _, p := range products {
		key := normalizeClass(p.ObjectClass)
		if key == "" {
			return nil, fmt.Errorf("product %s: empty object_class", p.ID)
		}
		if _, dup := byClass[key]; dup {
			return nil, fmt.Errorf("product %s: duplicate object_class %q", p.ID, p.ObjectClass)
		}
		if len(p.Variants) == 0 {
			return nil, fmt.Errorf("product %s: no variants", p.ID)
		}
		if !p.ReorderThreshold.Valid() || p.ReorderThreshold == domain.FillUnknown {
			return nil, fmt.Errorf("product %s: invalid reorder_threshold %q", p.ID, p.ReorderThreshold)
		}
		if _, err := variantBySKU(p, p.DefaultVariant); err != nil {
			return nil, fmt.Errorf("product %s: default variant: %w", p.ID, err)
		}
		byClass[key] = p
	}
	return &Catalog{byClass: byClass}, nil
}

// Lookup returns the product for an object class. Unknown classes surface
// domain.ErrUnknownProduct; callers translate that to "do not prompt".
func (c *Catalog) Lookup(objectClass string) (domain.Product, error) {
	p, ok := c.byClass[normalizeClass(objectClass)]
	if !ok {
		return domain.Product{}, fmt.Errorf("object class %q: %w", objectClass, domain.ErrUnknownProduct)
	}
	return p, nil
}

// ResolveVariant picks the variant matching hint (a sku), falling back to the
// product's default variant when the hint is absent or unmatched.
func (c *Catalog) ResolveVariant(objectClass, hint string) (domain.Variant, error) {
	p, err := c.Lookup(objectClass)
	if err != nil {
		return domain.Variant{}, err
	}
	if hint != "" {
		if v, err := variantBySKU(p, hint); err == nil {
			return v, nil
		}
	}
	return variantBySKU(p, p.DefaultVariant)
}

// MeetsThreshold reports whether the observed fill level qualifies for a
// reorder prompt. Ties count as qualifying; UNKNOWN never does.
func (c *Catalog) MeetsThreshold(objectClass string, level domain.FillLevel) (bool, error) {
	p, err := c.Lookup(objectClass)
	if err != nil {
		return false, err
	}
	if level == domain.FillUnknown {
		return false, nil
	}
	return level.Rank() >= p.ReorderThreshold.Rank(), nil
}

// Len reports the number of loaded products.
func (c *Catalog) Len() int { return len(c.byClass) }

// Products returns the loaded product list; the mock vendor builds its sku
// table from it.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, 0, len(c.byClass))
	for _, p := range c.byClass {
		out = append(out, p)
	}
	return out
}

func variantBySKU(p domain.Product, sku string) (domain.Variant, error) {
	for _, v := range p.Variants {
		if v.SKU == sku {
			return v, nil
		}
	}
	return domain.Variant{}, fmt.Errorf("sku %q not in product %s", sku, p.ID)
}

func normalizeClass(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
