package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"reorder-system/internal/domain"
)

type fileProduct struct {
	ID               string        `yaml:"id"`
	Name             string        `yaml:"name"`
	Category         string        `yaml:"category"`
	ObjectClass      string        `yaml:"object_class"`
	Vendor           string        `yaml:"vendor"`
	ReorderThreshold string        `yaml:"reorder_threshold"`
	DefaultVariant   string        `yaml:"default_variant"`
	Variants         []fileVariant `yaml:"variants"`
}

type fileVariant struct {
	SKU          string  `yaml:"sku"`
	Label        string  `yaml:"label"`
	Size         string  `yaml:"size"`
	UnitPriceUSD float64 `yaml:"unit_price_usd"`
}

type fileCatalog struct {
	Products []fileProduct `yaml:"products"`
}

// LoadFile builds a catalog from a YAML product list.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var fc fileCatalog
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	products := make([]domain.Product, 0, len(fc.Products))
	for _, fp := range fc.Products {
		p := domain.Product{
			ID:               fp.ID,
			Name:             fp.Name,
			Category:         fp.Category,
			ObjectClass:      fp.ObjectClass,
			Vendor:           fp.Vendor,
			ReorderThreshold: domain.FillLevel(fp.ReorderThreshold),
			DefaultVariant:   fp.DefaultVariant,
		}
		for _, fv := range fp.Variants {
			p.Variants = append(p.Variants, domain.Variant{
				SKU:          fv.SKU,
				Label:        fv.Label,
				Size:         fv.Size,
				UnitPriceUSD: fv.UnitPriceUSD,
			})
		}
		products = append(products, p)
	}
	return New(products)
}
