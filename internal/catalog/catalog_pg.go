package catalog

import (
	"context"
	"fmt"

	"reorder-system/internal/connections/database"
	"reorder-system/internal/domain"
)

// LoadPostgres reads the product tables and builds an in-memory catalog.
// The database is a load-time source only; lookups never touch it.
func LoadPostgres(ctx context.Context, conn *database.Conn) (*Catalog, error) {
	rows, err := conn.Query(ctx, `
		SELECT id, name, category, object_class, vendor, reorder_threshold, default_variant
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var threshold string
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.ObjectClass, &p.Vendor, &threshold, &p.DefaultVariant); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.ReorderThreshold = domain.FillLevel(threshold)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	for i := range products {
		vrows, err := conn.Query(ctx, `
			SELECT sku, label, COALESCE(size, ''), COALESCE(unit_price_usd, 0)
			FROM product_variants
			WHERE product_id = $1
			ORDER BY sku
		`, products[i].ID)
		if err != nil {
			return nil, fmt.Errorf("query variants for %s: %w", products[i].ID, err)
		}
		for vrows.Next() {
			var v domain.Variant
			if err := vrows.Scan(&v.SKU, &v.Label, &v.Size, &v.UnitPriceUSD); err != nil {
				vrows.Close()
				return nil, fmt.Errorf("scan variant for %s: %w", products[i].ID, err)
			}
			products[i].Variants = append(products[i].Variants, v)
		}
		vrows.Close()
		if err := vrows.Err(); err != nil {
			return nil, fmt.Errorf("iterate variants for %s: %w", products[i].ID, err)
		}
	}
	return New(products)
}
