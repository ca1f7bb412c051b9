package catalog

import "reorder-system/internal/domain"

// Seed returns the built-in demo catalog, used when no file or database
// source is configured. SKUs follow the vendor's ASIN format.
func Seed() []domain.Product {
	return []domain.Product{
		{
			ID:               "prod_water_001",
			Name:             "Spring Water 24-Pack (16.9 oz bottles)",
			Category:         "beverages",
			ObjectClass:      "water_bottle",
			Vendor:           "amazon",
			ReorderThreshold: domain.FillNearlyEmpty,
			DefaultVariant:   "B07HNBV23M",
			Variants: []domain.Variant{
				{SKU: "B07HNBV23M", Label: "24-pack", Size: "16.9 oz", UnitPriceUSD: 12.99},
				{SKU: "B07HNBV24N", Label: "35-pack", Size: "16.9 oz", UnitPriceUSD: 17.49},
			},
		},
		{
			ID:               "prod_sunscreen_001",
			Name:             "Coppertone Sport SPF 50 Sunscreen Lotion",
			Category:         "personal_care",
			ObjectClass:      "sunscreen",
			Vendor:           "amazon",
			ReorderThreshold: domain.FillNearlyEmpty,
			DefaultVariant:   "B004D2C5GQ",
			Variants: []domain.Variant{
				{SKU: "B004D2C5GQ", Label: "SPF 50", Size: "8 fl oz", UnitPriceUSD: 15.49},
			},
		},
		{
			ID:               "prod_detergent_001",
			Name:             "Tide Liquid Laundry Detergent, Original Scent",
			Category:         "household",
			ObjectClass:      "laundry_detergent",
			Vendor:           "amazon",
			ReorderThreshold: domain.FillNearlyEmpty,
			DefaultVariant:   "B00JSZ0E5C",
			Variants: []domain.Variant{
				{SKU: "B00JSZ0E5C", Label: "64 loads", Size: "92 fl oz", UnitPriceUSD: 18.99},
				{SKU: "B00JSZ0F6D", Label: "32 loads", Size: "46 fl oz", UnitPriceUSD: 10.99},
			},
		},
		{
			ID:               "prod_shampoo_001",
			Name:             "Pantene Pro-V Daily Moisture Renewal Shampoo",
			Category:         "personal_care",
			ObjectClass:      "shampoo",
			Vendor:           "amazon",
			ReorderThreshold: domain.FillNearlyEmpty,
			DefaultVariant:   "B00CKCNV9W",
			Variants: []domain.Variant{
				{SKU: "B00CKCNV9W", Label: "Daily Moisture Renewal", Size: "12.6 oz", UnitPriceUSD: 7.99},
			},
		},
		{
			ID:               "prod_soap_001",
			Name:             "Dove Beauty Bar Gentle Skin Cleanser",
			Category:         "personal_care",
			ObjectClass:      "soap",
			Vendor:           "walmart",
			ReorderThreshold: domain.FillEmpty,
			DefaultVariant:   "B00L6F5D8O",
			Variants: []domain.Variant{
				{SKU: "B00L6F5D8O", Label: "4-pack", Size: "4 oz bars", UnitPriceUSD: 9.49},
			},
		},
		{
			ID:               "prod_toothpaste_001",
			Name:             "Colgate Total Whitening Toothpaste",
			Category:         "personal_care",
			ObjectClass:      "toothpaste",
			Vendor:           "amazon",
			ReorderThreshold: domain.FillEmpty,
			DefaultVariant:   "B00N92Y5YG",
			Variants: []domain.Variant{
				{SKU: "B00N92Y5YG", Label: "Whitening", Size: "4.8 oz", UnitPriceUSD: 5.99},
			},
		},
		{
			ID:               "prod_deodorant_001",
			Name:             "Degree Men Cool Rush Antiperspirant Deodorant",
			Category:         "personal_care",
			ObjectClass:      "deodorant",
			Vendor:           "amazon",
			ReorderThreshold: domain.FillEmpty,
			DefaultVariant:   "B00EZXF8GU",
			Variants: []domain.Variant{
				{SKU: "B00EZXF8GU", Label: "Cool Rush", Size: "2.7 oz", UnitPriceUSD: 6.49},
			},
		},
		{
			ID:               "prod_dish_soap_001",
			Name:             "Dawn Ultra Dishwashing Liquid, Original Scent",
			Category:         "household",
			ObjectClass:      "dish_soap",
			Vendor:           "instacart",
			ReorderThreshold: domain.FillNearlyEmpty,
			DefaultVariant:   "B00CQOK8M8",
			Variants: []domain.Variant{
				{SKU: "B00CQOK8M8", Label: "Original", Size: "21.6 oz", UnitPriceUSD: 4.99},
			},
		},
		{
			ID:               "prod_coffee_001",
			Name:             "Folgers Classic Roast Ground Coffee",
			Category:         "food",
			ObjectClass:      "coffee_container",
			Vendor:           "amazon",
			ReorderThreshold: domain.FillNearlyEmpty,
			DefaultVariant:   "B00TUXVBGU",
			Variants: []domain.Variant{
				{SKU: "B00TUXVBGU", Label: "Classic Roast", Size: "30.5 oz", UnitPriceUSD: 11.99},
			},
		},
		{
			ID:               "prod_milk_001",
			Name:             "Horizon Organic Whole Milk",
			Category:         "food",
			ObjectClass:      "milk_carton",
			Vendor:           "instacart",
			ReorderThreshold: domain.FillHalf,
			DefaultVariant:   "B000X8X2QS",
			Variants: []domain.Variant{
				{SKU: "B000X8X2QS", Label: "Whole Milk", Size: "half gallon", UnitPriceUSD: 6.99},
			},
		},
		{
			ID:               "prod_cereal_001",
			Name:             "Cheerios Whole Grain Oat Cereal",
			Category:         "food",
			ObjectClass:      "cereal_box",
			Vendor:           "walmart",
			ReorderThreshold: domain.FillNearlyEmpty,
			DefaultVariant:   "B00CQOK9N9",
			Variants: []domain.Variant{
				{SKU: "B00CQOK9N9", Label: "Whole Grain Oat", Size: "18 oz", UnitPriceUSD: 5.49},
			},
		},
	}
}
