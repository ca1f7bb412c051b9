package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"reorder-system/internal/domain"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New(Seed())
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}

func TestLookup(t *testing.T) {
	c := testCatalog(t)

	p, err := c.Lookup("water_bottle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "prod_water_001" {
		t.Fatalf("unexpected product %s", p.ID)
	}

	// Class matching is case-insensitive, matching the CV model's output.
	if _, err := c.Lookup("  Water_Bottle "); err != nil {
		t.Fatalf("normalized lookup failed: %v", err)
	}

	_, err = c.Lookup("hoverboard")
	if !errors.Is(err, domain.ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
}

func TestResolveVariant(t *testing.T) {
	c := testCatalog(t)

	v, err := c.ResolveVariant("water_bottle", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.SKU != "B07HNBV23M" {
		t.Fatalf("expected default variant, got %s", v.SKU)
	}

	v, err = c.ResolveVariant("water_bottle", "B07HNBV24N")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.SKU != "B07HNBV24N" {
		t.Fatalf("hint ignored, got %s", v.SKU)
	}

	// Unmatched hint falls back to the default variant.
	v, err = c.ResolveVariant("water_bottle", "NOPE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.SKU != "B07HNBV23M" {
		t.Fatalf("expected fallback to default, got %s", v.SKU)
	}
}

func TestMeetsThreshold(t *testing.T) {
	c := testCatalog(t)

	cases := []struct {
		class string
		level domain.FillLevel
		want  bool
	}{
		{"water_bottle", domain.FillEmpty, true},
		{"water_bottle", domain.FillNearlyEmpty, true}, // tie qualifies
		{"water_bottle", domain.FillHalf, false},
		{"water_bottle", domain.FillFull, false},
		{"water_bottle", domain.FillUnknown, false},
		{"milk_carton", domain.FillHalf, true}, // threshold HALF
		{"toothpaste", domain.FillNearlyEmpty, false},
		{"toothpaste", domain.FillEmpty, true},
	}
	for _, tc := range cases {
		got, err := c.MeetsThreshold(tc.class, tc.level)
		if err != nil {
			t.Fatalf("%s/%s: %v", tc.class, tc.level, err)
		}
		if got != tc.want {
			t.Fatalf("%s at %s: want %v, got %v", tc.class, tc.level, tc.want, got)
		}
	}
}

func TestNew_RejectsBadProducts(t *testing.T) {
	base := Seed()[0]

	noVariants := base
	noVariants.Variants = nil
	if _, err := New([]domain.Product{noVariants}); err == nil {
		t.Fatalf("expected error for product without variants")
	}

	badDefault := base
	badDefault.DefaultVariant = "MISSING"
	if _, err := New([]domain.Product{badDefault}); err == nil {
		t.Fatalf("expected error for missing default variant")
	}

	badThreshold := base
	badThreshold.ReorderThreshold = domain.FillUnknown
	if _, err := New([]domain.Product{badThreshold}); err == nil {
		t.Fatalf("expected error for UNKNOWN threshold")
	}

	if _, err := New([]domain.Product{base, base}); err == nil {
		t.Fatalf("expected error for duplicate object class")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := `products:
  - id: prod_test_001
    name: Test Water
    object_class: water_bottle
    vendor: amazon
    reorder_threshold: NEARLY_EMPTY
    default_variant: SKU1
    variants:
      - sku: SKU1
        label: single
        unit_price_usd: 1.50
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 product, got %d", c.Len())
	}
	v, err := c.ResolveVariant("water_bottle", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if v.UnitPriceUSD != 1.50 {
		t.Fatalf("unexpected price %v", v.UnitPriceUSD)
	}
}
