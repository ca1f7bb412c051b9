package commerce

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"reorder-system/internal/domain"
)

func testProducts() []domain.Product {
	return []domain.Product{
		{
			ID: "p1", ObjectClass: "water_bottle", Vendor: "amazon",
			ReorderThreshold: domain.FillNearlyEmpty, DefaultVariant: "SKU-A",
			Variants: []domain.Variant{{SKU: "SKU-A", Label: "a"}},
		},
		{
			ID: "p2", ObjectClass: "soap", Vendor: "walmart",
			ReorderThreshold: domain.FillEmpty, DefaultVariant: "SKU-B",
			Variants: []domain.Variant{{SKU: "SKU-B", Label: "b"}},
		},
		{
			ID: "p3", ObjectClass: "milk_carton", Vendor: "instacart",
			ReorderThreshold: domain.FillHalf, DefaultVariant: "SKU-C",
			Variants: []domain.Variant{{SKU: "SKU-C", Label: "c"}},
		},
	}
}

func TestMock_VendorOrderIDFormats(t *testing.T) {
	m := NewMock(testProducts(), nil)
	cases := []struct {
		sku    string
		prefix string
	}{
		{"SKU-A", "AMZ-"},
		{"SKU-B", "WM-"},
		{"SKU-C", "IC-"},
	}
	for _, tc := range cases {
		rec, err := m.SubmitOrder(context.Background(), domain.OrderRequest{SKU: tc.sku, Quantity: 1, IntentID: "i1"})
		if err != nil {
			t.Fatalf("%s: %v", tc.sku, err)
		}
		if rec.Status != domain.OrderConfirmed {
			t.Fatalf("%s: expected CONFIRMED, got %s", tc.sku, rec.Status)
		}
		if !strings.HasPrefix(rec.VendorOrderID, tc.prefix) {
			t.Fatalf("%s: expected prefix %s, got %s", tc.sku, tc.prefix, rec.VendorOrderID)
		}
	}
}

func TestMock_Failures(t *testing.T) {
	m := NewMock(testProducts(), []string{"SKU-B"})

	_, err := m.SubmitOrder(context.Background(), domain.OrderRequest{SKU: "UNKNOWN", Quantity: 1})
	if !errors.Is(err, domain.ErrCommerceTerminal) {
		t.Fatalf("unknown sku: expected terminal failure, got %v", err)
	}

	_, err = m.SubmitOrder(context.Background(), domain.OrderRequest{SKU: "SKU-B", Quantity: 1})
	if !errors.Is(err, domain.ErrCommerceTerminal) {
		t.Fatalf("fail sku: expected terminal failure, got %v", err)
	}

	_, err = m.SubmitOrder(context.Background(), domain.OrderRequest{SKU: "SKU-A", Quantity: 0})
	if !errors.Is(err, domain.ErrCommerceTerminal) {
		t.Fatalf("zero quantity: expected terminal failure, got %v", err)
	}

	m.SetUnreachable(true)
	_, err = m.SubmitOrder(context.Background(), domain.OrderRequest{SKU: "SKU-A", Quantity: 1})
	if !errors.Is(err, domain.ErrCommerceTransient) {
		t.Fatalf("outage: expected transient failure, got %v", err)
	}
}

type hangingProvider struct{}

func (hangingProvider) SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderRecord, error) {
	<-ctx.Done()
	return domain.OrderRecord{}, ctx.Err()
}

func TestWithTimeout_MapsDeadlineToTransient(t *testing.T) {
	p := WithTimeout{Inner: hangingProvider{}, Timeout: 10 * time.Millisecond}
	_, err := p.SubmitOrder(context.Background(), domain.OrderRequest{SKU: "SKU-A", Quantity: 1})
	if !errors.Is(err, domain.ErrCommerceTransient) {
		t.Fatalf("expected transient failure on timeout, got %v", err)
	}
}

func TestWithTimeout_PassesThrough(t *testing.T) {
	p := WithTimeout{Inner: NewMock(testProducts(), nil), Timeout: time.Second}
	rec, err := p.SubmitOrder(context.Background(), domain.OrderRequest{SKU: "SKU-A", Quantity: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Vendor != "amazon" {
		t.Fatalf("unexpected vendor %s", rec.Vendor)
	}
}
