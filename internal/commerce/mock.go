package commerce

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"reorder-system/internal/domain"
)

// Mock stands in for the real vendor integrations. It accepts any sku found
// in the product list, rejects configured skus terminally, and mints vendor
// order ids in each vendor's format.
type Mock struct {
	vendorBySKU map[string]string
	failSKUs    map[string]struct{}
	unreachable bool // simulate an outage: every call fails transiently
}

func NewMock(products []domain.Product, failSKUs []string) *Mock {
	vendors := make(map[string]string)
	for _, p := range products {
		for _, v := range p.Variants {
			vendors[v.SKU] = p.Vendor
		}
	}
	fail := make(map[string]struct{}, len(failSKUs))
	for _, sku := range failSKUs {
		fail[sku] = struct{}{}
	}
	return &Mock{vendorBySKU: vendors, failSKUs: fail}
}

// SetUnreachable toggles outage simulation. Used by tests.
func (m *Mock) SetUnreachable(v bool) { m.unreachable = v }

func (m *Mock) SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.OrderRecord{}, err
	}
	if m.unreachable {
		return domain.OrderRecord{}, fmt.Errorf("vendor unreachable: %w", domain.ErrCommerceTransient)
	}
	vendor, ok := m.vendorBySKU[req.SKU]
	if !ok {
		return domain.OrderRecord{}, fmt.Errorf("sku %q rejected by vendor: %w", req.SKU, domain.ErrCommerceTerminal)
	}
	if _, fail := m.failSKUs[req.SKU]; fail {
		return domain.OrderRecord{}, fmt.Errorf("sku %q out of stock: %w", req.SKU, domain.ErrCommerceTerminal)
	}
	if req.Quantity <= 0 {
		return domain.OrderRecord{}, fmt.Errorf("invalid quantity %d: %w", req.Quantity, domain.ErrCommerceTerminal)
	}
	return domain.OrderRecord{
		Status:        domain.OrderConfirmed,
		Vendor:        vendor,
		VendorOrderID: vendorOrderID(vendor),
	}, nil
}

func vendorOrderID(vendor string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	switch vendor {
	case "amazon":
		return "AMZ-" + suffix
	case "walmart":
		return "WM-" + suffix
	case "instacart":
		return "IC-" + suffix
	default:
		return "ORD-" + suffix
	}
}
