package domain

// DetectionEvent is a single CV observation for a device. Immutable once
// received; event IDs are caller-supplied and unique per device.
type DetectionEvent struct {
	EventID      string     `json:"event_id"`
	DeviceID     string     `json:"device_id"`
	ObjectClass  string     `json:"object_class"`
	FillLevel    FillLevel  `json:"fill_level"`
	Confidence   Confidence `json:"confidence"`
	CapturedAtMs int64      `json:"captured_at_ms"` // producer clock, not trusted for ordering
}

type Variant struct {
	SKU          string  `json:"sku"`
	Label        string  `json:"label"`
	Size         string  `json:"size,omitempty"`
	UnitPriceUSD float64 `json:"unit_price_usd,omitempty"`
}

// Product maps a detected object class to its orderable variants. Read-only
// after catalog load.
type Product struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category,omitempty"`
	ObjectClass      string    `json:"object_class"`
	Vendor           string    `json:"vendor"`
	ReorderThreshold FillLevel `json:"reorder_threshold"`
	DefaultVariant   string    `json:"default_variant"` // sku
	Variants         []Variant `json:"variants"`
}

type Decision struct {
	Channel     Channel `json:"channel"`
	Accepted    bool    `json:"accepted"`
	DecidedAtMs int64   `json:"decided_at_ms"`
}

// IntentState is the mutable record the coordinator owns per prompt.
// At most one non-terminal intent exists per (device_id, object_class).
type IntentState struct {
	IntentID    string       `json:"intent_id"`
	EventID     string       `json:"event_id"`
	DeviceID    string       `json:"device_id"`
	ObjectClass string       `json:"object_class"`
	ProductID   string       `json:"product_id"`
	VariantSKU  string       `json:"variant_sku"`
	CreatedAtMs int64        `json:"created_at_ms"`
	ExpiresAtMs int64        `json:"expires_at_ms"`
	Status      IntentStatus `json:"status"`
	Decision    *Decision    `json:"decision,omitempty"`
	Order       *OrderRecord `json:"order,omitempty"`
}

// OrderRecord is created at acceptance time and immutable after reaching a
// terminal status.
type OrderRecord struct {
	OrderID       string      `json:"order_id"`
	IntentID      string      `json:"intent_id"`
	SKU           string      `json:"sku"`
	Quantity      int         `json:"quantity"`
	Vendor        string      `json:"vendor"`
	TotalUSD      float64     `json:"total_usd"`
	Status        OrderStatus `json:"status"`
	VendorOrderID string      `json:"vendor_order_id,omitempty"`
	SubmittedAtMs int64       `json:"submitted_at_ms"`
	Error         string      `json:"error,omitempty"`
}

// OrderRequest is the narrow contract handed to a commerce provider.
type OrderRequest struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	IntentID string `json:"intent_id"`
}
