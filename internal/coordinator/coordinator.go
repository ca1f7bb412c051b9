// Package coordinator owns the detection→prompt→order state machine. All
// mutable state (intents, orders, dedup cache, dismissal markers) lives here,
// guarded by one lock; the commerce call is the only external I/O and happens
// outside the lock.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"reorder-system/internal/catalog"
	"reorder-system/internal/commerce"
	"reorder-system/internal/common/logger"
	"reorder-system/internal/domain"
	"reorder-system/internal/metrics"
	"reorder-system/internal/telemetry"
)

type Config struct {
	IntentTTL       time.Duration
	DismissCooldown time.Duration // 0 disables the post-dismissal window
	Retention       time.Duration // how long terminal intents/orders stay queryable
}

// Deps are the coordinator's collaborators. Now may be nil (wall clock);
// tests inject a fake clock through it.
type Deps struct {
	Catalog  *catalog.Catalog
	Provider commerce.Provider
	Sink     telemetry.Sink
	Metrics  *metrics.Registry
	Logger   *logger.Logger
	Now      func() time.Time
}

type intentEntry struct {
	state        domain.IntentState
	terminalAtMs int64 // 0 while non-terminal
}

type orderEntry struct {
	record       domain.OrderRecord
	terminalAtMs int64
}

type dismissMarker struct {
	intentID string
	untilMs  int64
}

type cachedResponse struct {
	resp domain.RegisterDetectionResponse
	atMs int64
}

type Coordinator struct {
	cfg      Config
	catalog  *catalog.Catalog
	provider commerce.Provider
	sink     telemetry.Sink
	metrics  *metrics.Registry
	lg       *logger.Logger
	now      func() time.Time

	mu        sync.Mutex
	byID      map[string]*intentEntry
	byKey     map[string]string // active intent per (device, object) key
	dismissed map[string]dismissMarker
	orders    map[string]*orderEntry
	seen      map[string]cachedResponse // per-device event_id dedup
}

func New(deps Deps, cfg Config) *Coordinator {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	sink := deps.Sink
	if sink == nil {
		sink = telemetry.Nop{}
	}
	reg := deps.Metrics
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Coordinator{
		cfg:       cfg,
		catalog:   deps.Catalog,
		provider:  deps.Provider,
		sink:      sink,
		metrics:   reg,
		lg:        deps.Logger,
		now:       now,
		byID:      make(map[string]*intentEntry),
		byKey:     make(map[string]string),
		dismissed: make(map[string]dismissMarker),
		orders:    make(map[string]*orderEntry),
		seen:      make(map[string]cachedResponse),
	}
}

func key(deviceID, objectClass string) string {
	return deviceID + ":" + strings.ToLower(strings.TrimSpace(objectClass))
}

func eventKey(deviceID, eventID string) string { return deviceID + ":" + eventID }

func (c *Coordinator) nowMs() int64 { return c.now().UnixMilli() }

// RegisterDetection ingests one detection event and decides whether the user
// should be prompted. Replays of an already-seen event return the original
// response unchanged. Unknown products surface domain.ErrUnknownProduct.
func (c *Coordinator) RegisterDetection(ev domain.DetectionEvent) (domain.RegisterDetectionResponse, error) {
	if ev.EventID == "" || ev.DeviceID == "" || ev.ObjectClass == "" {
		return domain.RegisterDetectionResponse{}, fmt.Errorf("event_id, device_id and object_class are required")
	}
	if !ev.FillLevel.Valid() {
		return domain.RegisterDetectionResponse{}, fmt.Errorf("invalid fill_level %q", ev.FillLevel)
	}

	startMs := c.nowMs()
	c.metrics.DetectionsReceived.Inc()
	c.sink.Emit(telemetry.EventDetectionReceived, map[string]string{
		"event_id":     ev.EventID,
		"device_id":    ev.DeviceID,
		"object_class": ev.ObjectClass,
		"fill_level":   string(ev.FillLevel),
	})

	// Catalog reads are lock-free; resolve before taking the store lock.
	product, err := c.catalog.Lookup(ev.ObjectClass)
	if errors.Is(err, domain.ErrUnknownProduct) {
		return domain.RegisterDetectionResponse{ShouldPrompt: false}, err
	}
	if err != nil {
		return domain.RegisterDetectionResponse{}, err
	}
	qualifies, err := c.catalog.MeetsThreshold(ev.ObjectClass, ev.FillLevel)
	if err != nil {
		return domain.RegisterDetectionResponse{}, err
	}
	variant, err := c.catalog.ResolveVariant(ev.ObjectClass, "")
	if err != nil {
		return domain.RegisterDetectionResponse{}, err
	}

	resp, throttled, created := c.registerLocked(ev, product, variant, qualifies)

	if throttled {
		c.metrics.IntentsThrottled.Inc()
		c.sink.Emit(telemetry.EventIntentThrottled, map[string]string{
			"event_id":   ev.EventID,
			"device_id":  ev.DeviceID,
			"intent_id":  resp.IntentID,
			"reason":     resp.Reason,
			"elapsed_ms": elapsed(startMs, c.nowMs()),
		})
	}
	if created {
		c.metrics.IntentsCreated.Inc()
		c.sink.Emit(telemetry.EventIntentCreated, map[string]string{
			"event_id":   ev.EventID,
			"device_id":  ev.DeviceID,
			"intent_id":  resp.IntentID,
			"product_id": product.ID,
			"elapsed_ms": elapsed(startMs, c.nowMs()),
		})
	}
	return resp, nil
}

func (c *Coordinator) registerLocked(
	ev domain.DetectionEvent,
	product domain.Product,
	variant domain.Variant,
	qualifies bool,
) (resp domain.RegisterDetectionResponse, throttled, created bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	nowMs := c.nowMs()
	ek := eventKey(ev.DeviceID, ev.EventID)
	if cached, ok := c.seen[ek]; ok {
		// Redelivery: same answer as the first delivery, no new effects.
		return cached.resp, false, false
	}

	defer func() {
		c.seen[ek] = cachedResponse{resp: resp, atMs: nowMs}
	}()

	k := key(ev.DeviceID, ev.ObjectClass)
	c.expireKeyLocked(k, nowMs)

	if !qualifies {
		resp = domain.RegisterDetectionResponse{ShouldPrompt: false, Reason: domain.ReasonAboveThreshold}
		return resp, false, false
	}

	// An outstanding prompt owns the key; losers of a concurrent race see
	// the winner's intent id here.
	if activeID, ok := c.byKey[k]; ok {
		entry := c.byID[activeID]
		retry := entry.state.ExpiresAtMs - nowMs
		if retry < 0 {
			retry = 0
		}
		resp = domain.RegisterDetectionResponse{
			ShouldPrompt: false,
			IntentID:     activeID,
			RetryAfterMs: &retry,
			Reason:       domain.ReasonCooldownActive,
		}
		return resp, true, false
	}

	if marker, ok := c.dismissed[k]; ok {
		if nowMs < marker.untilMs {
			retry := marker.untilMs - nowMs
			resp = domain.RegisterDetectionResponse{
				ShouldPrompt: false,
				IntentID:     marker.intentID,
				RetryAfterMs: &retry,
				Reason:       domain.ReasonDismissedRecently,
			}
			return resp, true, false
		}
		delete(c.dismissed, k)
	}

	intentID := uuid.NewString()
	entry := &intentEntry{state: domain.IntentState{
		IntentID:    intentID,
		EventID:     ev.EventID,
		DeviceID:    ev.DeviceID,
		ObjectClass: ev.ObjectClass,
		ProductID:   product.ID,
		VariantSKU:  variant.SKU,
		CreatedAtMs: nowMs,
		ExpiresAtMs: nowMs + c.cfg.IntentTTL.Milliseconds(),
		Status:      domain.IntentPending,
	}}
	c.byID[intentID] = entry
	c.byKey[k] = intentID

	resp = domain.RegisterDetectionResponse{ShouldPrompt: true, IntentID: intentID}
	return resp, false, true
}

// GetIntent returns a snapshot of the intent, discovering TTL expiry lazily.
func (c *Coordinator) GetIntent(intentID string) (domain.IntentState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.byID[intentID]
	if !ok {
		return domain.IntentState{}, fmt.Errorf("intent %s: %w", intentID, domain.ErrNotFound)
	}
	c.expireEntryLocked(entry, c.nowMs())
	return snapshot(entry.state), nil
}

// snapshot detaches the copy from coordinator-owned state so later
// transitions never show through a previously returned intent.
func snapshot(s domain.IntentState) domain.IntentState {
	if s.Decision != nil {
		d := *s.Decision
		s.Decision = &d
	}
	if s.Order != nil {
		o := *s.Order
		s.Order = &o
	}
	return s
}

// RecordDecision validates and applies a user decision exactly once. On
// acceptance it submits the order to the commerce provider outside the lock;
// the decision itself succeeds even when commerce fails.
func (c *Coordinator) RecordDecision(req domain.RecordDecisionRequest) (domain.RecordDecisionResponse, error) {
	if !req.Channel.Valid() {
		return domain.RecordDecisionResponse{}, fmt.Errorf("invalid channel %q", req.Channel)
	}

	snapshot, err := c.decideLocked(req)
	if err != nil {
		return domain.RecordDecisionResponse{}, err
	}

	c.metrics.DecisionsRecorded.WithLabelValues(strconv.FormatBool(req.Accepted)).Inc()
	c.sink.Emit(telemetry.EventDecisionRecorded, map[string]string{
		"intent_id": req.IntentID,
		"channel":   string(req.Channel),
		"accepted":  strconv.FormatBool(req.Accepted),
	})

	if !req.Accepted {
		return domain.RecordDecisionResponse{Status: domain.IntentRejected}, nil
	}
	return c.submitOrder(snapshot)
}

// decideLocked performs the check-and-set part of RecordDecision and returns
// a snapshot of the (now ACCEPTED or REJECTED) intent.
func (c *Coordinator) decideLocked(req domain.RecordDecisionRequest) (domain.IntentState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.byID[req.IntentID]
	if !ok {
		return domain.IntentState{}, fmt.Errorf("intent %s: %w", req.IntentID, domain.ErrNotFound)
	}
	if entry.state.Status == domain.IntentExpired {
		return domain.IntentState{}, fmt.Errorf("intent %s: %w", req.IntentID, domain.ErrExpired)
	}
	if entry.state.Status != domain.IntentPending {
		return domain.IntentState{}, fmt.Errorf("intent %s is %s: %w", req.IntentID, entry.state.Status, domain.ErrAlreadyDecided)
	}
	nowMs := c.nowMs()
	if c.expireEntryLocked(entry, nowMs) {
		return domain.IntentState{}, fmt.Errorf("intent %s: %w", req.IntentID, domain.ErrExpired)
	}

	entry.state.Decision = &domain.Decision{
		Channel:     req.Channel,
		Accepted:    req.Accepted,
		DecidedAtMs: req.DecidedAtMs,
	}
	if req.Accepted {
		entry.state.Status = domain.IntentAccepted
	} else {
		entry.state.Status = domain.IntentRejected
		entry.terminalAtMs = nowMs
		c.freeKeyLocked(entry, nowMs, true)
	}
	return entry.state, nil
}

// submitOrder drives an ACCEPTED intent through the commerce provider. Called
// without the lock held; the ACCEPTED status keeps racing decisions out.
func (c *Coordinator) submitOrder(intent domain.IntentState) (domain.RecordDecisionResponse, error) {
	req := domain.OrderRequest{SKU: intent.VariantSKU, Quantity: 1, IntentID: intent.IntentID}

	start := c.now()
	vendorRec, submitErr := c.provider.SubmitOrder(context.Background(), req)
	c.metrics.CommerceLatencySec.Observe(c.now().Sub(start).Seconds())

	variant, verr := c.catalog.ResolveVariant(intent.ObjectClass, intent.VariantSKU)
	var total float64
	if verr == nil {
		total = variant.UnitPriceUSD * float64(req.Quantity)
	}

	orderID := uuid.NewString()
	nowMs := c.nowMs()
	record := domain.OrderRecord{
		OrderID:       orderID,
		IntentID:      intent.IntentID,
		SKU:           req.SKU,
		Quantity:      req.Quantity,
		TotalUSD:      total,
		SubmittedAtMs: nowMs,
	}
	if submitErr != nil {
		record.Status = domain.OrderFailed
		record.Error = submitErr.Error()
	} else {
		record.Status = vendorRec.Status
		record.Vendor = vendorRec.Vendor
		record.VendorOrderID = vendorRec.VendorOrderID
	}

	c.mu.Lock()
	entry, ok := c.byID[intent.IntentID]
	if ok {
		entry.state.Order = &record
		switch record.Status {
		case domain.OrderConfirmed:
			entry.state.Status = domain.IntentOrderConfirmed
			entry.terminalAtMs = nowMs
			c.freeKeyLocked(entry, nowMs, false)
		case domain.OrderFailed:
			entry.state.Status = domain.IntentOrderFailed
			entry.terminalAtMs = nowMs
			c.freeKeyLocked(entry, nowMs, false)
		case domain.OrderSubmitted:
			// async vendor: key stays occupied until MarkOrderOutcome
			entry.state.Status = domain.IntentOrderSubmitted
		}
	}
	oe := &orderEntry{record: record}
	if record.Status.Terminal() {
		oe.terminalAtMs = nowMs
	}
	c.orders[orderID] = oe
	c.mu.Unlock()

	if submitErr != nil {
		c.metrics.OrdersFailed.Inc()
		c.sink.Emit(telemetry.EventOrderFailed, map[string]string{
			"intent_id": intent.IntentID,
			"order_id":  orderID,
			"sku":       req.SKU,
			"error":     submitErr.Error(),
		})
		if c.lg != nil {
			c.lg.Error("order_submit_failed", submitErr, map[string]any{
				"intent_id": intent.IntentID, "order_id": orderID, "sku": req.SKU,
			})
		}
	} else {
		c.metrics.OrdersSubmitted.Inc()
		c.sink.Emit(telemetry.EventOrderSubmitted, map[string]string{
			"intent_id":       intent.IntentID,
			"order_id":        orderID,
			"sku":             req.SKU,
			"vendor_order_id": record.VendorOrderID,
		})
	}

	resp := domain.RecordDecisionResponse{
		Status:      intentStatusFor(record.Status),
		OrderID:     orderID,
		OrderStatus: record.Status,
	}
	return resp, nil
}

// MarkOrderOutcome applies an asynchronous vendor outcome. Repeating the same
// terminal status is a no-op; changing a terminal status is a conflict.
func (c *Coordinator) MarkOrderOutcome(orderID string, status domain.OrderStatus, vendorOrderID string) error {
	if !status.Terminal() {
		return fmt.Errorf("order outcome must be terminal, got %q", status)
	}

	c.mu.Lock()
	oe, ok := c.orders[orderID]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	if oe.record.Status.Terminal() {
		prior := oe.record.Status
		c.mu.Unlock()
		if prior == status {
			return nil
		}
		return fmt.Errorf("order %s already %s: %w", orderID, prior, domain.ErrAlreadyDecided)
	}

	nowMs := c.nowMs()
	oe.record.Status = status
	oe.terminalAtMs = nowMs
	if vendorOrderID != "" {
		oe.record.VendorOrderID = vendorOrderID
	}
	intentID := oe.record.IntentID
	if entry, ok := c.byID[intentID]; ok {
		if entry.state.Order != nil && entry.state.Order.OrderID == orderID {
			*entry.state.Order = oe.record
		}
		entry.state.Status = intentStatusFor(status)
		entry.terminalAtMs = nowMs
		c.freeKeyLocked(entry, nowMs, false)
	}
	c.mu.Unlock()

	event := telemetry.EventOrderSubmitted
	if status == domain.OrderFailed {
		event = telemetry.EventOrderFailed
		c.metrics.OrdersFailed.Inc()
	}
	c.sink.Emit(event, map[string]string{
		"order_id":  orderID,
		"intent_id": intentID,
		"status":    string(status),
	})
	return nil
}

// GetOrder returns a snapshot of the order record.
func (c *Coordinator) GetOrder(orderID string) (domain.OrderRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	oe, ok := c.orders[orderID]
	if !ok {
		return domain.OrderRecord{}, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	return oe.record, nil
}

// expireKeyLocked expires the active intent holding key k if its TTL lapsed.
func (c *Coordinator) expireKeyLocked(k string, nowMs int64) {
	if id, ok := c.byKey[k]; ok {
		c.expireEntryLocked(c.byID[id], nowMs)
	}
}

// expireEntryLocked transitions an overdue PENDING intent to EXPIRED and
// frees its key. Reports whether the entry is now (or was already) expired.
func (c *Coordinator) expireEntryLocked(entry *intentEntry, nowMs int64) bool {
	if entry == nil {
		return false
	}
	if entry.state.Status == domain.IntentExpired {
		return true
	}
	if entry.state.Status != domain.IntentPending || nowMs <= entry.state.ExpiresAtMs {
		return false
	}
	entry.state.Status = domain.IntentExpired
	entry.terminalAtMs = nowMs
	c.freeKeyLocked(entry, nowMs, true)
	c.metrics.IntentsExpired.Inc()
	return true
}

// freeKeyLocked releases the (device, object) key held by entry, optionally
// planting the dismissal-cooldown marker so the prompt does not reappear on
// the very next frame.
func (c *Coordinator) freeKeyLocked(entry *intentEntry, nowMs int64, dismissed bool) {
	k := key(entry.state.DeviceID, entry.state.ObjectClass)
	if c.byKey[k] == entry.state.IntentID {
		delete(c.byKey, k)
	}
	if dismissed && c.cfg.DismissCooldown > 0 {
		c.dismissed[k] = dismissMarker{
			intentID: entry.state.IntentID,
			untilMs:  nowMs + c.cfg.DismissCooldown.Milliseconds(),
		}
	}
}

func intentStatusFor(s domain.OrderStatus) domain.IntentStatus {
	switch s {
	case domain.OrderSubmitted:
		return domain.IntentOrderSubmitted
	case domain.OrderConfirmed:
		return domain.IntentOrderConfirmed
	case domain.OrderFailed:
		return domain.IntentOrderFailed
	default:
		return domain.IntentOrderFailed
	}
}

func elapsed(startMs, nowMs int64) string {
	return strconv.FormatInt(nowMs-startMs, 10)
}
