package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reorder-system/internal/catalog"
	"reorder-system/internal/commerce"
	"reorder-system/internal/common/logger"
	"reorder-system/internal/coordinator"
	"reorder-system/internal/domain"
	"reorder-system/internal/metrics"
	"reorder-system/internal/telemetry"
)

func testServer(t *testing.T) (*httptest.Server, *telemetry.Memory) {
	t.Helper()
	cat, err := catalog.New(catalog.Seed())
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	mem := telemetry.NewMemory(0)
	coord := coordinator.New(coordinator.Deps{
		Catalog:  cat,
		Provider: commerce.NewMock(cat.Products(), nil),
		Sink:     mem,
		Metrics:  metrics.NewRegistry(),
		Logger:   logger.NewWriter("api-test", io.Discard),
	}, coordinator.Config{
		IntentTTL:       15 * time.Minute,
		DismissCooldown: 5 * time.Minute,
		Retention:       time.Hour,
	})
	h := NewHandler(coord, mem, logger.NewWriter("api-test", io.Discard))
	srv := httptest.NewServer(Router(h, metrics.NewRegistry().Handler()))
	t.Cleanup(srv.Close)
	return srv, mem
}

func postJSON(t *testing.T, url string, body any) (*http.Response, []byte) {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func getJSON(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func detection(eventID string) domain.DetectionEvent {
	return domain.DetectionEvent{
		EventID:      eventID,
		DeviceID:     "cam-1",
		ObjectClass:  "water_bottle",
		FillLevel:    domain.FillNearlyEmpty,
		Confidence:   domain.ConfidenceHigh,
		CapturedAtMs: time.Now().UnixMilli(),
	}
}

func TestEndToEnd_DetectionToOrder(t *testing.T) {
	srv, _ := testServer(t)

	resp, body := postJSON(t, srv.URL+"/api/v1/detections", detection("evt-1"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("detection status %d: %s", resp.StatusCode, body)
	}
	var det domain.RegisterDetectionResponse
	if err := json.Unmarshal(body, &det); err != nil {
		t.Fatalf("decode detection response: %v", err)
	}
	if !det.ShouldPrompt || det.IntentID == "" {
		t.Fatalf("expected prompt with intent id, got %+v", det)
	}

	resp, body = getJSON(t, srv.URL+"/api/v1/intents/"+det.IntentID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get intent status %d: %s", resp.StatusCode, body)
	}
	var intent domain.IntentState
	if err := json.Unmarshal(body, &intent); err != nil {
		t.Fatalf("decode intent: %v", err)
	}
	if intent.Status != domain.IntentPending {
		t.Fatalf("expected PENDING, got %s", intent.Status)
	}

	resp, body = postJSON(t, srv.URL+"/api/v1/decisions", domain.RecordDecisionRequest{
		IntentID:    det.IntentID,
		Channel:     domain.ChannelVoice,
		Accepted:    true,
		DecidedAtMs: time.Now().UnixMilli(),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("decision status %d: %s", resp.StatusCode, body)
	}
	var dec domain.RecordDecisionResponse
	if err := json.Unmarshal(body, &dec); err != nil {
		t.Fatalf("decode decision: %v", err)
	}
	if dec.Status != domain.IntentOrderConfirmed || dec.OrderID == "" {
		t.Fatalf("expected confirmed order, got %+v", dec)
	}

	resp, body = getJSON(t, srv.URL+"/api/v1/orders/"+dec.OrderID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get order status %d: %s", resp.StatusCode, body)
	}
	var order domain.OrderRecord
	if err := json.Unmarshal(body, &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order.Status != domain.OrderConfirmed || order.IntentID != det.IntentID {
		t.Fatalf("unexpected order record: %+v", order)
	}
	if order.VendorOrderID == "" {
		t.Fatal("expected vendor order id")
	}
}

func TestErrorMapping(t *testing.T) {
	srv, _ := testServer(t)

	// Unknown product class on ingest.
	ev := detection("evt-unknown")
	ev.ObjectClass = "lava_lamp"
	resp, body := postJSON(t, srv.URL+"/api/v1/detections", ev)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d: %s", resp.StatusCode, body)
	}
	var problem struct {
		Type   string `json:"type"`
		Status int    `json:"status"`
	}
	if err := json.Unmarshal(body, &problem); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if problem.Type != "unknown_product" || problem.Status != http.StatusNotFound {
		t.Fatalf("unexpected problem: %+v", problem)
	}

	// Missing intent.
	resp, _ = getJSON(t, srv.URL+"/api/v1/intents/not-there")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing intent, got %d", resp.StatusCode)
	}
	resp, _ = getJSON(t, srv.URL+"/api/v1/orders/not-there")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing order, got %d", resp.StatusCode)
	}

	// Second decision on the same intent conflicts.
	resp, body = postJSON(t, srv.URL+"/api/v1/detections", detection("evt-conflict"))
	var det domain.RegisterDetectionResponse
	if err := json.Unmarshal(body, &det); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("detection failed: %d %v", resp.StatusCode, err)
	}
	dreq := domain.RecordDecisionRequest{IntentID: det.IntentID, Channel: domain.ChannelGesture, Accepted: false}
	if resp, _ = postJSON(t, srv.URL+"/api/v1/decisions", dreq); resp.StatusCode != http.StatusOK {
		t.Fatalf("first decision should succeed, got %d", resp.StatusCode)
	}
	if resp, _ = postJSON(t, srv.URL+"/api/v1/decisions", dreq); resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for repeated decision, got %d", resp.StatusCode)
	}

	// Malformed bodies.
	raw, err := http.Post(srv.URL+"/api/v1/detections", "application/json", bytes.NewReader([]byte("{")))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	raw.Body.Close()
	if raw.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", raw.StatusCode)
	}
	if resp, _ = postJSON(t, srv.URL+"/api/v1/decisions", map[string]any{"channel": "VOICE"}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for decision without intent_id, got %d", resp.StatusCode)
	}
}

func TestTelemetrySummaryEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	for i := 0; i < 3; i++ {
		ev := detection(fmt.Sprintf("evt-%d", i))
		if resp, body := postJSON(t, srv.URL+"/api/v1/detections", ev); resp.StatusCode != http.StatusOK {
			t.Fatalf("detection %d failed: %d %s", i, resp.StatusCode, body)
		}
	}

	resp, body := getJSON(t, srv.URL+"/api/v1/telemetry/summary")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary status %d: %s", resp.StatusCode, body)
	}
	var summary map[string]map[string]int
	if err := json.Unmarshal(body, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary["events"][telemetry.EventDetectionReceived] != 3 {
		t.Fatalf("expected 3 detections in summary, got %+v", summary)
	}
	// One intent was created; the other two detections throttled against it.
	if summary["events"][telemetry.EventIntentCreated] != 1 {
		t.Fatalf("expected 1 intent_created, got %+v", summary)
	}
	if summary["events"][telemetry.EventIntentThrottled] != 2 {
		t.Fatalf("expected 2 throttles, got %+v", summary)
	}
	if summary["detections_by_object"]["water_bottle"] != 3 {
		t.Fatalf("unexpected object counts: %+v", summary)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t)
	resp, body := getJSON(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status %d", resp.StatusCode)
	}
	var h map[string]string
	if err := json.Unmarshal(body, &h); err != nil || h["status"] != "ok" {
		t.Fatalf("unexpected healthz body %s (%v)", body, err)
	}
}
