package domain

// Throttle/skip reasons surfaced on detection ingestion.
const (
	ReasonCooldownActive    = "cooldown_active"
	ReasonAboveThreshold    = "above_threshold"
	ReasonDismissedRecently = "dismissed_recently"
)

type RegisterDetectionResponse struct {
	ShouldPrompt bool   `json:"should_prompt"`
	IntentID     string `json:"intent_id,omitempty"`
	RetryAfterMs *int64 `json:"retry_after_ms,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

type RecordDecisionRequest struct {
	IntentID    string  `json:"intent_id"`
	Channel     Channel `json:"channel"`
	Accepted    bool    `json:"accepted"`
	DecidedAtMs int64   `json:"decided_at_ms"`
}

type RecordDecisionResponse struct {
	Status      IntentStatus `json:"status"`
	OrderID     string       `json:"order_id,omitempty"`
	OrderStatus OrderStatus  `json:"order_status,omitempty"`
}
