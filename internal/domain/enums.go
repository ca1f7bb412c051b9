package domain

import "fmt"

// FillLevel is the ordered fill scale reported by the CV collaborator.
// FULL < HALF < NEARLY_EMPTY < EMPTY; UNKNOWN sits outside the scale.
type FillLevel string

const (
	FillFull        FillLevel = "FULL"
	FillHalf        FillLevel = "HALF"
	FillNearlyEmpty FillLevel = "NEARLY_EMPTY"
	FillEmpty       FillLevel = "EMPTY"
	FillUnknown     FillLevel = "UNKNOWN"
)

// Rank places a fill level on the ordered scale. UNKNOWN ranks below
// everything so it never qualifies against a threshold.
func (f FillLevel) Rank() int {
	switch f {
	case FillFull:
		return 1
	case FillHalf:
		return 2
	case FillNearlyEmpty:
		return 3
	case FillEmpty:
		return 4
	case FillUnknown:
		return 0
	default:
		return 0
	}
}

func (f FillLevel) Valid() bool {
	switch f {
	case FillFull, FillHalf, FillNearlyEmpty, FillEmpty, FillUnknown:
		return true
	default:
		return false
	}
}

type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	default:
		return false
	}
}

// Channel is how the user answered the prompt.
type Channel string

const (
	ChannelVoice   Channel = "VOICE"
	ChannelGesture Channel = "GESTURE"
	ChannelOther   Channel = "OTHER"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelVoice, ChannelGesture, ChannelOther:
		return true
	default:
		return false
	}
}

// IntentStatus is the intent state machine. Transitions are one-directional:
// PENDING -> ACCEPTED -> ORDER_SUBMITTED -> ORDER_CONFIRMED | ORDER_FAILED,
// or PENDING -> REJECTED, or PENDING -> EXPIRED.
type IntentStatus string

const (
	IntentPending        IntentStatus = "PENDING"
	IntentAccepted       IntentStatus = "ACCEPTED"
	IntentOrderSubmitted IntentStatus = "ORDER_SUBMITTED"
	IntentOrderConfirmed IntentStatus = "ORDER_CONFIRMED"
	IntentOrderFailed    IntentStatus = "ORDER_FAILED"
	IntentRejected       IntentStatus = "REJECTED"
	IntentExpired        IntentStatus = "EXPIRED"
)

// Terminal reports whether the intent can never transition again.
func (s IntentStatus) Terminal() bool {
	switch s {
	case IntentOrderConfirmed, IntentOrderFailed, IntentRejected, IntentExpired:
		return true
	case IntentPending, IntentAccepted, IntentOrderSubmitted:
		return false
	default:
		panic(fmt.Sprintf("unhandled intent status %q", string(s)))
	}
}

type OrderStatus string

const (
	OrderSubmitted OrderStatus = "SUBMITTED"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderFailed    OrderStatus = "FAILED"
)

func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderConfirmed, OrderFailed:
		return true
	case OrderSubmitted:
		return false
	default:
		panic(fmt.Sprintf("unhandled order status %q", string(s)))
	}
}
