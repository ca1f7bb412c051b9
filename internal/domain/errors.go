package domain

import "errors"

// Failure taxonomy for the coordinator and its collaborators. Everything is a
// value; nothing here is fatal to the process.
var (
	// ErrUnknownProduct: catalog miss. Recovered locally as "do not prompt".
	ErrUnknownProduct = errors.New("unknown product")

	// ErrNotFound: unknown or already-evicted intent/order.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyDecided: the intent left PENDING before this call.
	ErrAlreadyDecided = errors.New("intent already decided")

	// ErrExpired: the intent's TTL lapsed before a decision arrived.
	ErrExpired = errors.New("intent expired")

	// ErrCommerceTransient: vendor unreachable or timed out. Retry is a
	// caller decision and requires a fresh prompt, never a resubmission.
	ErrCommerceTransient = errors.New("transient commerce failure")

	// ErrCommerceTerminal: vendor rejected the order (bad sku, out of stock).
	ErrCommerceTerminal = errors.New("terminal commerce failure")
)
