// Package commerce defines the narrow contract to the external ordering
// system and the mock vendor used outside production.
package commerce

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reorder-system/internal/domain"
)

// Provider submits an order and reports the vendor's answer. Implementations
// must distinguish transient failures (domain.ErrCommerceTransient) from
// terminal ones (domain.ErrCommerceTerminal). The coordinator never retries.
type Provider interface {
	SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderRecord, error)
}

// WithTimeout bounds every SubmitOrder call so a hung vendor cannot leave an
// intent ACCEPTED forever. Deadline overruns surface as transient failures.
type WithTimeout struct {
	Inner   Provider
	Timeout time.Duration
}

func (w WithTimeout) SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()
	rec, err := w.Inner.SubmitOrder(ctx, req)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return domain.OrderRecord{}, fmt.Errorf("submit order timed out after %s: %w", w.Timeout, domain.ErrCommerceTransient)
	}
	return rec, err
}
