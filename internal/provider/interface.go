package provider

import "context"

// OrderInfo is the normalized view of an upstream order status response.
type OrderInfo struct {
	Status     string `json:"status"`
	Charge     string `json:"charge,omitempty"`
	StartCount int    `json:"start_count,omitempty"`
	Remains    int    `json:"remains,omitempty"`
	Currency   string `json:"currency,omitempty"`

	// RefillAvailable is nil when the provider said nothing about refill
	// availability. Providers expose the flag under several field names; the
	// adapters normalize all variants here.
	RefillAvailable *bool `json:"refill_available,omitempty"`
}

// Client defines the interface for upstream SMM provider integrations.
// Each API flavor (form-encoded v1, JSON) implements this interface.
type Client interface {
	// OrderStatus fetches the live status of an order on the provider.
	OrderStatus(ctx context.Context, providerOrderID string) (*OrderInfo, error)

	// Refill submits a refill request and returns the provider's refill id.
	Refill(ctx context.Context, providerOrderID string) (string, error)

	// Cancel submits a cancellation request for an order.
	Cancel(ctx context.Context, providerOrderID string) error

	// APIType returns the API flavor identifier.
	APIType() string
}
