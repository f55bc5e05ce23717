// Package payment wraps the hosted-checkout provider. The checkout service
// depends on the Gateway interface so the provider can be swapped or mocked.
package payment

import "context"

// Link is a hosted payment page the renter is redirected to.
type Link struct {
	ID  string
	URL string
}

// LinkRequest describes the charge for one booking checkout. Amount is in
// major units of Currency; the adapter converts to the provider's minor units.
type LinkRequest struct {
	Amount        float64
	Currency      string
	Description   string
	ReferenceID   string
	CustomerName  string
	CustomerEmail string
	CallbackURL   string
	Notes         map[string]interface{}
}

type Gateway interface {
	// CreateLink creates a hosted payment page and returns its id and URL.
	CreateLink(ctx context.Context, req *LinkRequest) (*Link, error)
	// CancelLink invalidates a link so an orphaned checkout cannot be paid.
	CancelLink(ctx context.Context, linkID string) error
}
