// Package handler exposes the checkout service over HTTP.
package handler

import (
	"context"
	"net/http"

	"github.com/xenking/kart-checkout/internal/domain/checkout"
	"github.com/xenking/kart-checkout/internal/domain/money"
	"github.com/xenking/kart-checkout/internal/domain/quote"
)

// CheckoutService is the part of checkout.Service the handlers depend on.
type CheckoutService interface {
	Summarize(ctx context.Context, cartID string) (*checkout.Summary, error)
	SavePreferences(ctx context.Context, p *checkout.Preferences) error
	RecordQuote(ctx context.Context, cartID string, q quote.Quote) error
}

var _ CheckoutService = (*checkout.Service)(nil)

// Handler serves the checkout API, delegating business logic to the
// checkout service and rendering amounts with a currency formatter.
type Handler struct {
	svc       CheckoutService
	formatter *money.Formatter
}

// NewHandler constructs a Handler. A nil formatter uses money.Default.
func NewHandler(svc CheckoutService, formatter *money.Formatter) *Handler {
	if formatter == nil {
		formatter = money.Default
	}
	return &Handler{
		svc:       svc,
		formatter: formatter,
	}
}

// Register adds the checkout routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/carts/{id}/summary", h.GetSummary)
	mux.HandleFunc("PUT /api/carts/{id}/preferences", h.PutPreferences)
	mux.HandleFunc("PUT /api/carts/{id}/quote", h.PutQuote)
}
