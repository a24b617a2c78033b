package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/kart-checkout/internal/domain/money"
	"github.com/xenking/kart-checkout/internal/domain/quote"
	"github.com/xenking/kart-checkout/internal/domain/tip"
)

// quoteUnavailable is shown in place of the fee when the quote store fails.
const quoteUnavailable = "delivery quote unavailable"

// CartRepository defines read operations for stored carts.
type CartRepository interface {
	Get(ctx context.Context, id string) (*CartSnapshot, error)
}

// QuoteRepository stores the latest delivery quote per cart.
type QuoteRepository interface {
	Get(ctx context.Context, cartID string) (quote.Quote, error)
	Put(ctx context.Context, cartID string, q quote.Quote) error
}

// PreferenceRepository persists checkout preferences per cart.
type PreferenceRepository interface {
	Get(ctx context.Context, cartID string) (*Preferences, error)
	Save(ctx context.Context, p *Preferences) error
}

// Service computes checkout summaries for stored carts.
type Service struct {
	carts  CartRepository
	quotes QuoteRepository
	prefs  PreferenceRepository
	tracer trace.Tracer
}

// NewService creates a checkout Service with the required dependencies.
func NewService(
	carts CartRepository,
	quotes QuoteRepository,
	prefs PreferenceRepository,
	tp trace.TracerProvider,
) *Service {
	return &Service{
		carts:  carts,
		quotes: quotes,
		prefs:  prefs,
		tracer: tp.Tracer("checkout"),
	}
}

// Summarize loads the cart, its delivery quote and its preferences
// concurrently and builds the line items. A failing quote store degrades to
// an errored delivery fee instead of failing the summary.
func (s *Service) Summarize(ctx context.Context, cartID string) (_ *Summary, rerr error) {
	ctx, span := s.tracer.Start(ctx, "checkout.Summarize",
		trace.WithAttributes(attribute.String("cart.id", cartID)),
	)
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		}
		span.End()
	}()

	var (
		cart  *CartSnapshot
		q     quote.Quote
		prefs *Preferences
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.carts.Get(gctx, cartID)
		if err != nil {
			return errors.Wrap(err, "get cart")
		}
		cart = c
		return nil
	})
	g.Go(func() error {
		got, err := s.quotes.Get(gctx, cartID)
		if err != nil {
			zctx.From(ctx).Warn("Quote lookup failed",
				zap.String("cart_id", cartID),
				zap.Error(err),
			)
			got = quote.Errored(quoteUnavailable)
		}
		q = got
		return nil
	})
	g.Go(func() error {
		p, err := s.prefs.Get(gctx, cartID)
		if err != nil {
			return errors.Wrap(err, "get preferences")
		}
		prefs = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum, err := Compute(Input{
		Cart:        cart,
		Quote:       q,
		Flags:       prefs.Flags,
		Tip:         prefs.Tip,
		DeliveryTip: prefs.DeliveryTip,
	})
	if err != nil {
		return nil, errors.Wrap(err, "compute summary")
	}
	sum.CartID = cartID

	span.SetAttributes(
		attribute.Int("checkout.items", len(sum.Items)),
		attribute.Int64("checkout.total", sum.Total.Value),
	)
	return sum, nil
}

// SavePreferences validates both tips and persists p. The cart must exist.
func (s *Service) SavePreferences(ctx context.Context, p *Preferences) error {
	if err := tip.Validate(p.Tip); err != nil {
		return errors.Wrap(err, "tip")
	}
	if err := tip.Validate(p.DeliveryTip); err != nil {
		return errors.Wrap(err, "delivery tip")
	}
	if _, err := s.carts.Get(ctx, p.CartID); err != nil {
		return errors.Wrap(err, "get cart")
	}
	if err := s.prefs.Save(ctx, p); err != nil {
		return errors.Wrap(err, "save preferences")
	}
	return nil
}

// RecordQuote stores the latest delivery quote state of a cart. The cart
// must exist. A resolved fee without a currency takes the cart's; a fee in
// another currency is rejected.
func (s *Service) RecordQuote(ctx context.Context, cartID string, q quote.Quote) error {
	switch q.Status {
	case quote.StatusResolved:
		if q.Fee.IsNegative() {
			return errors.Wrapf(ErrInvalidQuote, "negative fee %d", q.Fee.Value)
		}
	case quote.StatusErrored:
		if q.Err == "" {
			return errors.Wrap(ErrInvalidQuote, "errored quote without message")
		}
	}

	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return errors.Wrap(err, "get cart")
	}
	if q.Status == quote.StatusResolved {
		fee, err := money.Zero(cart.Currency()).Add(q.Fee)
		if err != nil {
			return errors.Wrapf(ErrInvalidQuote, "fee in %s for cart in %s", q.Fee.Currency, cart.Currency())
		}
		q = quote.Resolved(fee)
	}

	if err := s.quotes.Put(ctx, cartID, q); err != nil {
		return errors.Wrap(err, "put quote")
	}
	return nil
}
