package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/kart-checkout/internal/domain/checkout"
	"github.com/xenking/kart-checkout/internal/domain/money"
	"github.com/xenking/kart-checkout/internal/domain/tip"
)

const (
	getPreferencesSQL = `SELECT p.pickup_order, p.tipping, p.tip_kind, p.tip_value,
		p.tipping_driver, p.delivery_tip_kind, p.delivery_tip_value, c.currency
		FROM checkout_preferences p JOIN carts c ON c.id = p.cart_id
		WHERE p.cart_id = $1`

	upsertPreferencesSQL = `INSERT INTO checkout_preferences (cart_id, pickup_order, tipping, tip_kind, tip_value,
		tipping_driver, delivery_tip_kind, delivery_tip_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (cart_id) DO UPDATE SET
			pickup_order = EXCLUDED.pickup_order,
			tipping = EXCLUDED.tipping,
			tip_kind = EXCLUDED.tip_kind,
			tip_value = EXCLUDED.tip_value,
			tipping_driver = EXCLUDED.tipping_driver,
			delivery_tip_kind = EXCLUDED.delivery_tip_kind,
			delivery_tip_value = EXCLUDED.delivery_tip_value,
			updated_at = now()`
)

var _ checkout.PreferenceRepository = (*PreferenceRepository)(nil)

// PreferenceRepository implements checkout.PreferenceRepository backed by
// PostgreSQL.
type PreferenceRepository struct {
	pool *pgxpool.Pool
}

// NewPreferenceRepository returns a PreferenceRepository that uses the given pool.
func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

// Get returns the stored preferences of a cart, or the defaults when none
// were saved. Fixed tips are returned in the cart's currency.
func (r *PreferenceRepository) Get(ctx context.Context, cartID string) (*checkout.Preferences, error) {
	p := checkout.Preferences{CartID: cartID}
	var (
		tipKind, deliveryTipKind   string
		tipValue, deliveryTipValue decimal.Decimal
		currency                   string
	)
	err := r.pool.QueryRow(ctx, getPreferencesSQL, cartID).Scan(
		&p.Flags.PickupOrder, &p.Flags.Tipping, &tipKind, &tipValue,
		&p.Flags.TippingDriver, &deliveryTipKind, &deliveryTipValue, &currency,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return checkout.DefaultPreferences(cartID), nil
		}
		return nil, fmt.Errorf("getting preferences of cart %q: %w", cartID, err)
	}

	currency = strings.TrimSpace(currency)
	if p.Tip, err = specFromColumns(tipKind, tipValue, currency); err != nil {
		return nil, fmt.Errorf("decoding tip of cart %q: %w", cartID, err)
	}
	if p.DeliveryTip, err = specFromColumns(deliveryTipKind, deliveryTipValue, currency); err != nil {
		return nil, fmt.Errorf("decoding delivery tip of cart %q: %w", cartID, err)
	}
	return &p, nil
}

// Save inserts or replaces the preferences of a cart.
func (r *PreferenceRepository) Save(ctx context.Context, p *checkout.Preferences) error {
	tipKind, tipValue := specToColumns(p.Tip)
	deliveryTipKind, deliveryTipValue := specToColumns(p.DeliveryTip)

	_, err := r.pool.Exec(ctx, upsertPreferencesSQL,
		p.CartID, p.Flags.PickupOrder, p.Flags.Tipping, tipKind, tipValue,
		p.Flags.TippingDriver, deliveryTipKind, deliveryTipValue,
	)
	if err != nil {
		return fmt.Errorf("saving preferences of cart %q: %w", p.CartID, err)
	}
	return nil
}

func specFromColumns(kind string, value decimal.Decimal, currency string) (tip.Spec, error) {
	k, err := tip.ParseKind(kind)
	if err != nil {
		return tip.Spec{}, err
	}
	if k == tip.KindPercent {
		return tip.Percent(value), nil
	}
	return tip.Fixed(money.New(value.IntPart(), currency)), nil
}

func specToColumns(s tip.Spec) (string, decimal.Decimal) {
	if s.IsPercent() {
		return s.Kind().String(), s.PercentValue()
	}
	return s.Kind().String(), decimal.NewFromInt(s.FixedAmount().Value)
}
