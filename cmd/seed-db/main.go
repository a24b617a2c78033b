package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/xenking/kart-checkout/internal/domain/checkout"
	"github.com/xenking/kart-checkout/internal/domain/money"
	"github.com/xenking/kart-checkout/internal/domain/tip"
	"github.com/xenking/kart-checkout/internal/repository"
)

type cartJSON struct {
	ID          string              `json:"id"`
	Currency    string              `json:"currency"`
	Items       []checkout.CartItem `json:"items"`
	Preferences *preferencesJSON    `json:"preferences"`
}

type preferencesJSON struct {
	PickupOrder   bool   `json:"pickupOrder"`
	Tipping       bool   `json:"tipping"`
	Tip           string `json:"tip"`
	TippingDriver bool   `json:"tippingDriver"`
	DeliveryTip   string `json:"deliveryTip"`
}

func main() {
	var (
		databaseURL string
		cartsFile   string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&cartsFile, "carts-file", "db/seed/carts.json", "path to carts JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, cartsFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, cartsFile string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL, noop.NewTracerProvider())
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	carts, err := readCarts(cartsFile)
	if err != nil {
		return err
	}

	cartRepo := repository.NewCartRepository(pool)
	prefRepo := repository.NewPreferenceRepository(pool)

	slog.Info("seeding carts", slog.Int("count", len(carts)))

	for _, c := range carts {
		snap := &checkout.CartSnapshot{ID: c.ID, CurrencyCode: c.Currency, Items: c.Items}
		if snap.ID == "" {
			snap.ID = uuid.NewString()
		}
		if snap.CurrencyCode == "" {
			snap.CurrencyCode = money.DefaultCurrency
		}

		created, err := ensureCart(ctx, cartRepo, snap)
		if err != nil {
			return errors.Wrapf(err, "seed cart %s", snap.ID)
		}
		if !created {
			slog.Info("cart exists, skipping", slog.String("id", snap.ID))
			continue
		}

		if c.Preferences != nil {
			p, err := c.Preferences.toDomain(snap.ID, snap.CurrencyCode)
			if err != nil {
				return errors.Wrapf(err, "preferences of cart %s", snap.ID)
			}
			if err := prefRepo.Save(ctx, p); err != nil {
				return errors.Wrapf(err, "save preferences of cart %s", snap.ID)
			}
		}

		slog.Info("seeded cart",
			slog.String("id", snap.ID),
			slog.Int("items", len(snap.Items)),
			slog.String("subtotal", snap.Subtotal().String()),
		)
	}

	return nil
}

func readCarts(path string) ([]cartJSON, error) {
	slog.Info("reading carts file", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read carts file")
	}

	var carts []cartJSON
	if err := json.Unmarshal(data, &carts); err != nil {
		return nil, errors.Wrap(err, "parse carts JSON")
	}
	return carts, nil
}

// ensureCart creates the cart unless one with the same id exists.
func ensureCart(ctx context.Context, repo *repository.CartRepository, c *checkout.CartSnapshot) (bool, error) {
	_, err := repo.Get(ctx, c.ID)
	var notFound *checkout.CartNotFoundError
	switch {
	case err == nil:
		return false, nil
	case !errors.As(err, &notFound):
		return false, err
	}
	if err := repo.Create(ctx, c); err != nil {
		return false, err
	}
	return true, nil
}

func (p *preferencesJSON) toDomain(cartID, currency string) (*checkout.Preferences, error) {
	out := checkout.DefaultPreferences(cartID)
	out.Flags = checkout.Flags{
		PickupOrder:   p.PickupOrder,
		Tipping:       p.Tipping,
		TippingDriver: p.TippingDriver,
	}

	var err error
	if out.Tip, err = parseTip(p.Tip, currency, out.Tip); err != nil {
		return nil, errors.Wrap(err, "tip")
	}
	if out.DeliveryTip, err = parseTip(p.DeliveryTip, currency, out.DeliveryTip); err != nil {
		return nil, errors.Wrap(err, "delivery tip")
	}
	return out, nil
}

// parseTip reads "15%" as a percent tip and "150" as a fixed tip in minor units.
func parseTip(s, currency string, fallback tip.Spec) (tip.Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	if strings.HasSuffix(s, "%") {
		return tip.ParsePercent(s)
	}

	minor, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return tip.Spec{}, errors.Wrapf(tip.ErrInvalidTipSpec, "fixed tip %q", s)
	}
	spec := tip.Fixed(money.New(minor, currency))
	return spec, tip.Validate(spec)
}
