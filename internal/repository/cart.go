package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/kart-checkout/internal/domain/checkout"
)

const (
	getCartSQL = `SELECT id, currency FROM carts WHERE id = $1`

	listCartItemsSQL = `SELECT product_id, name, unit_price, quantity
		FROM cart_items WHERE cart_id = $1 ORDER BY position`

	insertCartSQL = `INSERT INTO carts (id, currency) VALUES ($1, $2)`

	insertCartItemSQL = `INSERT INTO cart_items (cart_id, position, product_id, name, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`
)

var _ checkout.CartRepository = (*CartRepository)(nil)

// CartRepository implements checkout.CartRepository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Get returns the cart with its items in insertion order.
// Returns *checkout.CartNotFoundError when no cart has the given id.
func (r *CartRepository) Get(ctx context.Context, id string) (*checkout.CartSnapshot, error) {
	var c checkout.CartSnapshot
	err := r.pool.QueryRow(ctx, getCartSQL, id).Scan(&c.ID, &c.CurrencyCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &checkout.CartNotFoundError{CartID: id}
		}
		return nil, fmt.Errorf("getting cart %q: %w", id, err)
	}
	c.CurrencyCode = strings.TrimSpace(c.CurrencyCode)

	rows, err := r.pool.Query(ctx, listCartItemsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("listing items of cart %q: %w", id, err)
	}
	items, err := pgx.CollectRows(rows, scanCartItem)
	if err != nil {
		return nil, fmt.Errorf("listing items of cart %q: %w", id, err)
	}
	c.Items = items

	return &c, nil
}

// Create inserts a cart and its items in a single transaction.
func (r *CartRepository) Create(ctx context.Context, c *checkout.CartSnapshot) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertCartSQL, c.ID, c.CurrencyCode); err != nil {
			return fmt.Errorf("creating cart %q: %w", c.ID, err)
		}

		batch := &pgx.Batch{}
		for i, item := range c.Items {
			batch.Queue(insertCartItemSQL,
				c.ID, i, item.ProductID, item.Name, item.UnitPrice, item.Quantity,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("creating items of cart %q: %w", c.ID, err)
		}
		return nil
	})
}

func scanCartItem(row pgx.CollectableRow) (checkout.CartItem, error) {
	var (
		item     checkout.CartItem
		quantity int32
	)
	err := row.Scan(&item.ProductID, &item.Name, &item.UnitPrice, &quantity)
	item.Quantity = int(quantity)
	return item, err
}
