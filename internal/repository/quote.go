package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/redis/go-redis/v9"

	"github.com/xenking/kart-checkout/internal/domain/checkout"
	"github.com/xenking/kart-checkout/internal/domain/quote"
)

const quoteKeyPrefix = "quote:"

var _ checkout.QuoteRepository = (*QuoteRepository)(nil)

// QuoteRepository keeps the latest delivery quote per cart in Redis. Quotes
// expire after the configured TTL and then read back as absent.
type QuoteRepository struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewQuoteRepository returns a QuoteRepository using client. A non-positive
// ttl keeps quotes until they are replaced.
func NewQuoteRepository(client redis.Cmdable, ttl time.Duration) *QuoteRepository {
	if ttl < 0 {
		ttl = 0
	}
	return &QuoteRepository{client: client, ttl: ttl}
}

// Get returns the stored quote of a cart, or an absent quote when none is stored.
func (r *QuoteRepository) Get(ctx context.Context, cartID string) (quote.Quote, error) {
	data, err := r.client.Get(ctx, quoteKeyPrefix+cartID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return quote.Absent(), nil
		}
		return quote.Quote{}, fmt.Errorf("getting quote of cart %q: %w", cartID, err)
	}

	q, err := decodeQuote(data)
	if err != nil {
		return quote.Quote{}, fmt.Errorf("decoding quote of cart %q: %w", cartID, err)
	}
	return q, nil
}

// Put stores q as the latest quote of a cart. Storing an absent quote
// removes the entry.
func (r *QuoteRepository) Put(ctx context.Context, cartID string, q quote.Quote) error {
	key := quoteKeyPrefix + cartID
	if q.Status == quote.StatusAbsent {
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("deleting quote of cart %q: %w", cartID, err)
		}
		return nil
	}

	if err := r.client.Set(ctx, key, encodeQuote(q), r.ttl).Err(); err != nil {
		return fmt.Errorf("storing quote of cart %q: %w", cartID, err)
	}
	return nil
}

func encodeQuote(q quote.Quote) []byte {
	var e jx.Encoder
	q.Encode(&e)
	return e.Bytes()
}

func decodeQuote(data []byte) (quote.Quote, error) {
	var q quote.Quote
	if err := q.Decode(jx.DecodeBytes(data)); err != nil {
		return quote.Quote{}, err
	}
	return q, nil
}
