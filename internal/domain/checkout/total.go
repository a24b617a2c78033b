package checkout

import (
	"github.com/go-faster/errors"

	"github.com/xenking/kart-checkout/internal/domain/money"
)

// Total sums every item except "Total" rows. Items that are not settled
// (a pending, errored or absent delivery fee) count as zero, so the total
// understates the fee until the quote resolves and the summary is rebuilt.
func Total(items []LineItem) (money.Amount, error) {
	var sum money.Amount
	for _, item := range items {
		if item.Name == NameTotal || !item.Settled() {
			continue
		}

		next, err := sum.Add(item.Amount)
		if err != nil {
			return money.Amount{}, errors.Wrapf(err, "add %s", item.Name)
		}
		sum = next
	}
	return sum, nil
}
