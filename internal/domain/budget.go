package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxAmount is the exclusive upper bound of a stored money amount
// (NUMERIC(12,2) holds at most 9999999999.99).
var MaxAmount = decimal.New(1, 10)

// ValidateAmount checks that d fits a NUMERIC(12,2) column exactly: not
// negative, at most two decimal places, and below MaxAmount. field names the
// amount in the error message.
func ValidateAmount(field string, d decimal.Decimal) error {
	switch {
	case d.IsNegative():
		return fmt.Errorf("%w: %s must not be negative", ErrValidation, field)
	case !d.Equal(d.Round(2)):
		return fmt.Errorf("%w: %s must have at most 2 decimal places", ErrValidation, field)
	case d.GreaterThanOrEqual(MaxAmount):
		return fmt.Errorf("%w: %s must be less than %s", ErrValidation, field, MaxAmount)
	}
	return nil
}

// Budget is the six-category spending plan embedded in every Trip.
// The zero value of each field is a valid amount of 0, so a category the
// caller never supplied contributes nothing to the total.
type Budget struct {
	Flights    decimal.Decimal
	Hotel      decimal.Decimal
	Food       decimal.Decimal
	Activities decimal.Decimal
	Transport  decimal.Decimal
	Misc       decimal.Decimal
}

// categories returns the amounts paired with their API field names, in a
// fixed order so validation messages are deterministic.
func (b Budget) categories() []struct {
	name   string
	amount decimal.Decimal
} {
	return []struct {
		name   string
		amount decimal.Decimal
	}{
		{"flights", b.Flights},
		{"hotel", b.Hotel},
		{"food", b.Food},
		{"activities", b.Activities},
		{"transport", b.Transport},
		{"misc", b.Misc},
	}
}

// Total sums the six categories. Every category and the sum must pass
// ValidateAmount, so the stored total always equals the sum of the stored
// categories. Returns ErrValidation naming the first bad amount, if any.
func (b Budget) Total() (decimal.Decimal, error) {
	total := decimal.Zero
	for _, c := range b.categories() {
		if err := ValidateAmount("budget."+c.name, c.amount); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(c.amount)
	}
	if err := ValidateAmount("total_budget", total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
