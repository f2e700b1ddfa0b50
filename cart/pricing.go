package cart

import (
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/burgerhouse/models"
)

// ExtraPrice is the additive price of one extra. Plain extras cost nothing.
func ExtraPrice(e models.Extra) decimal.Decimal {
	switch e.Kind {
	case models.ExtraPriced:
		return e.AddPrice
	default:
		return decimal.Zero
	}
}

// ExtrasTotal sums the priced extras of a selection. Removables, sides and the
// drink do not affect price.
func ExtrasTotal(sel *models.CartSelection) decimal.Decimal {
	total := decimal.Zero
	if sel == nil {
		return total
	}
	for _, e := range sel.Extras {
		total = total.Add(ExtraPrice(e))
	}
	return total
}

// ClampQuantity raises anything below one to one.
func ClampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

// Price computes the derived totals of a cart line. Every path that creates or
// mutates a line goes through here.
func Price(item models.MenuItem, sel *models.CartSelection, quantity int) (extrasTotal, lineTotal decimal.Decimal) {
	extrasTotal = ExtrasTotal(sel)
	qty := decimal.NewFromInt(int64(ClampQuantity(quantity)))
	lineTotal = item.Price.Add(extrasTotal).Mul(qty)
	return extrasTotal, lineTotal
}

// ResolveExtras turns extra labels picked by a customer into extras priced from
// the menu item's options. Labels the menu does not price stay plain.
func ResolveExtras(item models.MenuItem, labels []string) []models.Extra {
	if len(labels) == 0 {
		return nil
	}
	extras := make([]models.Extra, 0, len(labels))
	for _, label := range labels {
		if opt, ok := item.Options.Extra(label); ok {
			extras = append(extras, models.PricedExtra(opt.Label, opt.AddPrice))
			continue
		}
		extras = append(extras, models.PlainExtra(label))
	}
	return extras
}
