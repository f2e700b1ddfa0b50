// Package cart holds a customer's selected menu items and keeps every line's
// derived totals consistent with its selection and quantity.
//
// A Cart is not safe for concurrent use; Sessions serialises access when carts
// are shared across request goroutines.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/burgerhouse/models"
)

type Cart struct {
	items []models.CartItem
	newID func() string
}

func New() *Cart {
	return &Cart{newID: uuid.NewString}
}

// AddItem prices a new line and puts it at the front of the cart. The same
// menu item may be added any number of times; each call makes a separate line.
func (c *Cart) AddItem(item models.MenuItem, sel *models.CartSelection, quantity int) models.CartItem {
	qty := ClampQuantity(quantity)
	sel = sel.Clone()
	extrasTotal, lineTotal := Price(item, sel, qty)

	line := models.CartItem{
		CartID:      c.newID(),
		Item:        item,
		Quantity:    qty,
		Selection:   sel,
		ExtrasTotal: extrasTotal,
		LineTotal:   lineTotal,
	}
	c.items = append([]models.CartItem{line}, c.items...)
	return line
}

// UpdateQuantity reprices a line for a new quantity using its current
// selection. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(cartID string, quantity int) {
	i := c.index(cartID)
	if i < 0 {
		return
	}
	line := &c.items[i]
	line.Quantity = ClampQuantity(quantity)
	line.ExtrasTotal, line.LineTotal = Price(line.Item, line.Selection, line.Quantity)
}

// EditItem replaces a line's selection and quantity and reprices it.
// Unknown ids are ignored.
func (c *Cart) EditItem(cartID string, sel *models.CartSelection, quantity int) {
	i := c.index(cartID)
	if i < 0 {
		return
	}
	line := &c.items[i]
	line.Quantity = ClampQuantity(quantity)
	line.Selection = sel.Clone()
	line.ExtrasTotal, line.LineTotal = Price(line.Item, line.Selection, line.Quantity)
}

func (c *Cart) RemoveItem(cartID string) {
	i := c.index(cartID)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
}

func (c *Cart) Clear() {
	c.items = nil
}

// Item returns a copy of one line.
func (c *Cart) Item(cartID string) (models.CartItem, bool) {
	i := c.index(cartID)
	if i < 0 {
		return models.CartItem{}, false
	}
	return copyLine(c.items[i]), true
}

// Items returns a copy of the lines, newest first.
func (c *Cart) Items() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	for i, line := range c.items {
		out[i] = copyLine(line)
	}
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Subtotal is recomputed from the current lines on every call.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.items {
		total = total.Add(line.LineTotal)
	}
	return total
}

func (c *Cart) index(cartID string) int {
	for i := range c.items {
		if c.items[i].CartID == cartID {
			return i
		}
	}
	return -1
}

func copyLine(line models.CartItem) models.CartItem {
	line.Selection = line.Selection.Clone()
	return line
}
