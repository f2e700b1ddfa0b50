package cart

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/burgerhouse/models"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func burger() models.MenuItem {
	return models.MenuItem{
		ID:          uuid.New(),
		Name:        "Classic Beef Burger",
		Price:       dec(89),
		Category:    models.CategoryBurgers,
		IsAvailable: true,
		Options: &models.MenuOptions{
			Extras: []models.PricedOption{
				{Label: "cheese", AddPrice: dec(10)},
				{Label: "bacon", AddPrice: dec(15)},
			},
		},
	}
}

func fries() models.MenuItem {
	return models.MenuItem{ID: uuid.New(), Name: "Fries", Price: dec(29), Category: models.CategoryStarters, IsAvailable: true}
}

func assertConsistent(t *testing.T, c *Cart) {
	t.Helper()
	sum := decimal.Zero
	for _, line := range c.Items() {
		extras, total := Price(line.Item, line.Selection, line.Quantity)
		assert.True(t, extras.Equal(line.ExtrasTotal), "extrasTotal drifted on %s", line.CartID)
		assert.True(t, total.Equal(line.LineTotal), "lineTotal drifted on %s", line.CartID)
		sum = sum.Add(line.LineTotal)
	}
	assert.True(t, sum.Equal(c.Subtotal()), "subtotal %s != sum %s", c.Subtotal(), sum)
}

func TestAddItem_PricedExtra(t *testing.T) {
	c := New()
	item := burger()
	sel := &models.CartSelection{Extras: ResolveExtras(item, []string{"cheese"})}

	line := c.AddItem(item, sel, 2)

	assert.True(t, dec(10).Equal(line.ExtrasTotal))
	assert.True(t, dec(198).Equal(line.LineTotal))
	assert.Equal(t, 2, line.Quantity)
	assert.NotEmpty(t, line.CartID)
	assert.NotEqual(t, item.ID.String(), line.CartID)
}

func TestAddItem_ClampsQuantity(t *testing.T) {
	c := New()

	line := c.AddItem(fries(), nil, 0)

	assert.Equal(t, 1, line.Quantity)
	assert.True(t, dec(29).Equal(line.LineTotal))
}

func TestAddItem_SameMenuItemMakesSeparateLines(t *testing.T) {
	c := New()
	item := fries()

	a := c.AddItem(item, nil, 1)
	b := c.AddItem(item, nil, 1)

	assert.NotEqual(t, a.CartID, b.CartID)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, b.CartID, c.Items()[0].CartID, "newest line first")
}

func TestAddItem_CopiesSelection(t *testing.T) {
	c := New()
	sel := &models.CartSelection{Sides: []string{"fries"}}

	line := c.AddItem(burger(), sel, 1)
	sel.Sides[0] = "salad"

	got, ok := c.Item(line.CartID)
	require.True(t, ok)
	assert.Equal(t, "fries", got.Selection.Sides[0])
}

func TestPricingIsRepresentationInvariant(t *testing.T) {
	item := burger()
	plain := &models.CartSelection{Extras: []models.Extra{models.PlainExtra("napkins")}}
	zero := &models.CartSelection{Extras: []models.Extra{models.PricedExtra("napkins", decimal.Zero)}}

	_, plainTotal := Price(item, plain, 3)
	_, zeroTotal := Price(item, zero, 3)

	assert.True(t, plainTotal.Equal(zeroTotal))
	assert.True(t, dec(267).Equal(plainTotal))
}

func TestRemovablesDoNotAffectPrice(t *testing.T) {
	item := burger()
	with := &models.CartSelection{Removables: []string{"onion", "pickles"}}

	extras, total := Price(item, with, 1)

	assert.True(t, extras.IsZero())
	assert.True(t, dec(89).Equal(total))
}

func TestUpdateQuantity(t *testing.T) {
	c := New()
	item := burger()
	line := c.AddItem(item, &models.CartSelection{Extras: ResolveExtras(item, []string{"bacon"})}, 1)

	c.UpdateQuantity(line.CartID, 3)
	got, _ := c.Item(line.CartID)
	assert.Equal(t, 3, got.Quantity)
	assert.True(t, dec(15).Equal(got.ExtrasTotal))
	assert.True(t, dec(312).Equal(got.LineTotal))

	for _, q := range []int{0, -1, -100} {
		c.UpdateQuantity(line.CartID, q)
		got, _ = c.Item(line.CartID)
		assert.Equal(t, 1, got.Quantity, "quantity %d", q)
		assert.True(t, dec(104).Equal(got.LineTotal))
	}
}

func TestUpdateQuantity_UnknownLineIsNoop(t *testing.T) {
	c := New()
	c.AddItem(fries(), nil, 2)
	before := c.Items()

	c.UpdateQuantity("missing", 5)

	assert.Equal(t, before, c.Items())
}

func TestEditItem(t *testing.T) {
	c := New()
	item := burger()
	line := c.AddItem(item, nil, 1)

	sel := &models.CartSelection{Extras: ResolveExtras(item, []string{"cheese", "bacon"}), Drink: "Cola"}
	c.EditItem(line.CartID, sel, 2)

	got, _ := c.Item(line.CartID)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, "Cola", got.Selection.Drink)
	assert.True(t, dec(25).Equal(got.ExtrasTotal))
	assert.True(t, dec(228).Equal(got.LineTotal))

	c.EditItem(line.CartID, nil, -3)
	got, _ = c.Item(line.CartID)
	assert.Equal(t, 1, got.Quantity)
	assert.Nil(t, got.Selection)
	assert.True(t, got.ExtrasTotal.IsZero())
	assert.True(t, dec(89).Equal(got.LineTotal))
}

func TestEditItem_UnknownLineIsNoop(t *testing.T) {
	c := New()
	c.AddItem(fries(), nil, 1)
	before := c.Items()

	c.EditItem("missing", &models.CartSelection{Extras: []models.Extra{models.PricedExtra("x", dec(5))}}, 4)

	assert.Equal(t, before, c.Items())
}

func TestRemoveItem(t *testing.T) {
	c := New()
	a := c.AddItem(fries(), nil, 1)
	b := c.AddItem(burger(), nil, 1)

	c.RemoveItem(a.CartID)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, b.CartID, c.Items()[0].CartID)
	assertConsistent(t, c)
}

func TestRemoveItem_UnknownLineLeavesCartUnchanged(t *testing.T) {
	c := New()
	c.AddItem(fries(), nil, 1)
	c.AddItem(burger(), nil, 2)
	before := c.Items()

	c.RemoveItem("does-not-exist")

	assert.Equal(t, len(before), c.Len())
	assert.Equal(t, before, c.Items())
}

func TestClear(t *testing.T) {
	c := New()
	c.AddItem(fries(), nil, 1)
	c.AddItem(burger(), nil, 1)

	c.Clear()

	assert.Zero(t, c.Len())
	assert.True(t, c.Subtotal().IsZero())
}

func TestSubtotal_TwoLines(t *testing.T) {
	c := New()
	item := burger()
	c.AddItem(item, &models.CartSelection{Extras: ResolveExtras(item, []string{"cheese"})}, 2)
	c.AddItem(fries(), nil, 2)

	assert.True(t, dec(256).Equal(c.Subtotal()), "got %s", c.Subtotal())
}

func TestSubtotal_MatchesLinesAfterRandomMutations(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	c := New()
	menu := []models.MenuItem{burger(), fries()}
	labels := []string{"cheese", "bacon", "napkins"}

	var ids []string
	for step := 0; step < 200; step++ {
		switch op := r.Intn(4); {
		case op == 0 || len(ids) == 0:
			item := menu[r.Intn(len(menu))]
			sel := &models.CartSelection{Extras: ResolveExtras(item, labels[:r.Intn(len(labels)+1)])}
			ids = append(ids, c.AddItem(item, sel, r.Intn(6)-1).CartID)
		case op == 1:
			c.UpdateQuantity(ids[r.Intn(len(ids))], r.Intn(8)-2)
		case op == 2:
			sel := &models.CartSelection{Extras: []models.Extra{
				models.PricedExtra("sauce", decimal.NewFromFloat(2.5)),
				models.PlainExtra("ice"),
			}}
			c.EditItem(ids[r.Intn(len(ids))], sel, r.Intn(5))
		default:
			c.RemoveItem(fmt.Sprintf("ghost-%d", step))
		}
		assertConsistent(t, c)
	}
}

func TestResolveExtras(t *testing.T) {
	extras := ResolveExtras(burger(), []string{"cheese", "napkins"})

	require.Len(t, extras, 2)
	assert.Equal(t, models.ExtraPriced, extras[0].Kind)
	assert.True(t, dec(10).Equal(extras[0].AddPrice))
	assert.Equal(t, models.ExtraPlain, extras[1].Kind)

	assert.Nil(t, ResolveExtras(fries(), nil))
}
