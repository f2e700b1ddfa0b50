package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type ExtraKind int

const (
	// ExtraPlain is a bare label with no price attached.
	ExtraPlain ExtraKind = iota
	// ExtraPriced is a label carrying an additive price.
	ExtraPriced
)

// Extra is one chosen extra on a cart line: either Plain(label) or
// Priced(label, amount). On the wire a plain extra is a JSON string and a
// priced one is {"label": ..., "addPrice": ...}.
type Extra struct {
	Kind     ExtraKind
	Label    string
	AddPrice decimal.Decimal
}

func PlainExtra(label string) Extra {
	return Extra{Kind: ExtraPlain, Label: label}
}

func PricedExtra(label string, amount decimal.Decimal) Extra {
	return Extra{Kind: ExtraPriced, Label: label, AddPrice: amount}
}

type pricedExtraJSON struct {
	Label    string           `json:"label"`
	AddPrice *decimal.Decimal `json:"addPrice,omitempty"`
}

func (e Extra) MarshalJSON() ([]byte, error) {
	if e.Kind == ExtraPlain {
		return json.Marshal(e.Label)
	}
	amount := e.AddPrice
	return json.Marshal(pricedExtraJSON{Label: e.Label, AddPrice: &amount})
}

func (e *Extra) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		*e = PlainExtra(label)
		return nil
	}

	var obj pricedExtraJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("extra must be a label or {label, addPrice}: %w", err)
	}
	amount := decimal.Zero
	if obj.AddPrice != nil {
		amount = *obj.AddPrice
	}
	*e = PricedExtra(obj.Label, amount)
	return nil
}

// CartSelection is the customisation chosen for one cart line.
// Removables are recorded but take no part in pricing.
type CartSelection struct {
	Sides      []string `json:"sides,omitempty"`
	Drink      string   `json:"drink,omitempty"`
	Extras     []Extra  `json:"extras,omitempty"`
	Removables []string `json:"removables,omitempty"`
}

// Clone returns a deep copy so cart lines never share backing arrays with callers.
func (s *CartSelection) Clone() *CartSelection {
	if s == nil {
		return nil
	}
	return &CartSelection{
		Sides:      append([]string(nil), s.Sides...),
		Drink:      s.Drink,
		Extras:     append([]Extra(nil), s.Extras...),
		Removables: append([]string(nil), s.Removables...),
	}
}

// CartItem is one line in a cart. ExtrasTotal and LineTotal are derived from
// Item, Selection and Quantity and are only ever written together.
type CartItem struct {
	CartID      string          `json:"cartId"`
	Item        MenuItem        `json:"item"`
	Quantity    int             `json:"quantity"`
	Selection   *CartSelection  `json:"selection,omitempty"`
	ExtrasTotal decimal.Decimal `json:"extrasTotal"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}
