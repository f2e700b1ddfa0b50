package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryBurgers   Category = "Burgers"
	CategoryMains     Category = "Mains"
	CategoryStarters  Category = "Starters"
	CategoryBeverages Category = "Beverages"
)

// Categories lists every menu category in display order.
var Categories = []Category{CategoryBurgers, CategoryMains, CategoryStarters, CategoryBeverages}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches s against the known categories, ignoring case.
func ParseCategory(s string) (Category, error) {
	for _, known := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown menu category %q", s)
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MenuOption is an informational side or drink choice.
type MenuOption struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

type PricedOption struct {
	Label    string          `json:"label"`
	AddPrice decimal.Decimal `json:"addPrice"`
}

type Removable struct {
	Label string `json:"label" yaml:"label"`
}

type MenuOptions struct {
	Sides      []MenuOption   `json:"sides,omitempty"`
	Drinks     []MenuOption   `json:"drinks,omitempty"`
	Extras     []PricedOption `json:"extras,omitempty"`
	Removables []Removable    `json:"removables,omitempty"`
}

// Extra looks up a priced extra by label.
func (o *MenuOptions) Extra(label string) (PricedOption, bool) {
	if o == nil {
		return PricedOption{}, false
	}
	for _, e := range o.Extras {
		if e.Label == label {
			return e, true
		}
	}
	return PricedOption{}, false
}

type MenuItem struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	ImageURL    string          `db:"image_url" json:"imageUrl"`
	Category    Category        `db:"category" json:"category"`
	IsAvailable bool            `db:"is_available" json:"isAvailable"`
	Options     *MenuOptions    `db:"options" json:"options,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// MenuItemInput carries the administrator-editable fields of a menu item.
type MenuItemInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    Category        `json:"category"`
	IsAvailable bool            `json:"isAvailable"`
	Options     *MenuOptions    `json:"options,omitempty"`
}

func (in *MenuItemInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Price = in.Price.Round(2)
	if in.Options != nil {
		for i := range in.Options.Extras {
			in.Options.Extras[i].Label = strings.TrimSpace(in.Options.Extras[i].Label)
			in.Options.Extras[i].AddPrice = in.Options.Extras[i].AddPrice.Round(2)
		}
	}
}

func (in MenuItemInput) Validate() error {
	switch {
	case in.Name == "":
		return &ValidationError{Field: "name", Message: "name is required"}
	case in.Description == "":
		return &ValidationError{Field: "description", Message: "description is required"}
	case !in.Price.IsPositive():
		return &ValidationError{Field: "price", Message: "price must be a number > 0"}
	case in.ImageURL == "":
		return &ValidationError{Field: "imageUrl", Message: "image URL is required"}
	case !in.Category.IsValid():
		return &ValidationError{Field: "category", Message: "category is not supported"}
	}
	if in.Options != nil {
		for _, e := range in.Options.Extras {
			if strings.TrimSpace(e.Label) == "" || e.AddPrice.IsNegative() {
				return &ValidationError{Field: "options.extras", Message: "extras need a label and a non-negative price"}
			}
		}
	}
	return nil
}

// FilterByCategory keeps the available items of one category, preserving order.
func FilterByCategory(items []MenuItem, category Category) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if item.Category == category && item.IsAvailable {
			out = append(out, item)
		}
	}
	return out
}
