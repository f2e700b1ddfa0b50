// Package seed provides the demo menu loaded into an empty catalog.
package seed

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ray-remotestate/burgerhouse/models"
)

//go:embed menu.yaml
var menuYAML []byte

type menuEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	ImageURL    string `yaml:"imageUrl"`
	Category    string `yaml:"category"`
	IsAvailable bool   `yaml:"isAvailable"`
	Options     *struct {
		Sides  []models.MenuOption `yaml:"sides"`
		Drinks []models.MenuOption `yaml:"drinks"`
		Extras []struct {
			Label    string `yaml:"label"`
			AddPrice string `yaml:"addPrice"`
		} `yaml:"extras"`
		Removables []models.Removable `yaml:"removables"`
	} `yaml:"options"`
}

// DemoMenu parses the embedded demo menu.
func DemoMenu() ([]models.MenuItemInput, error) {
	return parseMenu(menuYAML)
}

func parseMenu(data []byte) ([]models.MenuItemInput, error) {
	var entries []menuEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse demo menu: %w", err)
	}

	items := make([]models.MenuItemInput, 0, len(entries))
	for _, e := range entries {
		item, err := e.toInput()
		if err != nil {
			return nil, fmt.Errorf("demo menu item %q: %w", e.Name, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (e menuEntry) toInput() (models.MenuItemInput, error) {
	price, err := decimal.NewFromString(e.Price)
	if err != nil {
		return models.MenuItemInput{}, fmt.Errorf("invalid price: %w", err)
	}
	category, err := models.ParseCategory(e.Category)
	if err != nil {
		return models.MenuItemInput{}, err
	}

	in := models.MenuItemInput{
		Name:        e.Name,
		Description: e.Description,
		Price:       price,
		ImageURL:    e.ImageURL,
		Category:    category,
		IsAvailable: e.IsAvailable,
	}
	if e.Options != nil {
		opts := &models.MenuOptions{
			Sides:      e.Options.Sides,
			Drinks:     e.Options.Drinks,
			Removables: e.Options.Removables,
		}
		for _, x := range e.Options.Extras {
			amount, err := decimal.NewFromString(x.AddPrice)
			if err != nil {
				return models.MenuItemInput{}, fmt.Errorf("invalid price for extra %q: %w", x.Label, err)
			}
			opts.Extras = append(opts.Extras, models.PricedOption{Label: x.Label, AddPrice: amount})
		}
		in.Options = opts
	}

	in.Normalize()
	if err := in.Validate(); err != nil {
		return models.MenuItemInput{}, err
	}
	return in, nil
}
