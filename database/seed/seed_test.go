package seed

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/burgerhouse/models"
)

func TestDemoMenu(t *testing.T) {
	items, err := DemoMenu()
	require.NoError(t, err)
	require.Len(t, items, 3)

	burger := items[0]
	assert.Equal(t, "Classic Beef Burger", burger.Name)
	assert.Equal(t, models.CategoryBurgers, burger.Category)
	assert.True(t, decimal.NewFromInt(89).Equal(burger.Price))
	require.NotNil(t, burger.Options)

	cheese, ok := burger.Options.Extra("cheese")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(10).Equal(cheese.AddPrice))
	assert.Len(t, burger.Options.Removables, 2)

	assert.Nil(t, items[2].Options)
}

func TestParseMenuRejectsBadEntries(t *testing.T) {
	_, err := parseMenu([]byte(`- {name: Cake, description: d, price: "10", imageUrl: x, category: Desserts}`))
	assert.Error(t, err)

	_, err = parseMenu([]byte(`- {name: Tea, description: d, price: "free", imageUrl: x, category: Beverages}`))
	assert.Error(t, err)

	_, err = parseMenu([]byte(`- {name: Tea, description: d, price: "0", imageUrl: x, category: Beverages}`))
	assert.Error(t, err)
}
