package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"savora/models"
)

func pizzaItem() models.FoodItem {
	return models.FoodItem{
		FoodID: "f1",
		Name:   "Veg Pizza",
		Price:  30,
		Customizations: []models.CustomizationGroup{
			{
				Name: "Size",
				Options: []models.CustomizationOption{
					{Name: "Regular", Price: 0},
					{Name: "Large", Price: 8},
				},
			},
			{
				Name: "Crust",
				Options: []models.CustomizationOption{
					{Name: "Thin", Price: 0},
					{Name: "Stuffed", Price: 5},
				},
			},
		},
	}
}

func TestUnitPriceAddsOptionDeltas(t *testing.T) {
	price, err := UnitPrice(pizzaItem(), map[string]string{"Size": "Large", "Crust": "Stuffed"})
	assert.NoError(t, err)
	assert.InDelta(t, 43.0, price, 1e-9)
}

func TestUnitPriceWithoutCustomizations(t *testing.T) {
	price, err := UnitPrice(pizzaItem(), nil)
	assert.NoError(t, err)
	assert.InDelta(t, 30.0, price, 1e-9)
}

func TestUnitPriceRejectsUnknownSelections(t *testing.T) {
	_, err := UnitPrice(pizzaItem(), map[string]string{"Size": "Jumbo"})
	assert.Error(t, err)

	_, err = UnitPrice(pizzaItem(), map[string]string{"Spice": "Hot"})
	assert.Error(t, err)
}

func TestComputeTotalInvariant(t *testing.T) {
	items := []models.OrderItem{
		{Name: "Veg Pizza", Price: 38, Quantity: 2},
		{Name: "Greek Salad", Price: 12, Quantity: 1},
	}

	// subtotal 88, 20% off = 17.6, plus 5 delivery
	assert.InDelta(t, 75.4, ComputeTotal(items, 20, 5), 1e-9)

	// no discount
	assert.InDelta(t, 93.0, ComputeTotal(items, 0, 5), 1e-9)

	// the delivery fee is never discounted
	assert.InDelta(t, 5.0, ComputeTotal(nil, 50, 5), 1e-9)
}

func TestSubtotal(t *testing.T) {
	items := []models.OrderItem{
		{Price: 10.5, Quantity: 2},
		{Price: 7, Quantity: 3},
	}
	assert.InDelta(t, 42.0, Subtotal(items), 1e-9)
	assert.Zero(t, Subtotal(nil))
}
