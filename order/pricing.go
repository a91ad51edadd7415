package order

import (
	"fmt"

	"savora/models"
)

// UnitPrice is the base price of a food item plus the deltas of the chosen
// customization options. Every chosen group and option must exist on the
// item.
func UnitPrice(item models.FoodItem, chosen map[string]string) (float64, error) {
	price := item.Price
	for group, option := range chosen {
		delta, err := optionDelta(item, group, option)
		if err != nil {
			return 0, err
		}
		price += delta
	}
	return price, nil
}

func optionDelta(item models.FoodItem, group, option string) (float64, error) {
	for _, g := range item.Customizations {
		if g.Name != group {
			continue
		}
		for _, o := range g.Options {
			if o.Name == option {
				return o.Price, nil
			}
		}
		return 0, fmt.Errorf("unknown option %q in group %q for %s", option, group, item.Name)
	}
	return 0, fmt.Errorf("unknown customization group %q for %s", group, item.Name)
}

// Subtotal sums the snapshotted line items.
func Subtotal(items []models.OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// ComputeTotal applies a percentage discount to the subtotal and adds the
// delivery fee. The fee is never discounted.
func ComputeTotal(items []models.OrderItem, discountPct int, deliveryFee float64) float64 {
	subtotal := Subtotal(items)
	discount := subtotal * float64(discountPct) / 100
	return subtotal - discount + deliveryFee
}
