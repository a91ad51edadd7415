package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"savora/models"
)

func sampleOrder() models.Order {
	return models.Order{
		OrderID: "a1b2c3d4-e5f6",
		Amount:  75.4,
		Address: models.Address{
			Name:     "Ama Mensah",
			Email:    "ama@example.com",
			Phone:    "0244000000",
			Location: "12 Ring Road, Accra",
		},
		Items: []models.OrderItem{
			{Name: "Veg Pizza", Price: 38, Quantity: 2},
			{Name: "Greek Salad", Price: 12, Quantity: 1},
		},
		PromoCode: "SAVE20",
		CreatedAt: time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC),
	}
}

func TestInvoiceHTML(t *testing.T) {
	html := invoiceHTML(sampleOrder())

	assert.Contains(t, html, "Veg Pizza")
	assert.Contains(t, html, "Greek Salad")
	assert.Contains(t, html, "GHS 76.00") // 38 x 2 line total
	assert.Contains(t, html, "GHS 75.40")
	assert.Contains(t, html, "SAVE20")
	assert.Contains(t, html, "ama@example.com")
	assert.Contains(t, html, "14 Mar 2026")
}

func TestInvoiceHTMLOmitsEmptyPromoLine(t *testing.T) {
	order := sampleOrder()
	order.PromoCode = ""

	assert.NotContains(t, invoiceHTML(order), "Promo Code")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "D4E5F6", shortID("a1b2c3d4-e5f6"))
	assert.Equal(t, "AB12", shortID("ab12"))
}
