package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savora/models"
)

func TestBuildPDF(t *testing.T) {
	order := models.Order{
		OrderID: "order-77",
		Amount:  48,
		Payment: true,
		Address: models.Address{
			Name:     "Kofi Boateng",
			Email:    "kofi@example.com",
			Phone:    "0200000000",
			Location: "Osu, Accra",
		},
		Items: []models.OrderItem{
			{Name: "Chicken Rolls", Price: 21.5, Quantity: 2},
		},
		CreatedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}

	pdf, err := BuildPDF(order)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestBuildPDFUnpaidOrder(t *testing.T) {
	order := models.Order{
		OrderID:   "order-78",
		Amount:    10,
		Address:   models.Address{Name: "Ama", Email: "ama@example.com"},
		Items:     []models.OrderItem{{Name: "Cake", Price: 10, Quantity: 1}},
		CreatedAt: time.Now(),
	}

	pdf, err := BuildPDF(order)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
