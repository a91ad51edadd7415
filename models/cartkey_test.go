package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartKeyEncodePlainItem(t *testing.T) {
	key := CartKey{FoodID: "f123"}
	assert.Equal(t, "f123", key.Encode())
}

func TestCartKeyEncodeStableAcrossMapOrder(t *testing.T) {
	a := CartKey{
		FoodID: "f123",
		Customizations: map[string]string{
			"Size":     "Large",
			"Toppings": "Olives",
			"Crust":    "Thin",
		},
	}
	b := CartKey{
		FoodID: "f123",
		Customizations: map[string]string{
			"Crust":    "Thin",
			"Toppings": "Olives",
			"Size":     "Large",
		},
	}

	want := "f123|Crust=Thin;Size=Large;Toppings=Olives"
	assert.Equal(t, want, a.Encode())
	assert.Equal(t, want, b.Encode())
}

func TestCartKeyEncodeDistinguishesSelections(t *testing.T) {
	plain := CartKey{FoodID: "f123"}
	large := CartKey{FoodID: "f123", Customizations: map[string]string{"Size": "Large"}}
	small := CartKey{FoodID: "f123", Customizations: map[string]string{"Size": "Small"}}

	assert.NotEqual(t, plain.Encode(), large.Encode())
	assert.NotEqual(t, large.Encode(), small.Encode())
}

func TestCartKeyEncodeSanitizesFieldName(t *testing.T) {
	key := CartKey{
		FoodID:         "f.1",
		Customizations: map[string]string{"Extra": "B.B.Q $auce"},
	}
	encoded := key.Encode()
	assert.NotContains(t, encoded, ".")
	assert.NotContains(t, encoded, "$")
	assert.Equal(t, "f_1|Extra=B_B_Q _auce", encoded)
}

func TestSanitizeCartKey(t *testing.T) {
	assert.Equal(t, "f1_x", SanitizeCartKey("f1.x"))
	assert.Equal(t, "_where", SanitizeCartKey("$where"))
	assert.Equal(t, "f2|Size=Large", SanitizeCartKey("f2|Size=Large"))
}
