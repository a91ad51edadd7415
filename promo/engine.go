package promo

import (
	"errors"
	"time"

	"savora/models"
)

var (
	ErrNotFound  = errors.New("promo code not found")
	ErrInactive  = errors.New("promo code inactive")
	ErrExpired   = errors.New("promo code has expired")
	ErrExhausted = errors.New("promo code has reached maximum uses")
)

// CheckUsable reports whether a code can still be redeemed at the given
// instant. It performs no writes.
func CheckUsable(p models.PromoCode, now time.Time) error {
	if !p.IsActive {
		return ErrInactive
	}
	if now.After(p.ValidUntil) {
		return ErrExpired
	}
	if p.UsedCount >= p.MaxUses {
		return ErrExhausted
	}
	return nil
}

// DiscountAmount computes the absolute discount for a pre-delivery-fee
// subtotal.
func DiscountAmount(subtotal float64, discountPercentage int) float64 {
	if subtotal <= 0 || discountPercentage <= 0 {
		return 0
	}
	return subtotal * float64(discountPercentage) / 100
}
