package cart

import "savora/models"

// Pure cart arithmetic. The handlers apply the same semantics against the
// persisted user document with filtered atomic updates; these functions
// exist so the rules are testable on their own.

// Add increments the quantity for key, starting at 1 on first add.
func Add(cart map[string]int, key string) map[string]int {
	if cart == nil {
		cart = map[string]int{}
	}
	cart[key]++
	return cart
}

// Remove decrements the quantity for key and deletes the entry once it
// reaches zero. Absent or zero keys are a no-op, not an error.
func Remove(cart map[string]int, key string) map[string]int {
	if cart == nil {
		return map[string]int{}
	}
	if cart[key] > 0 {
		cart[key]--
	}
	if cart[key] <= 0 {
		delete(cart, key)
	}
	return cart
}

// SanitizeIncoming normalizes a client-held cart before it touches the
// database: non-positive quantities are dropped and every key is passed
// through the cart key sanitizer so it is a legal Mongo field name.
// Keys that collide after sanitizing are summed.
func SanitizeIncoming(incoming map[string]int) map[string]int {
	clean := make(map[string]int, len(incoming))
	for key, qty := range incoming {
		if qty <= 0 {
			continue
		}
		clean[models.SanitizeCartKey(key)] += qty
	}
	return clean
}

// Merge folds an incoming (client-held) cart into the server cart,
// summing quantities for matching keys. Non-positive incoming entries are
// ignored so a zero quantity can never be stored.
func Merge(server, incoming map[string]int) map[string]int {
	if server == nil {
		server = map[string]int{}
	}
	for key, qty := range incoming {
		if qty <= 0 {
			continue
		}
		server[key] += qty
	}
	return server
}
