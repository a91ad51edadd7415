package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"savora/db"
	"savora/models"
	"savora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type itemRequest struct {
	ItemID         string            `json:"itemId"`
	Customizations map[string]string `json:"customizations,omitempty"`
}

type syncRequest struct {
	CartData map[string]int `json:"cartData"`
}

// AddToCart increments the composite key's quantity by one.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not Authorized")
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	key := models.CartKey{FoodID: req.ItemID, Customizations: req.Customizations}.Encode()

	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$inc": bson.M{"cart." + key: 1}},
	)
	if err != nil {
		slog.Error("cart add failed", "user", userID, "err", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	respondWithCart(ctx, w, userID, "Added To Cart")
}

// RemoveFromCart decrements the composite key's quantity; the entry is
// deleted once it reaches zero. Absent keys are a no-op.
func RemoveFromCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not Authorized")
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	key := models.CartKey{FoodID: req.ItemID, Customizations: req.Customizations}.Encode()

	// Decrement and delete-at-zero in one pipeline update: a quantity of
	// one removes the field, anything higher is decremented, and an
	// absent key is a no-op. A zero can never be left behind, even
	// partially.
	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		decrementUpdate("cart."+key),
	)
	if err != nil {
		slog.Error("cart remove failed", "user", userID, "err", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove from cart")
		return
	}

	respondWithCart(ctx, w, userID, "Removed From Cart")
}

// decrementUpdate builds the aggregation-pipeline update for a single
// cart line: quantity > 1 is decremented, quantity <= 1 removes the
// field via $$REMOVE, a missing field stays missing.
func decrementUpdate(field string) mongo.Pipeline {
	path := "$" + field
	return mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{{
			Key: field,
			Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$gt", Value: bson.A{path, 1}}},
				bson.D{{Key: "$subtract", Value: bson.A{path, 1}}},
				"$$REMOVE",
			}}},
		}}}},
	}
}

// GetCart returns the current mapping, defaulting to empty.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not Authorized")
		return
	}

	respondWithCart(ctx, w, userID, "")
}

// SyncCart merges a client-held anonymous cart into the server cart on
// login; matching keys are summed, not replaced.
func SyncCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not Authorized")
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	// One $inc document covering every incoming key keeps the merge a
	// single atomic update against the user document. Keys are sanitized
	// first: a raw client key containing '.' or '$' would otherwise nest
	// or reject the update.
	inc := bson.M{}
	for key, qty := range SanitizeIncoming(req.CartData) {
		inc["cart."+key] = qty
	}

	if len(inc) > 0 {
		_, err := db.UserCollection.UpdateOne(ctx,
			bson.M{"userid": userID},
			bson.M{"$inc": inc},
		)
		if err != nil {
			slog.Error("cart sync failed", "user", userID, "err", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to sync cart")
			return
		}
	}

	respondWithCart(ctx, w, userID, "Cart synced successfully")
}

// ClearCart empties the mapping; used after order placement and on logout.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not Authorized")
		return
	}

	if err := Clear(ctx, userID); err != nil {
		slog.Error("cart clear failed", "user", userID, "err", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	respondWithCart(ctx, w, userID, "Cart cleared")
}

// Clear resets a user's cart. The order flow calls this directly after a
// successful placement.
func Clear(ctx context.Context, userID string) error {
	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"cart": bson.M{}}},
	)
	return err
}

func respondWithCart(ctx context.Context, w http.ResponseWriter, userID, message string) {
	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if user.Cart == nil {
		user.Cart = map[string]int{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  message,
		"cartData": user.Cart,
	})
}
