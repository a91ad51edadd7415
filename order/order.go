package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"savora/cart"
	"savora/config"
	"savora/db"
	"savora/models"
	"savora/notify"
	"savora/pay"
	"savora/promo"
	"savora/utils"
)

// Gateway is the payment client used by the placement and verification
// handlers. Tests swap it for one pointed at a local server.
var Gateway = pay.NewClient()

var validate = validator.New(validator.WithRequiredStructEnabled())

const (
	duplicateWindow = 5 * time.Minute
	idempotencyTTL  = 24 * time.Hour
)

type placeItem struct {
	ItemID         string            `json:"itemId" validate:"required"`
	Quantity       int               `json:"quantity" validate:"required,min=1"`
	Customizations map[string]string `json:"customizations"`
}

type placeRequest struct {
	Items     []placeItem    `json:"items" validate:"required,min=1,dive"`
	Address   models.Address `json:"address"`
	PromoCode string         `json:"promoCode"`
}

// PlaceOrder snapshots the requested items at current catalog prices,
// suppresses duplicate submissions, persists the order as unpaid and
// hands back the gateway's hosted payment page. A gateway failure leaves
// the order saved so payment can be retried.
func PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, placementMessage(err))
		return
	}

	ctx := r.Context()
	cfg := config.Load()

	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idemKey != "" {
		var rec models.IdempotencyRecord
		err := db.IdempotencyCollection.FindOne(ctx, bson.M{"key": idemKey, "user_id": userID}).Decode(&rec)
		if err == nil {
			utils.RespondWithJSON(w, http.StatusOK, rec.Response)
			return
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place order")
			return
		}
	}

	items, err := buildItems(ctx, req.Items)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	promoCode := strings.ToUpper(strings.TrimSpace(req.PromoCode))
	amount := ComputeTotal(items, quotedDiscount(ctx, promoCode), cfg.DeliveryFee)

	dup, err := recentDuplicate(ctx, userID, amount, len(items))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}
	if dup {
		utils.RespondWithError(w, http.StatusConflict, "Duplicate order detected, please wait a few minutes before reordering")
		return
	}

	// Secure a promo use now so the stored amount reflects the discount the
	// order actually got. Losing the race downgrades to full price.
	discountPct := 0
	if promoCode != "" {
		applied, err := promo.Apply(ctx, promoCode)
		if err != nil {
			slog.Warn("promo not applied", "code", promoCode, "userId", userID, "error", err)
			promoCode = ""
		} else {
			discountPct = applied.DiscountPercentage
		}
		amount = ComputeTotal(items, discountPct, cfg.DeliveryFee)
	}

	ord := models.Order{
		OrderID:        utils.GetUUID(),
		UserID:         userID,
		Items:          items,
		Amount:         amount,
		Address:        req.Address,
		PromoCode:      promoCode,
		Payment:        false,
		Status:         StatusPlaced,
		IdempotencyKey: idemKey,
		CreatedAt:      time.Now(),
	}
	if _, err := db.OrderCollection.InsertOne(ctx, ord); err != nil {
		// A non-empty promoCode means Apply consumed a use for an order
		// that now does not exist; give it back.
		if promoCode != "" {
			if relErr := promo.Release(ctx, promoCode); relErr != nil {
				slog.Warn("promo use not released", "code", promoCode, "error", relErr)
			}
		}
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "Order already placed")
			return
		}
		slog.Error("order insert failed", "userId", userID, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}

	if err := cart.Clear(ctx, userID); err != nil {
		slog.Warn("cart not cleared after order", "userId", userID, "error", err)
	}
	notify.Emit(ctx, models.OrderEvent{Kind: "placed", OrderID: ord.OrderID, Status: ord.Status})

	init, err := Gateway.Initialize(ctx, pay.InitRequest{
		AmountMinor: int64(math.Round(amount * 100)),
		Email:       req.Address.Email,
		CallbackURL: cfg.FrontendURL + "/verify",
		OrderID:     ord.OrderID,
	})
	if err != nil {
		slog.Error("payment initiation failed", "orderId", ord.OrderID, "error", err)
		utils.RespondWithError(w, http.StatusBadGateway, "Unable to initiate payment, your order was saved")
		return
	}

	if _, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderid": ord.OrderID},
		bson.M{"$set": bson.M{"reference": init.Reference}},
	); err != nil {
		slog.Warn("reference not recorded", "orderId", ord.OrderID, "error", err)
	}

	response := utils.M{
		"success":          true,
		"message":          "Order placed",
		"orderId":          ord.OrderID,
		"amount":           amount,
		"authorizationUrl": init.AuthorizationURL,
		"reference":        init.Reference,
	}
	if idemKey != "" {
		rememberResponse(ctx, idemKey, userID, response)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func placementMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid order payload"
	}
	field := verrs[0]
	switch field.StructNamespace() {
	case "placeRequest.Items":
		return "Order must contain at least one item"
	case "placeRequest.Address.Email":
		return "A valid delivery email is required"
	}
	if strings.HasPrefix(field.StructNamespace(), "placeRequest.Address") {
		return "Delivery address is incomplete"
	}
	return "Invalid order payload"
}

// quotedDiscount is the percentage a usable promo would grant, used only
// to price the duplicate-window comparison. It consumes nothing.
func quotedDiscount(ctx context.Context, code string) int {
	if code == "" {
		return 0
	}
	var p models.PromoCode
	if err := db.PromoCollection.FindOne(ctx, bson.M{"code": code}).Decode(&p); err != nil {
		return 0
	}
	if promo.CheckUsable(p, time.Now()) != nil {
		return 0
	}
	return p.DiscountPercentage
}

func buildItems(ctx context.Context, reqItems []placeItem) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(reqItems))
	for _, ri := range reqItems {
		var food models.FoodItem
		err := db.FoodCollection.FindOne(ctx, bson.M{"foodid": ri.ItemID}).Decode(&food)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("item %s is no longer on the menu", ri.ItemID)
		}
		if err != nil {
			return nil, fmt.Errorf("load item %s: %w", ri.ItemID, err)
		}
		if !food.InStock {
			return nil, fmt.Errorf("%s is currently unavailable", food.Name)
		}
		unit, err := UnitPrice(food, ri.Customizations)
		if err != nil {
			return nil, err
		}
		items = append(items, models.OrderItem{
			Name:           food.Name,
			Price:          unit,
			Quantity:       ri.Quantity,
			Customizations: ri.Customizations,
		})
	}
	return items, nil
}

func recentDuplicate(ctx context.Context, userID string, amount float64, itemCount int) (bool, error) {
	filter := bson.M{
		"userid":    userID,
		"amount":    amount,
		"items":     bson.M{"$size": itemCount},
		"createdAt": bson.M{"$gte": time.Now().Add(-duplicateWindow)},
	}
	err := db.OrderCollection.FindOne(ctx, filter).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

func rememberResponse(ctx context.Context, key, userID string, response utils.M) {
	now := time.Now()
	_, err := db.IdempotencyCollection.InsertOne(ctx, models.IdempotencyRecord{
		Key:       key,
		Method:    http.MethodPost,
		Path:      "/api/order/place",
		UserID:    userID,
		Response:  response,
		CreatedAt: now,
		ExpiresAt: now.Add(idempotencyTTL),
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		slog.Warn("idempotency record not saved", "key", key, "error", err)
	}
}
