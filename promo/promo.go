package promo

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"savora/db"
	"savora/models"
	"savora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type createRequest struct {
	Code               string    `json:"code"`
	DiscountPercentage int       `json:"discountPercentage"`
	MaxUses            int       `json:"maxUses"`
	ValidUntil         time.Time `json:"validUntil"`
	Description        string    `json:"description"`
}

func CreatePromo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Promo code is required")
		return
	}
	if req.DiscountPercentage < 1 || req.DiscountPercentage > 100 {
		utils.RespondWithError(w, http.StatusBadRequest, "Discount percentage must be between 1 and 100")
		return
	}
	if req.MaxUses < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Max uses must be at least 1")
		return
	}
	if !req.ValidUntil.After(time.Now()) {
		utils.RespondWithError(w, http.StatusBadRequest, "Valid until date must be in the future")
		return
	}

	promo := models.PromoCode{
		Code:               code,
		DiscountPercentage: req.DiscountPercentage,
		MaxUses:            req.MaxUses,
		UsedCount:          0,
		ValidUntil:         req.ValidUntil,
		IsActive:           true,
		Description:        req.Description,
		CreatedAt:          time.Now(),
	}

	if _, err := db.PromoCollection.InsertOne(ctx, promo); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusBadRequest, "Promo code already exists")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.SendResponse(w, http.StatusCreated, promo, "Promo code created successfully", nil)
}

func ListPromos(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.PromoCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer cursor.Close(ctx)

	promos := []models.PromoCode{}
	if err := cursor.All(ctx, &promos); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.SendResponse(w, http.StatusOK, promos, "", nil)
}

// ValidatePromo runs the read-only usability checks. It never increments
// the usage count.
func ValidatePromo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Promo code is required")
		return
	}

	var promo models.PromoCode
	err := db.PromoCollection.FindOne(ctx, bson.M{"code": strings.ToUpper(strings.TrimSpace(req.Code))}).Decode(&promo)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Invalid promo code")
		return
	}

	if err := CheckUsable(promo, time.Now()); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.SendResponse(w, http.StatusOK, map[string]any{
		"code":               promo.Code,
		"discountPercentage": promo.DiscountPercentage,
		"description":        promo.Description,
	}, "Promo code is valid", nil)
}

// ApplyPromo is the HTTP surface over Apply.
func ApplyPromo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Promo code is required")
		return
	}

	promo, err := Apply(ctx, req.Code)
	if err != nil {
		status := http.StatusBadRequest
		if err == ErrNotFound {
			status = http.StatusNotFound
		}
		utils.RespondWithError(w, status, err.Error())
		return
	}

	utils.SendResponse(w, http.StatusOK, map[string]any{
		"code":               promo.Code,
		"discountPercentage": promo.DiscountPercentage,
		"description":        promo.Description,
	}, "Promo code applied successfully", nil)
}

// Apply re-runs every usability check and increments usedCount in a
// single guarded update, so two orders racing at the cap boundary can
// never both redeem the last use.
func Apply(ctx context.Context, code string) (*models.PromoCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	now := time.Now()

	filter := bson.M{
		"code":       code,
		"isActive":   true,
		"validUntil": bson.M{"$gt": now},
		"$expr":      bson.M{"$lt": bson.A{"$usedCount", "$maxUses"}},
	}
	update := bson.M{"$inc": bson.M{"usedCount": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var promo models.PromoCode
	err := db.PromoCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&promo)
	if err == nil {
		return &promo, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	// The guarded update matched nothing; look the code up to report why.
	var existing models.PromoCode
	if err := db.PromoCollection.FindOne(ctx, bson.M{"code": code}).Decode(&existing); err != nil {
		return nil, ErrNotFound
	}
	if err := CheckUsable(existing, now); err != nil {
		return nil, err
	}
	return nil, ErrExhausted
}

// Release returns a use consumed by Apply when the order it was secured
// for could not be persisted, so a failed placement does not burn a use.
func Release(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	_, err := db.PromoCollection.UpdateOne(ctx, releaseFilter(code), releaseUpdate())
	return err
}

// The usedCount floor guard keeps a stray double release from driving
// the counter negative.
func releaseFilter(code string) bson.M {
	return bson.M{"code": code, "usedCount": bson.M{"$gt": 0}}
}

func releaseUpdate() bson.M {
	return bson.M{"$inc": bson.M{"usedCount": -1}}
}

func DeletePromo(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	code := strings.ToUpper(ps.ByName("code"))
	res, err := db.PromoCollection.DeleteOne(ctx, bson.M{"code": code})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Promo code not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Promo code deleted successfully", nil)
}

func TogglePromoStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	code := strings.ToUpper(ps.ByName("code"))
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var promo models.PromoCode
	err := db.PromoCollection.FindOneAndUpdate(ctx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{"isActive": req.IsActive}},
		opts,
	).Decode(&promo)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Promo code not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, promo, "Promo code status updated successfully", nil)
}
