package food

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"savora/config"
	"savora/db"
	"savora/models"
	"savora/rdx"
	"savora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const listCacheKey = "foods:list"

func uploadDir() string {
	return filepath.Join(config.Load().UploadDir, "foodpic")
}

// AddFood creates a catalog item from a multipart form. The image is
// required; customizations arrive as a JSON-encoded form field.
func AddFood(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	name := r.FormValue("name")
	description := r.FormValue("description")
	category := r.FormValue("category")
	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Please provide a valid price")
		return
	}
	if len(name) < 2 || len(name) > 100 {
		utils.RespondWithError(w, http.StatusBadRequest, "Food name must be between 2 and 100 characters")
		return
	}
	if !validCategory(category) {
		utils.RespondWithError(w, http.StatusBadRequest, "Please select a valid category")
		return
	}

	var customizations []models.CustomizationGroup
	if raw := r.FormValue("customizations"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &customizations); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid customizations payload")
			return
		}
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Food image is required")
		return
	}
	if !utils.ValidateImageFileType(w, header) {
		return
	}

	filename, err := utils.SaveImageWithThumb(file, header, uploadDir(), 300)
	if err != nil {
		slog.Error("food image save failed", "err", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Unable to save image")
		return
	}

	item := models.FoodItem{
		FoodID:         "f" + utils.GenerateRandomString(10),
		Name:           name,
		Description:    description,
		Price:          price,
		Image:          filename,
		Category:       category,
		InStock:        r.FormValue("inStock") != "false",
		Customizations: customizations,
	}

	if _, err := db.FoodCollection.InsertOne(ctx, item); err != nil {
		utils.DeleteImageWithThumb(uploadDir(), filename)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error")
		return
	}

	invalidateListCache()
	utils.SendResponse(w, http.StatusCreated, item, "Food Added", nil)
}

// ListFood returns the whole catalog, served from Redis when the cache is
// warm.
func ListFood(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if cached, err := rdx.RdxGet(listCacheKey); err == nil && cached != "" {
		var items []models.FoodItem
		if json.Unmarshal([]byte(cached), &items) == nil {
			utils.SendResponse(w, http.StatusOK, items, "", nil)
			return
		}
	}

	cursor, err := db.FoodCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error")
		return
	}
	defer cursor.Close(ctx)

	items := []models.FoodItem{}
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error")
		return
	}

	if data, err := json.Marshal(items); err == nil {
		if err := rdx.SetWithExpiry(listCacheKey, string(data), time.Minute); err != nil {
			slog.Debug("food list cache write failed", "err", err)
		}
	}

	utils.SendResponse(w, http.StatusOK, items, "", nil)
}

// RemoveFood deletes an item along with its stored image.
func RemoveFood(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	var item models.FoodItem
	if err := db.FoodCollection.FindOne(ctx, bson.M{"foodid": req.ID}).Decode(&item); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Food not found")
		return
	}

	if _, err := db.FoodCollection.DeleteOne(ctx, bson.M{"foodid": req.ID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error")
		return
	}

	utils.DeleteImageWithThumb(uploadDir(), item.Image)
	invalidateListCache()
	utils.SendResponse(w, http.StatusOK, nil, "Food Removed", nil)
}

// UpdateFood edits the mutable fields of an item.
func UpdateFood(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Name           *string                     `json:"name"`
		Description    *string                     `json:"description"`
		Price          *float64                    `json:"price"`
		Category       *string                     `json:"category"`
		InStock        *bool                       `json:"inStock"`
		Customizations []models.CustomizationGroup `json:"customizations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	set := bson.M{}
	if req.Name != nil {
		if len(*req.Name) < 2 || len(*req.Name) > 100 {
			utils.RespondWithError(w, http.StatusBadRequest, "Food name must be between 2 and 100 characters")
			return
		}
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Please provide a valid price")
			return
		}
		set["price"] = *req.Price
	}
	if req.Category != nil {
		if !validCategory(*req.Category) {
			utils.RespondWithError(w, http.StatusBadRequest, "Please select a valid category")
			return
		}
		set["category"] = *req.Category
	}
	if req.InStock != nil {
		set["inStock"] = *req.InStock
	}
	if req.Customizations != nil {
		set["customizations"] = req.Customizations
	}
	if len(set) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	res, err := db.FoodCollection.UpdateOne(ctx,
		bson.M{"foodid": ps.ByName("id")},
		bson.M{"$set": set},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Update failed")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Food not found")
		return
	}

	var item models.FoodItem
	if err := db.FoodCollection.FindOne(ctx, bson.M{"foodid": ps.ByName("id")}).Decode(&item); err == nil {
		invalidateListCache()
		utils.SendResponse(w, http.StatusOK, item, "", nil)
		return
	}

	invalidateListCache()
	utils.SendResponse(w, http.StatusOK, nil, "Updated", nil)
}

func validCategory(category string) bool {
	for _, c := range models.Categories {
		if c == category {
			return true
		}
	}
	return false
}

func invalidateListCache() {
	if err := rdx.RdxDel(listCacheKey); err != nil {
		slog.Debug("food list cache invalidation failed", "err", err)
	}
}
