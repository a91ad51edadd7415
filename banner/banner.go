package banner

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"savora/config"
	"savora/db"
	"savora/models"
	"savora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func uploadDir() string {
	return filepath.Join(config.Load().UploadDir, "bannerpic")
}

// CreateBanner stores a promotional banner. The image is mandatory.
func CreateBanner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	title := r.FormValue("title")
	if title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Banner title is required")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Banner image is required")
		return
	}
	if !utils.ValidateImageFileType(w, header) {
		return
	}

	filename, err := utils.SaveImageWithThumb(file, header, uploadDir(), 600)
	if err != nil {
		slog.Error("banner image save failed", "err", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Unable to save image")
		return
	}

	banner := models.Banner{
		BannerID:  "b" + utils.GenerateRandomString(10),
		Title:     title,
		Subtitle:  r.FormValue("subtitle"),
		Image:     filename,
		Link:      r.FormValue("link"),
		IsActive:  r.FormValue("isActive") != "false",
		CreatedAt: time.Now(),
	}

	if _, err := db.BannerCollection.InsertOne(ctx, banner); err != nil {
		utils.DeleteImageWithThumb(uploadDir(), filename)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.SendResponse(w, http.StatusCreated, banner, "Banner created successfully", nil)
}

func ListBanners(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	listBanners(w, r, bson.M{})
}

// ActiveBanners serves the storefront carousel.
func ActiveBanners(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	listBanners(w, r, bson.M{"isActive": true})
}

func listBanners(w http.ResponseWriter, r *http.Request, filter bson.M) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.BannerCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer cursor.Close(ctx)

	banners := []models.Banner{}
	if err := cursor.All(ctx, &banners); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.SendResponse(w, http.StatusOK, banners, "", nil)
}

// DeleteBanner removes the record and its stored image file.
func DeleteBanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := ps.ByName("id")

	var banner models.Banner
	if err := db.BannerCollection.FindOne(ctx, bson.M{"bannerid": id}).Decode(&banner); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Banner not found")
		return
	}

	if _, err := db.BannerCollection.DeleteOne(ctx, bson.M{"bannerid": id}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.DeleteImageWithThumb(uploadDir(), banner.Image)
	utils.SendResponse(w, http.StatusOK, nil, "Banner deleted successfully", nil)
}

// UpdateBanner edits banner fields; a replacement image deletes the
// previously stored file.
func UpdateBanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := ps.ByName("id")

	var existing models.Banner
	if err := db.BannerCollection.FindOne(ctx, bson.M{"bannerid": id}).Decode(&existing); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Banner not found")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	set := bson.M{}
	if v := r.FormValue("title"); v != "" {
		set["title"] = v
	}
	if v := r.FormValue("subtitle"); v != "" {
		set["subtitle"] = v
	}
	if v := r.FormValue("link"); v != "" {
		set["link"] = v
	}
	if v := r.FormValue("isActive"); v != "" {
		set["isActive"] = v == "true"
	}

	var replacedImage string
	if file, header, err := r.FormFile("image"); err == nil {
		if !utils.ValidateImageFileType(w, header) {
			return
		}
		filename, err := utils.SaveImageWithThumb(file, header, uploadDir(), 600)
		if err != nil {
			slog.Error("banner image save failed", "err", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Unable to save image")
			return
		}
		set["image"] = filename
		replacedImage = existing.Image
	}

	if len(set) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Banner
	err := db.BannerCollection.FindOneAndUpdate(ctx,
		bson.M{"bannerid": id},
		bson.M{"$set": set},
		opts,
	).Decode(&updated)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if replacedImage != "" {
		utils.DeleteImageWithThumb(uploadDir(), replacedImage)
	}

	utils.SendResponse(w, http.StatusOK, updated, "Banner updated successfully", nil)
}

// ToggleBannerStatus flips the active flag.
func ToggleBannerStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Banner
	err := db.BannerCollection.FindOneAndUpdate(ctx,
		bson.M{"bannerid": ps.ByName("id")},
		bson.M{"$set": bson.M{"isActive": req.IsActive}},
		opts,
	).Decode(&updated)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Banner not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, updated, "Banner status updated successfully", nil)
}
