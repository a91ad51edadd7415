package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"savora/db"
	"savora/globals"
	"savora/invoice"
	"savora/models"
	"savora/notify"
	"savora/utils"
)

// UserOrders returns the caller's order history, newest first.
func UserOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	ctx := r.Context()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.OrderCollection.Find(ctx, bson.M{"userid": userID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": orders})
}

// ListOrders returns every order for the admin panel, newest first.
func ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.OrderCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": orders})
}

type statusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// UpdateStatus moves an order along the fulfillment pipeline. Backward
// moves and updates to delivered or completed orders are rejected.
func UpdateStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Order id and status are required")
		return
	}

	ctx := r.Context()
	ord, err := loadOrder(ctx, req.OrderID)
	if errors.Is(err, errOrderNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	if err := CanTransition(ord.Status, req.Status); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, transitionMessage(ord.Status, req.Status, err))
		return
	}

	_, err = db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderid": req.OrderID, "status": ord.Status},
		bson.M{"$set": bson.M{"status": req.Status}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	notify.Emit(ctx, models.OrderEvent{Kind: "status", OrderID: req.OrderID, Status: req.Status})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Status updated"})
}

func transitionMessage(current, next string, err error) string {
	switch {
	case errors.Is(err, ErrUnknownStatus):
		return fmt.Sprintf("Unknown status %q", next)
	case errors.Is(err, ErrTerminalStatus):
		return fmt.Sprintf("Order is already %s", strings.ToLower(current))
	default:
		return fmt.Sprintf("Cannot move order from %s to %s", current, next)
	}
}

// InvoicePDF streams a PDF invoice for an order. Customers can only
// fetch their own.
func InvoicePDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	ctx := r.Context()
	ord, err := loadOrder(ctx, ps.ByName("id"))
	if errors.Is(err, errOrderNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build invoice")
		return
	}

	if ord.UserID != userID && !isAdmin(r) {
		utils.RespondWithError(w, http.StatusForbidden, "Not your order")
		return
	}

	pdf, err := invoice.BuildPDF(*ord)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build invoice")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", ord.OrderID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func isAdmin(r *http.Request) bool {
	roles, _ := r.Context().Value(globals.RoleKey).([]string)
	return slices.Contains(roles, "admin")
}
