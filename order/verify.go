package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"savora/config"
	"savora/db"
	"savora/models"
	"savora/notify"
	"savora/pay"
	"savora/utils"
)

const maxWebhookBody = 1 << 20

type verifyRequest struct {
	Reference string `json:"reference"`
}

// VerifyOrder confirms a payment with the gateway after the customer
// returns from the hosted page. The paid flag only flips once no matter
// how many times the same reference is verified.
func VerifyOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Reference) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Transaction reference is required")
		return
	}

	ctx := r.Context()
	txn, err := Gateway.Verify(ctx, strings.TrimSpace(req.Reference))
	if err != nil {
		slog.Error("payment verification failed", "reference", req.Reference, "error", err)
		utils.RespondWithError(w, http.StatusBadGateway, "Payment verification failed")
		return
	}
	if txn.Status != "success" {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"success": false,
			"message": "Payment not completed",
		})
		return
	}

	orderID, err := resolveOrderID(ctx, txn)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "No order found for this transaction")
		return
	}
	if err := settle(ctx, orderID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record payment")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Payment verified",
		"orderId": orderID,
	})
}

// Webhook handles the gateway's asynchronous charge notifications. The
// raw body is authenticated with HMAC-SHA512 before any parsing.
func Webhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unreadable request body")
		return
	}
	signature := r.Header.Get("x-paystack-signature")
	if !pay.VerifyWebhookSignature(config.Load().PaystackSecret, body, signature) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	event, err := pay.ParseWebhookEvent(body)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid event payload")
		return
	}

	ctx := r.Context()
	if event.Event == "charge.success" {
		orderID, err := resolveOrderID(ctx, &event.Data)
		if err != nil {
			slog.Warn("webhook for unknown order", "reference", event.Data.Reference)
		} else if err := settle(ctx, orderID); err != nil {
			slog.Error("webhook settlement failed", "orderId", orderID, "error", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record payment")
			return
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"received": true})
}

// resolveOrderID prefers the order id the transaction metadata carries
// and falls back to the stored reference.
func resolveOrderID(ctx context.Context, txn *pay.Transaction) (string, error) {
	if txn.Metadata.OrderID != "" {
		return txn.Metadata.OrderID, nil
	}
	var ord models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"reference": txn.Reference}).Decode(&ord)
	if err != nil {
		return "", err
	}
	return ord.OrderID, nil
}

// paymentLedger flips an order's paid flag, reporting whether this call
// was the one that flipped it.
type paymentLedger interface {
	MarkPaid(ctx context.Context, orderID string) (bool, error)
}

// mongoLedger updates the order document with the payment:false guard in
// the filter, so only the first caller sees a modified document.
type mongoLedger struct{}

func (mongoLedger) MarkPaid(ctx context.Context, orderID string) (bool, error) {
	res, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderid": orderID, "payment": false},
		bson.M{"$set": bson.M{"payment": true}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

var (
	ledger    paymentLedger = mongoLedger{}
	emitEvent               = notify.Emit
)

// settle flips the paid flag and emits the paid event exactly once. A
// later call for the same order matches nothing and emits nothing, so
// dual delivery through the redirect callback and the webhook produces
// a single invoice.
func settle(ctx context.Context, orderID string) error {
	flipped, err := ledger.MarkPaid(ctx, orderID)
	if err != nil {
		return err
	}
	if flipped {
		emitEvent(ctx, models.OrderEvent{Kind: "paid", OrderID: orderID})
	}
	return nil
}

var errOrderNotFound = errors.New("order not found")

func loadOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var ord models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&ord)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ord, nil
}
