package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/amouromar/omba/internal/payment"
	"github.com/amouromar/omba/internal/services"
	"github.com/amouromar/omba/pkg/utils"
)

type WebhookHandler struct {
	Gateway  *payment.RazorpayGateway
	Checkout *services.CheckoutService
}

func NewWebhookHandler(gateway *payment.RazorpayGateway, checkout *services.CheckoutService) *WebhookHandler {
	return &WebhookHandler{Gateway: gateway, Checkout: checkout}
}

// razorpayWebhookEvent is the slice of the webhook payload we act on.
type razorpayWebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		PaymentLink struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"payment_link"`
		Payment struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleRazorpay processes payment-link lifecycle webhooks. Always answers
// 200 for verified, well-formed deliveries so Razorpay does not retry
// forever; signature failures get 401.
func (h *WebhookHandler) HandleRazorpay(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Could not read body")
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if !h.Gateway.VerifyWebhookSignature(body, signature) {
		log.Printf("[Webhook] rejected delivery with bad signature")
		utils.Error(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var event razorpayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	linkID := event.Payload.PaymentLink.Entity.ID
	if linkID == "" {
		// Not a payment-link event; acknowledge and move on.
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	paymentID := event.Payload.Payment.Entity.ID
	if err := h.Checkout.HandlePaymentEvent(r.Context(), event.Event, linkID, paymentID); err != nil {
		log.Printf("[Webhook] failed to apply %s for link %s: %v", event.Event, linkID, err)
		utils.Error(w, http.StatusInternalServerError, "Processing failed")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
