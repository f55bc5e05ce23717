package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amouromar/omba/internal/models"
	"github.com/amouromar/omba/internal/payment"
	"github.com/amouromar/omba/internal/pricing"
	"github.com/amouromar/omba/internal/services"
)

type webhookBookingStore struct {
	confirmed map[string]string
	cancelled []string
}

func (s *webhookBookingStore) Create(ctx context.Context, b *models.Booking) error { return nil }
func (s *webhookBookingStore) ConfirmByPaymentLink(ctx context.Context, linkID, paymentID string) (int64, error) {
	if s.confirmed == nil {
		s.confirmed = make(map[string]string)
	}
	s.confirmed[linkID] = paymentID
	return 1, nil
}
func (s *webhookBookingStore) CancelByPaymentLink(ctx context.Context, linkID string) (int64, error) {
	s.cancelled = append(s.cancelled, linkID)
	return 1, nil
}

func newWebhookFixture(secret string) (*WebhookHandler, *webhookBookingStore) {
	gateway := payment.NewRazorpayGateway("key", "key-secret", secret)
	store := &webhookBookingStore{}
	checkout := services.NewCheckoutService(nil, store, gateway, pricing.NewCalculator(), "", nil)
	return NewWebhookHandler(gateway, checkout), store
}

func signBody(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func TestWebhook_RejectsBadSignature(t *testing.T) {
	handler, store := newWebhookFixture("whsec")
	body := []byte(`{"event":"payment_link.paid","payload":{"payment_link":{"entity":{"id":"plink_1"}}}}`)

	req := httptest.NewRequest("POST", "/api/webhooks/razorpay", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", "deadbeef")
	rec := httptest.NewRecorder()
	handler.HandleRazorpay(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, store.confirmed)
}

func TestWebhook_PaidEventConfirmsBooking(t *testing.T) {
	handler, store := newWebhookFixture("whsec")
	body := []byte(`{"event":"payment_link.paid","payload":{"payment_link":{"entity":{"id":"plink_1"}},"payment":{"entity":{"id":"pay_9"}}}}`)

	req := httptest.NewRequest("POST", "/api/webhooks/razorpay", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", signBody("whsec", body))
	rec := httptest.NewRecorder()
	handler.HandleRazorpay(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pay_9", store.confirmed["plink_1"])
}

func TestWebhook_ExpiredEventCancelsBooking(t *testing.T) {
	handler, store := newWebhookFixture("whsec")
	body := []byte(`{"event":"payment_link.expired","payload":{"payment_link":{"entity":{"id":"plink_2"}}}}`)

	req := httptest.NewRequest("POST", "/api/webhooks/razorpay", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", signBody("whsec", body))
	rec := httptest.NewRecorder()
	handler.HandleRazorpay(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"plink_2"}, store.cancelled)
}

func TestWebhook_IgnoresNonPaymentLinkEvents(t *testing.T) {
	handler, store := newWebhookFixture("whsec")
	body := []byte(`{"event":"order.paid","payload":{"order":{"entity":{"id":"order_1"}}}}`)

	req := httptest.NewRequest("POST", "/api/webhooks/razorpay", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", signBody("whsec", body))
	rec := httptest.NewRecorder()
	handler.HandleRazorpay(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.confirmed)
	assert.Empty(t, store.cancelled)
}

func TestWebhook_MalformedJSON(t *testing.T) {
	handler, _ := newWebhookFixture("whsec")
	body := []byte(`{not json`)

	req := httptest.NewRequest("POST", "/api/webhooks/razorpay", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", signBody("whsec", body))
	rec := httptest.NewRecorder()
	handler.HandleRazorpay(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
