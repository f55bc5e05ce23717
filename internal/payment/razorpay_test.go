package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func TestVerifyWebhookSignature_Valid(t *testing.T) {
	g := NewRazorpayGateway("key", "secret", "whsec")
	body := []byte(`{"event":"payment_link.paid"}`)

	assert.True(t, g.VerifyWebhookSignature(body, sign("whsec", body)))
}

func TestVerifyWebhookSignature_WrongSecret(t *testing.T) {
	g := NewRazorpayGateway("key", "secret", "whsec")
	body := []byte(`{"event":"payment_link.paid"}`)

	assert.False(t, g.VerifyWebhookSignature(body, sign("other", body)))
}

func TestVerifyWebhookSignature_TamperedBody(t *testing.T) {
	g := NewRazorpayGateway("key", "secret", "whsec")
	body := []byte(`{"event":"payment_link.paid"}`)
	sig := sign("whsec", body)

	tampered := []byte(`{"event":"payment_link.expired"}`)
	assert.False(t, g.VerifyWebhookSignature(tampered, sig))
}

func TestVerifyWebhookSignature_SkipsWhenUnconfigured(t *testing.T) {
	g := NewRazorpayGateway("key", "secret", "")
	assert.True(t, g.VerifyWebhookSignature([]byte("anything"), "whatever"))
}
