package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway issues Razorpay payment links for booking checkouts.
type RazorpayGateway struct {
	client        *razorpay.Client
	webhookSecret string
}

func NewRazorpayGateway(keyID, keySecret, webhookSecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client:        razorpay.NewClient(keyID, keySecret),
		webhookSecret: webhookSecret,
	}
}

func (g *RazorpayGateway) CreateLink(ctx context.Context, req *LinkRequest) (*Link, error) {
	// Razorpay expects minor currency units
	data := map[string]interface{}{
		"amount":          int64(math.Round(req.Amount * 100)),
		"currency":        req.Currency,
		"description":     req.Description,
		"reference_id":    req.ReferenceID,
		"reminder_enable": false,
		"customer": map[string]interface{}{
			"name":  req.CustomerName,
			"email": req.CustomerEmail,
		},
		"notes": req.Notes,
	}
	if req.CallbackURL != "" {
		data["callback_url"] = req.CallbackURL
		data["callback_method"] = "get"
	}

	link, err := g.client.PaymentLink.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment link: %w", err)
	}

	id, _ := link["id"].(string)
	url, _ := link["short_url"].(string)
	if id == "" || url == "" {
		return nil, fmt.Errorf("payment link response missing id or url")
	}

	return &Link{ID: id, URL: url}, nil
}

func (g *RazorpayGateway) CancelLink(ctx context.Context, linkID string) error {
	if _, err := g.client.PaymentLink.Cancel(linkID, nil, nil); err != nil {
		return fmt.Errorf("failed to cancel payment link %s: %w", linkID, err)
	}
	return nil
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the
// raw webhook body.
func (g *RazorpayGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	if g.webhookSecret == "" {
		return true // Skip verification if not configured
	}

	h := hmac.New(sha256.New, []byte(g.webhookSecret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
