package auth

import (
	"bytes"
	"encoding/base64"
	"image/png"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "Omba"

// TOTPSetup is returned when an admin starts enrolling a second factor.
type TOTPSetup struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qr_code"` // data:image/png;base64,...
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}

// GenerateTOTPSetup creates a fresh TOTP secret and QR code for enrollment.
// The secret is not active until the first code is verified.
func GenerateTOTPSetup(email string) (*TOTPSetup, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	qrImage, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrImage); err != nil {
		return nil, err
	}

	return &TOTPSetup{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Issuer:      totpIssuer,
		AccountName: email,
	}, nil
}

// ValidateTOTPCode checks a six-digit code against the stored secret.
func ValidateTOTPCode(secret, code string) bool {
	return totp.Validate(code, secret)
}
