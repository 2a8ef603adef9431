package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"testing"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestSignatureValidator_Accepts(t *testing.T) {
	t.Parallel()

	secret := "test-channel-secret"
	body := []byte(`{"events":[]}`)

	headers := http.Header{}
	headers.Set(signatureHeader, sign(secret, body))

	if err := SignatureValidator(secret)(body, headers); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
}

func TestSignatureValidator_Rejects(t *testing.T) {
	t.Parallel()

	secret := "test-channel-secret"
	body := []byte(`{"events":[]}`)

	tests := []struct {
		name string
		sig  string
	}{
		{"missing header", ""},
		{"wrong secret", sign("other-secret", body)},
		{"tampered body", sign(secret, []byte(`{"events":[{}]}`))},
		{"garbage", "not-base64!!"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			headers := http.Header{}
			if tt.sig != "" {
				headers.Set(signatureHeader, tt.sig)
			}

			if err := SignatureValidator(secret)(body, headers); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}
