package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/YiFeiChang/Smart-Farm-Steward/internal/gateway"
)

// signatureHeader carries the base64-encoded HMAC-SHA256 of the raw
// request body, keyed with the channel secret.
const signatureHeader = "X-Line-Signature"

var errBadSignature = errors.New("line: signature mismatch")

// SignatureValidator returns a gateway validator for the channel secret.
func SignatureValidator(channelSecret string) gateway.SignatureValidator {
	return func(body []byte, headers http.Header) error {
		sig := headers.Get(signatureHeader)
		if sig == "" {
			return errors.New("line: missing " + signatureHeader + " header")
		}

		mac := hmac.New(sha256.New, []byte(channelSecret))
		mac.Write(body)
		expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(expected), []byte(sig)) {
			return errBadSignature
		}
		return nil
	}
}
