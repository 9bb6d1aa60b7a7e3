package cloud

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
)

const nonceLen = 8

// sign is the platform's request signature: base64(HMAC-SHA256(secret, message)).
func sign(secret string, message []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// newNonce returns an 8 character alphanumeric nonce.
func newNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:nonceLen]
}
