// Package webhook verifies provider webhook deliveries.
//
// Deliveries are signed svix-style: an HMAC-SHA256 over
// "{message-id}.{timestamp}.{body}" keyed with the base64 part of the
// "whsec_..." shared secret, compared against the space-separated
// "v1,<base64>" components of the signature header.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrSignatureMismatch is returned when no component of the signature header
// matches the computed HMAC. Other Verify errors indicate unusable key
// material rather than a bad delivery.
var ErrSignatureMismatch = errors.New("signature mismatch")

// Signature carries the verification inputs taken from request headers.
type Signature struct {
	MsgID     string // svix-msg-id
	Timestamp string // svix-timestamp
	Header    string // svix-signature, possibly multiple space-separated entries
}

// Complete returns true if every header needed for verification is present.
// Verification is skipped entirely when any input is missing, so the caller
// decides what an incomplete signature means.
func (s Signature) Complete() bool {
	return s.MsgID != "" && s.Timestamp != "" && s.Header != ""
}

// Verify checks the delivery signature against the shared secret. It returns
// nil when any component of the signature header matches the computed HMAC.
func Verify(secret string, sig Signature, body []byte) error {
	key, err := secretBytes(secret)
	if err != nil {
		return err
	}

	signedContent := fmt.Sprintf("%s.%s.%s", sig.MsgID, sig.Timestamp, body)
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(signedContent))
	expected := "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, candidate := range strings.Split(sig.Header, " ") {
		if hmac.Equal([]byte(candidate), []byte(expected)) {
			return nil
		}
	}
	return fmt.Errorf("message %s: %w", sig.MsgID, ErrSignatureMismatch)
}

// secretBytes decodes the key material from a "whsec_<base64>" secret.
func secretBytes(secret string) ([]byte, error) {
	_, encoded, found := strings.Cut(secret, "_")
	if !found {
		return nil, fmt.Errorf("webhook secret is not in whsec_ format")
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("webhook secret is not valid base64: %w", err)
	}
	return key, nil
}
