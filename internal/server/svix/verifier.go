// Package svix verifies Clerk webhook deliveries. Clerk signs with the Svix
// scheme, so verification is delegated to the Svix SDK; this package pins
// the header names and turns every SDK failure into ErrVerification.
package svix

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	svixsdk "github.com/svix/svix-webhooks/go"
)

const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

var ErrVerification = errors.New("webhook verification failed")

// Verifier checks Clerk webhook signatures.
type Verifier struct {
	wh *svixsdk.Webhook
}

// NewVerifier builds a verifier for a "whsec_" secret.
func NewVerifier(secret string) (*Verifier, error) {
	wh, err := svixsdk.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to decode webhook secret: %w", err)
	}
	return &Verifier{wh: wh}, nil
}

// Verify checks the signature headers against payload and returns the
// message id. Timestamps more than five minutes off are rejected.
func (v *Verifier) Verify(payload []byte, h http.Header) (string, error) {
	if err := v.wh.Verify(payload, h); err != nil {
		return "", fmt.Errorf("%w: %w", ErrVerification, err)
	}
	return h.Get(HeaderID), nil
}

// Sign produces the "v1,<base64>" signature header value for a message.
func (v *Verifier) Sign(id string, timestamp time.Time, payload []byte) (string, error) {
	return v.wh.Sign(id, timestamp, payload)
}
