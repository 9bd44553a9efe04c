package models

import "encoding/json"

// CreditPackage is a server-defined bundle of AI conversation sessions.
type CreditPackage struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	SessionsCount int     `json:"sessions_count"`
	PriceUSD      float64 `json:"price_usd"`
	IsActive      bool    `json:"is_active"`
}

// PaymentIntent is the backend's answer to /payments/initialize. The payload
// is handed to an external payment UI untouched.
type PaymentIntent struct {
	PackageID int64
	Payload   json.RawMessage
}

// Purchase is the outcome of the purchase flow. Simulated is always true
// until a payment gateway confirms captures server-side.
type Purchase struct {
	Intent       PaymentIntent
	Package      CreditPackage
	CreditsAfter int
	Simulated    bool
}
