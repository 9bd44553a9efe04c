// Package common contains constants and small helpers shared by the client
// and the webhook service.
package common

const (
	// AuthorizationHeaderName carries the bearer token on API requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the session token in AuthorizationHeaderName.
	BearerPrefix = "Bearer "

	// AuthTokenKey is the single secure-storage key holding the session token.
	AuthTokenKey = "auth_token"

	// ThemeKey is the local storage key for the light/dark preference.
	ThemeKey = "@app_theme"

	// RequestIDHeaderName is echoed by the webhook service on every response.
	RequestIDHeaderName = "X-Request-ID"
)
