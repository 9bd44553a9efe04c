// Package api is the single HTTP client the CLI uses to talk to the
// SermonMate REST backend.
//
// Every request goes through the same hooks: the bearer token from the token
// store is attached, the request is logged at debug level with password fields
// redacted, and any 401 response purges the stored token and publishes a
// session-ended event. The client has a fixed timeout and never retries.
//
// Transport and status failures are mapped once (see mapStatus and
// mapTransport) onto the sentinels in errors.go; callers match them with
// errors.Is and render them with Message.
package api
