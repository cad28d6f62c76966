// Package common contains constants and sentinel errors shared by the client
// and the development API server.
package common

const (
	// AuthorizationHeaderName carries "Bearer <token>" on authenticated calls.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the access token in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName correlates a client request with server logs.
	RequestIDHeaderName = "X-Request-ID"

	// SessionTokenKey is the persisted-storage key holding the access token.
	SessionTokenKey = "token"

	// SessionSavedAtKey records when the token was persisted (RFC 3339).
	SessionSavedAtKey = "token_saved_at"
)
