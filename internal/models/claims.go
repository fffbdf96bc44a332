package models

import "github.com/golang-jwt/jwt/v5"

// ContextKey is the type for values this server stores on a request context.
type ContextKey string

const (
	// UserContextKey holds the authenticated principal's id (string).
	UserContextKey ContextKey = "user_id"
)

// Claims is the verified content of a bearer token. The server treats
// the principal as opaque; only its presence gates the API.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}
