package models

import (
	jwt "github.com/golang-jwt/jwt/v4"
)

// Claims is the payload carried by a session credential: the subject
// identity plus the registered issue/expiry times.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the authenticated identity injected into the request
// context after a successful session evaluation.
type Identity struct {
	UserID UserID
	Email  string
}
