// Package auth parses Authorization headers, issues bearer tokens and
// hashes passwords.
package auth

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/taskboard/internal/common"
)

const bearerPrefix = "Bearer "

// ParseBearer extracts the token from an Authorization header value.
//
//	ParseBearer("")           // common.ErrNoAuthentication
//	ParseBearer("ola")        // common.ErrInvalidAuthHeader
//	ParseBearer("Bearer ola") // "ola", nil
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", common.ErrNoAuthentication
	}
	token, ok := strings.CutPrefix(header, bearerPrefix)
	token = strings.TrimSpace(token)
	if !ok || token == "" || strings.ContainsAny(token, " \t") {
		return "", common.ErrInvalidAuthHeader
	}
	return token, nil
}

// NewToken returns a fresh opaque bearer token.
func NewToken() string {
	return uuid.NewString()
}
