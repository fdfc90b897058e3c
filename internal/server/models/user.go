// Package models holds the domain entities shared by the storage backends,
// the service layer and the HTTP layer.
package models

// User is a registered account. Token is the opaque bearer credential and
// Password the stored (hashed) secret.
type User struct {
	ID       int64
	Name     string
	Email    string
	Token    string
	Password string
}
