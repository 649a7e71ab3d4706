// Package models defines the entities persisted by the server.
package models

// Account is a registered user. ID is assigned by storage on creation and is
// immutable afterwards. Password is stored and compared as given.
type Account struct {
	ID       int64  `json:"account_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}
