// Package models holds the plain records the store owns: users, items and
// messages. Derived views (active listings, purchase history, sold items)
// are not stored here; they are recomputed from the item table so they can
// never drift from item state.
package models

// User is a marketplace account. Passwords are stored and compared as plain
// text: hardening authentication is explicitly out of scope for this system.
type User struct {
	ID       string
	Username string
	Password string
	Bio      string
	Balance  float64
}
