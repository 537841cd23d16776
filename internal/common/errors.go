// Package common defines shared sentinel errors used across marketd
// components. Callers should use errors.Is to match these values; the
// protocol layer uses their texts as FAILURE reasons.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrNotSeller     = errors.New("requester is not the seller")
	ErrUnauthorized  = errors.New("invalid username or password")

	// Sale and ledger errors.
	ErrAlreadySold       = errors.New("already sold")
	ErrSelfPurchase      = errors.New("cannot purchase own item")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidPrice      = errors.New("invalid price")

	// Rating errors.
	ErrInvalidRating = errors.New("invalid rating")
	ErrNoSoldItems   = errors.New("no sold items to rate")
	ErrAllItemsRated = errors.New("all items already rated")

	// Generic/internal flow control.
	ErrInternal = errors.New("internal error")
)
