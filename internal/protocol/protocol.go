// Package protocol implements the line-oriented wire format spoken between
// clients and the server: one comma-separated request per line, one response
// line per request. Fields carry no quoting or escaping, so embedded commas
// in free-text fields corrupt the frame. The format is kept for
// compatibility with existing clients and isolated behind this package.
package protocol

import (
	"strconv"
	"strings"
)

// Command names.
const (
	CmdRegister         = "REGISTER"
	CmdLogin            = "LOGIN"
	CmdDeleteAccount    = "DELETE_ACCOUNT"
	CmdAddItem          = "ADD_ITEM"
	CmdGetItem          = "GET_ITEM"
	CmdSearchItems      = "SEARCH_ITEMS"
	CmdGetUserListings  = "GET_USER_LISTINGS"
	CmdMarkSold         = "MARK_SOLD"
	CmdRemoveItem       = "REMOVE_ITEM"
	CmdSendMessage      = "SEND_MESSAGE"
	CmdGetMessages      = "GET_MESSAGES"
	CmdGetConversations = "GET_CONVERSATIONS"
	CmdAddFunds         = "ADD_FUNDS"
	CmdWithdrawFunds    = "WITHDRAW_FUNDS"
	CmdProcessPurchase  = "PROCESS_PURCHASE"
	CmdRateSeller       = "RATE_SELLER"
	CmdGetRating        = "GET_RATING"
	CmdGetMyRating      = "GET_MY_RATING"
	CmdGetAllUsers      = "GET_ALL_USERS"
	CmdGetActiveSellers = "GET_ACTIVE_SELLERS"
	CmdGetBalance       = "GET_BALANCE"
)

// Response statuses.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// Split breaks a request line into its fields. The first field is the
// command name; trailing empty fields are preserved.
func Split(line string) []string {
	return strings.Split(line, ",")
}

// Success builds a "<CMD>,SUCCESS[,payload...]" response line.
func Success(cmd string, payload ...string) string {
	parts := append([]string{cmd, StatusSuccess}, payload...)
	return strings.Join(parts, ",")
}

// Failure builds a "<CMD>,FAILURE[,reason]" response line.
func Failure(cmd, reason string) string {
	if reason == "" {
		return cmd + "," + StatusFailure
	}
	return cmd + "," + StatusFailure + "," + reason
}

// UnknownCommand builds the response for commands the dispatcher does not
// recognize.
func UnknownCommand(name string) string {
	return "ERROR,Unknown command: " + name
}

// FormatAmount renders a monetary value or rating the way existing clients
// expect: whole numbers keep one decimal place ("40.0", not "40").
func FormatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// FormatBool renders a boolean field ("true"/"false").
func FormatBool(b bool) string {
	return strconv.FormatBool(b)
}
