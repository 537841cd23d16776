package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"marketd/internal/protocol"
)

func (a *App) Register(ctx context.Context) {

	userName, err := GetSimpleText(a.reader, "Enter user name", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	bio, err := GetSimpleText(a.reader, "Enter a short bio", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if _, ok := a.call(strings.Join([]string{protocol.CmdRegister, userName, password, bio}, ",")); !ok {
		return
	}

	fmt.Println("Success! You can now log in.")
}

func (a *App) Login(ctx context.Context) {

	userName, err := GetSimpleText(a.reader, "Enter user name", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	payload, ok := a.call(strings.Join([]string{protocol.CmdLogin, userName, password}, ","))
	if !ok {
		return
	}
	if len(payload) == 0 {
		fmt.Println("Login response carried no user id")
		return
	}

	a.userID = payload[0]
	a.userName = userName
	fmt.Printf("Logged in as %s\n", userName)
}

func (a *App) Logout(ctx context.Context) {
	a.userID = ""
	a.userName = ""
	fmt.Println("Logged out")
}

func (a *App) DeleteAccount(ctx context.Context) {

	answer, err := GetSimpleText(a.reader,
		"Delete your account and active listings? Type yes to confirm", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	if answer != "yes" {
		fmt.Println("Cancelled")
		return
	}

	if _, ok := a.call(protocol.CmdDeleteAccount + "," + a.userID); !ok {
		return
	}

	a.userID = ""
	a.userName = ""
	fmt.Println("Account deleted")
}

func (a *App) Users(ctx context.Context) {
	payload, ok := a.call(protocol.CmdGetAllUsers)
	if !ok {
		return
	}
	printUserList("Users", payload)
}

func (a *App) Sellers(ctx context.Context) {
	payload, ok := a.call(protocol.CmdGetActiveSellers)
	if !ok {
		return
	}
	printUserList("Active sellers", payload)
}

// printUserList renders a "count,(id,username)*" payload.
func printUserList(title string, payload []string) {
	if len(payload) == 0 {
		fmt.Println("Malformed response")
		return
	}
	fmt.Printf("%s: %s\n", title, payload[0])
	for i := 1; i+1 < len(payload); i += 2 {
		fmt.Printf("  %s  %s\n", payload[i], payload[i+1])
	}
}
