package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.userName != "" {
		return fmt.Sprintf("(%s)", a.userName)
	}
	return ""
}

// Root runs the interactive loop. Commands that need an account are
// rejected until the user logs in; "raw" passes a protocol line through
// verbatim for debugging.
func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to the marketplace CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("market %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		if !a.isLoggedIn() {
			switch cmd {
			case "help":
				fmt.Println("Available commands: register, login, search, show, sellers, users, exit")
				continue
			case "register":
				a.Register(ctx)
				continue
			case "login":
				a.Login(ctx)
				continue
			case "search":
				a.Search(ctx)
				continue
			case "show":
				a.Show(ctx)
				continue
			case "sellers":
				a.Sellers(ctx)
				continue
			case "users":
				a.Users(ctx)
				continue
			case "exit", "quit":
				fmt.Println("Bye!")
				return
			default:
				fmt.Println("Log in first (or type 'help')")
				continue
			}
		}

		switch cmd {
		case "help":
			fmt.Println("Available commands: additem, myitems, remove, search, show, buy,")
			fmt.Println("  deposit, withdraw, balance, rate, myrating, msg, messages, chats,")
			fmt.Println("  sellers, users, raw, delete, logout, exit")
		case "additem":
			a.AddItem(ctx)
		case "myitems":
			a.MyItems(ctx)
		case "remove":
			a.Remove(ctx)
		case "search":
			a.Search(ctx)
		case "show":
			a.Show(ctx)
		case "buy":
			a.Buy(ctx)
		case "deposit":
			a.Deposit(ctx)
		case "withdraw":
			a.Withdraw(ctx)
		case "balance":
			a.Balance(ctx)
		case "rate":
			a.Rate(ctx)
		case "myrating":
			a.MyRating(ctx)
		case "msg":
			a.SendMessage(ctx)
		case "messages":
			a.Messages(ctx)
		case "chats":
			a.Conversations(ctx)
		case "sellers":
			a.Sellers(ctx)
		case "users":
			a.Users(ctx)
		case "raw":
			if len(args) == 0 {
				fmt.Println("Usage: raw <protocol line>")
				continue
			}
			if resp, err := a.api.Do(strings.Join(args, " ")); err != nil {
				fmt.Println(err.Error())
			} else {
				fmt.Println(resp)
			}
		case "delete":
			a.DeleteAccount(ctx)
		case "logout":
			a.Logout(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
