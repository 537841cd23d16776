package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"marketd/internal/protocol"
)

func (a *App) Deposit(ctx context.Context) {

	amount, err := GetSimpleText(a.reader, "Enter amount to deposit", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if _, ok := a.call(strings.Join(
		[]string{protocol.CmdAddFunds, a.userID, amount}, ",")); !ok {
		return
	}
	a.Balance(ctx)
}

func (a *App) Withdraw(ctx context.Context) {

	amount, err := GetSimpleText(a.reader, "Enter amount to withdraw", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if _, ok := a.call(strings.Join(
		[]string{protocol.CmdWithdrawFunds, a.userID, amount}, ",")); !ok {
		return
	}
	a.Balance(ctx)
}

func (a *App) Balance(ctx context.Context) {
	payload, ok := a.call(protocol.CmdGetBalance + "," + a.userID)
	if !ok {
		return
	}
	if len(payload) > 0 {
		fmt.Println("Balance:", payload[0])
	}
}

func (a *App) Rate(ctx context.Context) {

	sellerID, err := GetSimpleText(a.reader, "Enter seller id", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	rating, err := GetSimpleText(a.reader, "Enter rating (1-5)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if _, ok := a.call(strings.Join(
		[]string{protocol.CmdRateSeller, sellerID, rating}, ",")); !ok {
		return
	}
	fmt.Println("Rating recorded")
}

func (a *App) MyRating(ctx context.Context) {
	payload, ok := a.call(protocol.CmdGetMyRating + "," + a.userID)
	if !ok {
		return
	}
	if len(payload) < 2 {
		fmt.Println("Malformed response")
		return
	}
	fmt.Printf("Rating: %s over %s rated sales\n", payload[0], payload[1])
}
