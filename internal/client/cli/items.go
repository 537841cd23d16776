package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"marketd/internal/protocol"
)

func (a *App) AddItem(ctx context.Context) {

	title, err := GetSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	description, err := GetSimpleText(a.reader, "Enter description", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	category, err := GetSimpleText(a.reader, "Enter category", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	price, err := GetSimpleText(a.reader, "Enter price", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	payload, ok := a.call(strings.Join(
		[]string{protocol.CmdAddItem, a.userID, title, description, category, price}, ","))
	if !ok {
		return
	}
	if len(payload) > 0 {
		fmt.Println("Listed with id", payload[0])
	}
}

func (a *App) MyItems(ctx context.Context) {
	payload, ok := a.call(strings.Join(
		[]string{protocol.CmdGetUserListings, a.userID, "false"}, ","))
	if !ok {
		return
	}
	if len(payload) == 0 {
		fmt.Println("Malformed response")
		return
	}

	fmt.Println("Listings:", payload[0])
	for i := 1; i+3 < len(payload); i += 4 {
		status := "active"
		if payload[i+3] == "true" {
			status = "sold"
		}
		fmt.Printf("  %s  %s  %s  (%s)\n", payload[i], payload[i+1], payload[i+2], status)
	}
}

func (a *App) Show(ctx context.Context) {

	itemID, err := GetSimpleText(a.reader, "Enter item id", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	payload, ok := a.call(protocol.CmdGetItem + "," + itemID)
	if !ok {
		return
	}
	if len(payload) < 7 {
		fmt.Println("Malformed response")
		return
	}

	fmt.Println("Id:         ", payload[0])
	fmt.Println("Seller:     ", payload[1])
	fmt.Println("Title:      ", payload[2])
	fmt.Println("Description:", payload[3])
	fmt.Println("Category:   ", payload[4])
	fmt.Println("Price:      ", payload[5])
	if payload[6] == "true" {
		buyer := ""
		if len(payload) > 7 {
			buyer = payload[7]
		}
		fmt.Println("Sold to:    ", buyer)
	} else {
		fmt.Println("Status:      for sale")
	}
}

func (a *App) Search(ctx context.Context) {

	query, err := GetSimpleText(a.reader, "Enter search keywords", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	category, err := GetSimpleText(a.reader, "Enter category (empty for any)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	payload, ok := a.call(strings.Join(
		[]string{protocol.CmdSearchItems, query, category}, ","))
	if !ok {
		return
	}
	if len(payload) == 0 {
		fmt.Println("Malformed response")
		return
	}

	fmt.Println("Results:", payload[0])
	for i := 1; i+1 < len(payload); i += 2 {
		fmt.Printf("  %s  %s\n", payload[i], payload[i+1])
	}
}

func (a *App) Buy(ctx context.Context) {

	itemID, err := GetSimpleText(a.reader, "Enter item id to buy", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if _, ok := a.call(strings.Join(
		[]string{protocol.CmdProcessPurchase, a.userID, itemID}, ",")); !ok {
		return
	}
	fmt.Println("Purchase complete")
}

func (a *App) Remove(ctx context.Context) {

	itemID, err := GetSimpleText(a.reader, "Enter item id to remove", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if _, ok := a.call(strings.Join(
		[]string{protocol.CmdRemoveItem, itemID, a.userID}, ",")); !ok {
		return
	}
	fmt.Println("Listing removed")
}
