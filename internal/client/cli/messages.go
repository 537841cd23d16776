package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"marketd/internal/protocol"
)

func (a *App) SendMessage(ctx context.Context) {

	receiverID, err := GetSimpleText(a.reader, "Enter receiver id", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	content, err := GetSimpleText(a.reader, "Enter message", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	itemID, err := GetSimpleText(a.reader, "Enter item id (empty if none)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if _, ok := a.call(strings.Join(
		[]string{protocol.CmdSendMessage, a.userID, receiverID, content, itemID}, ",")); !ok {
		return
	}
	fmt.Println("Sent")
}

func (a *App) Messages(ctx context.Context) {

	partnerID, err := GetSimpleText(a.reader, "Enter partner id", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	payload, ok := a.call(strings.Join(
		[]string{protocol.CmdGetMessages, a.userID, partnerID}, ","))
	if !ok {
		return
	}
	if len(payload) == 0 {
		fmt.Println("Malformed response")
		return
	}

	fmt.Println("Messages:", payload[0])
	for i := 1; i+4 < len(payload); i += 5 {
		sender := payload[i+1]
		if sender == a.userID {
			sender = "me"
		}
		fmt.Printf("  [%s] %s: %s\n", formatTimestamp(payload[i+3]), sender, payload[i+4])
	}
}

func (a *App) Conversations(ctx context.Context) {
	payload, ok := a.call(protocol.CmdGetConversations + "," + a.userID)
	if !ok {
		return
	}
	printUserList("Conversations", payload)
}

// formatTimestamp renders a unix-millisecond string; an unparsable value is
// shown as-is.
func formatTimestamp(ts string) string {
	ms, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ts
	}
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}
