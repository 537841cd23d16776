package cli

import (
	"fmt"
	"os"

	"marketd/internal/protocol"
)

// call sends one request line and unpacks the response. On success it
// returns the payload fields after "<CMD>,SUCCESS". Failures and unknown
// commands are printed and reported as ok=false.
func (a *App) call(line string) (payload []string, ok bool) {
	resp, err := a.api.Do(line)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return nil, false
	}

	fields := protocol.Split(resp)
	if len(fields) < 2 {
		fmt.Println("Malformed response:", resp)
		return nil, false
	}

	switch fields[1] {
	case protocol.StatusSuccess:
		return fields[2:], true
	case protocol.StatusFailure:
		reason := "request failed"
		if len(fields) > 2 && fields[2] != "" {
			reason = fields[2]
		}
		fmt.Println("Error:", reason)
		return nil, false
	default:
		// "ERROR,Unknown command: X" and anything else unexpected.
		fmt.Println(resp)
		return nil, false
	}
}
