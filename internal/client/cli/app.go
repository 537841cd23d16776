// Package cli implements the interactive marketplace client: a REPL that
// turns user commands into protocol request lines and renders the
// responses.
package cli

import (
	"bufio"
	"context"
	"os"

	"marketd/internal/client"
	"marketd/internal/client/config"
)

// doer is the slice of the connection the commands need. The real
// client.Client satisfies it; tests substitute a scripted stub.
type doer interface {
	Do(line string) (string, error)
}

type App struct {
	config *config.Config
	api    doer
	reader *bufio.Reader

	userID   string
	userName string
}

func NewApp(c *config.Config) (*App, error) {

	api, err := client.Dial(context.Background(), c.ServerEndpointAddr, c.DialTimeout)
	if err != nil {
		return nil, err
	}

	return &App{config: c, api: api, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) Run(ctx context.Context) {
	if closer, ok := a.api.(*client.Client); ok {
		defer closer.Close()
	}
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userID != ""
}
