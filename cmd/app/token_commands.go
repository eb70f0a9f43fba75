package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokengate/cmd/app/commands"
	"github.com/allisson/tokengate/internal/app"
	"github.com/allisson/tokengate/internal/config"
)

func getTokenCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "clean-expired-tokens",
			Usage: "Delete expired tokens, optionally including all tokens of one user",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "user-id",
					Aliases: []string{"u"},
					Value:   0,
					Usage:   "Also delete every token of this user (0 sweeps expired rows only)",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many expired tokens would be deleted without deleting",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				authenticator, err := container.Authenticator()
				if err != nil {
					return err
				}

				return commands.RunCleanExpiredTokens(
					ctx,
					authenticator,
					container.Logger(),
					commands.DefaultIO().Writer,
					int64(cmd.Int("user-id")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
