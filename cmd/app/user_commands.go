package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokengate/cmd/app/commands"
	"github.com/allisson/tokengate/internal/app"
	"github.com/allisson/tokengate/internal/config"
)

func getUserCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-user",
			Usage: "Create a new user account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "username",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Username for the new account",
				},
				&cli.StringFlag{
					Name:     "password",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Password for the new account",
				},
				&cli.IntFlag{
					Name:    "user-level-id",
					Aliases: []string{"l"},
					Value:   2,
					Usage:   "User level granted to the account",
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

				users, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(
					ctx,
					users,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("username"),
					cmd.String("password"),
					int64(cmd.Int("user-level-id")),
					cmd.String("format"),
				)
			},
		},
	}
}
