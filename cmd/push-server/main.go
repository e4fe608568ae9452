package main

import (
	"Pulse/config"
	"Pulse/pkg/log"
	"Pulse/socket"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	path := fmt.Sprintf("configs/config.%s.yaml", env)
	cfg := config.New(path)
	appProvider := InitServer(cfg)
	cliApp := &cli.App{
		Name: "push-server",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start websocket push server",
				Action: func(ctx *cli.Context) error {
					return socket.Run(ctx, appProvider)
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("failed to start server", zap.Error(err))
	}
}
