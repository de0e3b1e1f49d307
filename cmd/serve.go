package cmd

import (
	"context"

	"github.com/emrgen/pagepurge/internal/config"
	"github.com/emrgen/pagepurge/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd())
}

func serveCmd() *cobra.Command {
	var port string

	command := &cobra.Command{
		Use:   "serve",
		Short: "serve the purge api",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			app, err := loadApp(ctx)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer app.Close()

			if port == "" {
				port = app.Config.Server.HTTPPort
			}

			if len(app.Config.Server.Tokens) == 0 {
				logrus.Warn("no server.tokens configured, purge requests will be rejected")
			}

			verifier := config.TokenVerifier(&app.Config.Server)
			srv := server.NewServer(port, app.Purge, verifier, config.Duration(app.Config.Server.ShutdownTimeout))
			if err := srv.Start(); err != nil {
				logrus.Errorf("error starting server: %v", err)
			}
		},
	}

	command.Flags().StringVarP(&port, "port", "p", "", "http port (default from config)")

	return command
}
