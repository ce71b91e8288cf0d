package main

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwrona-dev/wyciag/internal/api"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion API",
		Long: `Start an HTTP server exposing the converter:

  POST /api/convert  multipart upload (field "file") -> JSON records + CSV
  GET  /api/health   liveness check`,
		RunE: runServe,
	}

	cmd.Flags().String("listen", ":8080", "listen address")
	_ = viper.BindPFlag("listen", cmd.Flags().Lookup("listen"))

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	app := fiber.New(fiber.Config{
		AppName:   "wyciag",
		BodyLimit: 32 << 20, // statement PDFs are small; 32MB is generous
	})
	app.Use(recover.New())
	app.Use(cors.New())

	api.Register(app)

	addr := viper.GetString("listen")
	slog.Info("starting API server", "addr", addr)
	return app.Listen(addr)
}
