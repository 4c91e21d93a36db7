package cmd

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sithumonline/payment-reconciler/internal/api"
	"github.com/sithumonline/payment-reconciler/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP upload surface",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// .env is optional; local deployments use it for the config path.
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app := api.New(cfg)
	log.Printf("listening on %s", cfg.Server.Addr)
	return app.Listen(cfg.Server.Addr)
}
