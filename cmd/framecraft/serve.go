package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/framecraft/internal/config"
	"github.com/jonathan/framecraft/internal/server"
)

var (
	servePort       int
	serveUseBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the builder HTTP server",
	Long: `Start an HTTP server exposing the GitHub proxy (/browse, /content), the admin
session, the component builder endpoints and the template library.

Requires ADMIN_USERNAME, ADMIN_PASSWORD_HASH and JWT_SECRET. DATABASE_URL is
optional; without it the template library is unavailable and file content is
not cached.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Enable headless Chrome thumbnails")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{
		Port:       servePort,
		UseBrowser: serveUseBrowser,
	})
	if err != nil {
		return err
	}

	srv, err := server.New(serverConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// serverConfig maps the resolved configuration onto the server's.
func serverConfig(cfg config.Config) server.Config {
	return server.Config{
		Port:           cfg.Port,
		DatabaseURL:    cfg.DatabaseURL,
		GitHubToken:    cfg.GitHubToken,
		AllowedOrigins: cfg.AllowedOrigins,
		CacheTTL:       time.Duration(cfg.CacheTTLMinutes) * time.Minute,
		PollInterval:   time.Duration(cfg.PollIntervalMS) * time.Millisecond,
		MaxAttempts:    cfg.MaxAttempts,
		UseBrowser:     cfg.UseBrowser,
	}
}
