// Package main provides the framecraft CLI and HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "framecraft",
	Short: "Component template builder",
	Long: `framecraft turns component folders from GitHub or local disk into editable
templates with {{placeholder}} variables, renders isolated previews and serves
the builder API.

Configuration can be loaded from a JSON file using --config. Environment
variables fill anything the file leaves unset; flags override both.`,
	SilenceUsage: true,
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print boxed human-readable output")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
