package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/framecraft/internal/observability"
)

var browseDirsOnly bool

var browseCmd = &cobra.Command{
	Use:   "browse <repo>",
	Short: "List a repository directory",
	Long:  "List files and directories at --path in a GitHub repository, given as owner/repo or a github.com URL.",
	Args:  cobra.ExactArgs(1),
	RunE:  runBrowse,
}

func init() {
	addSourceFlags(browseCmd)
	browseCmd.Flags().BoolVar(&browseDirsOnly, "dirs", false, "Only list directories")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, repo, err := sourceLocation(args[0])
	if err != nil {
		return err
	}

	client := newSourceClient(cfg)
	ctx := context.Background()

	list := client.ListDirectory
	if browseDirsOnly {
		list = client.BrowseDirectories
	}
	files, err := list(ctx, repo.Owner, repo.Repo, repo.Path, repo.Branch)
	if err != nil {
		return fmt.Errorf("failed to list %s/%s: %w", repo, repo.Path, err)
	}

	if verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintListing(fmt.Sprintf("%s/%s@%s", repo, repo.Path, repo.Branch), files)
		return nil
	}
	return writeJSON(cmd, "", files)
}
