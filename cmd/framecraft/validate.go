package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/framecraft/internal/observability"
	"github.com/jonathan/framecraft/internal/types"
	"github.com/jonathan/framecraft/internal/validation"
)

// errInvalidStructure makes the command exit non-zero after printing the result.
var errInvalidStructure = errors.New("component structure is invalid")

var validateDir string

var validateCmd = &cobra.Command{
	Use:   "validate [repo]",
	Short: "Check a component folder's structure",
	Long: `Check that a component folder has the files a parse needs: an HTML and a CSS
file for flat layouts, or src/ plus package.json for framework projects.

The folder is read from a repository (<repo> --path) or from local disk (--dir).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	addSourceFlags(validateCmd)
	validateCmd.Flags().StringVarP(&validateDir, "dir", "d", "", "Local component folder (instead of <repo>)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	var files []types.RemoteFile
	switch {
	case validateDir != "" && len(args) > 0:
		return fmt.Errorf("cannot use --dir with a repository argument")
	case validateDir != "":
		local, err := validation.ListLocal(validateDir)
		if err != nil {
			return err
		}
		files = local
	case len(args) == 1:
		cfg, repo, err := sourceLocation(args[0])
		if err != nil {
			return err
		}
		listing, err := newSourceClient(cfg).ListDirectory(context.Background(), repo.Owner, repo.Repo, repo.Path, repo.Branch)
		if err != nil {
			return fmt.Errorf("failed to list %s/%s: %w", repo, repo.Path, err)
		}
		files = listing
	default:
		return fmt.Errorf("must provide either a repository or --dir")
	}

	result := validation.Validate(files)
	if verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintValidation(result)
	} else if err := writeJSON(cmd, "", result); err != nil {
		return err
	}

	if !result.Valid {
		return errInvalidStructure
	}
	return nil
}
