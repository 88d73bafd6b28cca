package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/framecraft/internal/config"
	"github.com/jonathan/framecraft/internal/source"
	"github.com/jonathan/framecraft/internal/types"
)

// Source flags shared by browse, validate and parse.
var (
	srcPath      string
	srcBranch    string
	srcToken     string
	srcTransport string
	srcProxyURL  string
	srcAPIURL    string
)

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&srcPath, "path", "p", "", "Directory inside the repository")
	cmd.Flags().StringVarP(&srcBranch, "branch", "b", "", "Branch (default main)")
	cmd.Flags().StringVar(&srcToken, "token", "", "GitHub token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().StringVar(&srcTransport, "transport", "", `Source transport: "direct" or "proxy"`)
	cmd.Flags().StringVar(&srcProxyURL, "proxy-url", "", "Base URL of a framecraft server for the proxy transport")
	cmd.Flags().StringVar(&srcAPIURL, "api-url", source.DefaultAPIBaseURL, "GitHub API root for the direct transport")
}

// resolveConfig layers flags over the --config file, then the environment,
// then built-in defaults.
func resolveConfig(flags config.Config) (config.Config, error) {
	cfg := flags

	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
		if fileCfg.Verbose {
			verbose = true
		}
		if fileCfg.UseBrowser {
			cfg.UseBrowser = true
		}
	}

	envCfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	cfg = cfg.MergeWithDefaults(*envCfg)
	cfg = cfg.WithFallbacks()

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newSourceClient builds a listing client for the configured transport.
func newSourceClient(cfg config.Config) *source.Client {
	if cfg.Transport == config.TransportProxy {
		return source.NewClient(source.NewProxyTransport(cfg.ProxyURL))
	}
	direct := source.NewDirectTransport(cfg.GitHubToken)
	if srcAPIURL != "" {
		direct.BaseURL = srcAPIURL
	}
	return source.NewClient(direct)
}

// sourceLocation resolves the <repo> argument and the source flags.
func sourceLocation(arg string) (config.Config, source.Repository, error) {
	repo, ok := source.ParseRepositoryReference(arg)
	if !ok {
		return config.Config{}, source.Repository{}, fmt.Errorf("invalid repository %q: use owner/repo or a github.com URL", arg)
	}

	cfg, err := resolveConfig(config.Config{
		Transport:   srcTransport,
		ProxyURL:    srcProxyURL,
		GitHubToken: srcToken,
		Branch:      srcBranch,
	})
	if err != nil {
		return config.Config{}, source.Repository{}, err
	}

	if srcPath != "" {
		repo.Path = strings.Trim(srcPath, "/")
	}
	switch {
	case srcBranch != "":
		repo.Branch = srcBranch
	case repo.Branch == "":
		repo.Branch = cfg.Branch
	}
	return cfg, repo, nil
}

// writeOutput writes data to path, or to the command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Output: %s\n", path)
	return nil
}

// writeJSON writes v as indented JSON.
func writeJSON(cmd *cobra.Command, path string, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return writeOutput(cmd, path, append(jsonBytes, '\n'))
}

// readBindings loads a JSON object of placeholder values.
func readBindings(path string) (types.Bindings, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bindings file: %w", err)
	}
	var bindings types.Bindings
	if err := json.Unmarshal(content, &bindings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bindings JSON: %w", err)
	}
	return bindings, nil
}

// readOptional returns the file content, or "" when path is empty.
func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(content), nil
}
