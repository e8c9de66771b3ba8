// Package cmd implements the hotelrag command line.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/hotelrag/internal/config"
	"github.com/hyperjump/hotelrag/pkg/utils"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

type rootOptions struct {
	configPath string
	debug      bool
}

// NewRootCmd creates the root command for the hotelrag CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "hotelrag",
		Short: "Hybrid retrieval over hotel documents",
		Long: `hotelrag indexes hotel documents (policies, menus, contracts, price lists)
and ranks their chunks for a question by combining semantic similarity with
BM25 keyword relevance. Queries are screened for prompt injection and
off-topic requests before retrieval, and expanded with Bulgarian/English
hotel synonyms.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./config.yaml, then "+config.DefaultConfigPath+")")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newIndexCmd(opts))
	cmd.AddCommand(newDeleteCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newExpandCmd(opts))
	cmd.AddCommand(newStatusCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// resolveConfigPath picks the explicit path, else ./config.yaml when present,
// else the per-user default.
func (o *rootOptions) resolveConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, "config.yaml")
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}
	return config.ExpandHome(config.DefaultConfigPath)
}

// load reads the config and builds the logger. An explicit --config must exist.
func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	path := o.resolveConfigPath()
	var cfg *config.Config
	var err error
	if o.configPath != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	debug := cfg.Debug || o.debug
	logger, err := utils.NewLogger(debug)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	logger.Debug("config loaded", zap.String("config_path", path), zap.Bool("debug", debug))
	return cfg, logger, nil
}
