package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperjump/hotelrag/internal/cli"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "validate [flags] MESSAGE...",
		Short: "Screen a message for prompt injection and off-topic requests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			verdict := newGate(cfg, logger).ValidateString(strings.Join(args, " "))
			return cli.WriteVerdict(cmd.OutOrStdout(), verdict, format)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}
