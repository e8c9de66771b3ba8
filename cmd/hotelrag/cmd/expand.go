package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperjump/hotelrag/internal/cli"
	"github.com/hyperjump/hotelrag/internal/expansion"
)

func newExpandCmd(root *rootOptions) *cobra.Command {
	var (
		maxSynonyms int
		noMix       bool
		output      string
	)
	cmd := &cobra.Command{
		Use:     "expand [flags] QUERY...",
		Short:   "Show how a query is expanded with synonyms and analyzed",
		Example: `  hotelrag expand "цена за стая с изглед към морето"`,
		Args:    cobra.MinimumNArgs(1),
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

			if cmd.Flags().Changed("max-synonyms") {
				cfg.Expansion.MaxSynonyms = &maxSynonyms
			}
			if noMix {
				off := false
				cfg.Expansion.LanguageMix = &off
			}
			expander, err := newExpander(cfg)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			return cli.WriteExpansion(cmd.OutOrStdout(), cli.ExpansionReport{
				ExpandedQuery: expander.Expand(query),
				Keywords:      expansion.ExtractKeywords(query),
				KeyPhrases:    expansion.ExtractKeyPhrases(query),
			}, format)
		},
	}
	cmd.Flags().IntVar(&maxSynonyms, "max-synonyms", 3, "synonyms added per matched word")
	cmd.Flags().BoolVar(&noMix, "no-mix", false, "only add synonyms written in the same script as the word")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}
