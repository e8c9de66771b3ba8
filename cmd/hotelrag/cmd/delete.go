package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete DOCUMENT_ID",
		Short: "Delete a document with its chunks and vectors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			c, err := newComponents(cfg, logger)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.indexer.DeleteDocument(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := c.saveVectors(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Document deleted: %s\n", args[0])
			return nil
		},
	}
}
