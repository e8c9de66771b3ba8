package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newIndexCmd(root *rootOptions) *cobra.Command {
	var hotelID, docType string
	cmd := &cobra.Command{
		Use:   "index [flags] PATH",
		Short: "Index a file or every supported file under a directory",
		Example: `  hotelrag index --hotel h-42 --type policy ./house-rules.pdf
  hotelrag index --hotel h-42 ./documents`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}

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

			out := cmd.OutOrStdout()
			if info.IsDir() {
				result, err := c.indexer.IndexDirectory(cmd.Context(), hotelID, path, docType)
				if saveErr := c.saveVectors(); saveErr != nil {
					return saveErr
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Indexed %d file(s) from %s\n", result.Indexed, path)
				for _, f := range result.Failed {
					fmt.Fprintf(out, "  failed: %v\n", f)
				}
				if len(result.Failed) > 0 {
					return fmt.Errorf("%d file(s) failed", len(result.Failed))
				}
				return nil
			}

			doc, err := c.indexer.IndexFile(cmd.Context(), hotelID, path, docType)
			if err != nil {
				return err
			}
			if err := c.saveVectors(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Document indexed: %s (%s, %s)\n", doc.ID, doc.FileName, doc.DocumentType)
			return nil
		},
	}
	cmd.Flags().StringVar(&hotelID, "hotel", "", "hotel ID (required)")
	cmd.Flags().StringVarP(&docType, "type", "t", "", "document type: contract, invoice, menu, policy, procedure, manual, other")
	_ = cmd.MarkFlagRequired("hotel")
	return cmd
}
