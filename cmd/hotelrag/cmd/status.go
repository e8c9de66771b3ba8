package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperjump/hotelrag/internal/cli"
	"github.com/hyperjump/hotelrag/internal/storage"
)

type statusReport struct {
	Documents      int64  `json:"documents"`
	Chunks         int64  `json:"chunks"`
	Vectors        int    `json:"vectors"`
	DiskUsageBytes int64  `json:"disk_usage_bytes"`
	DatabasePath   string `json:"database_path"`
	VectorPath     string `json:"vector_index_path"`
	Dimensions     int    `json:"embedding_dimensions"`
	GateEnabled    bool   `json:"security_enabled"`
}

func newStatusCmd(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show index statistics",
		Args:  cobra.NoArgs,
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
			c, err := newComponents(cfg, logger)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			report := statusReport{
				Vectors:      c.vectors.Len(),
				DatabasePath: cfg.Storage.DatabasePath,
				VectorPath:   cfg.Storage.VectorIndexPath,
				Dimensions:   c.vectors.Dimensions(),
				GateEnabled:  cfg.Security.EnabledOrDefault(),
			}
			if report.Documents, err = c.store.CountDocuments(ctx); err != nil {
				return err
			}
			if report.Chunks, err = c.store.CountChunks(ctx); err != nil {
				return err
			}
			report.DiskUsageBytes, _ = storage.Footprint(cfg.Storage.DatabasePath, cfg.Storage.VectorIndexPath)

			out := cmd.OutOrStdout()
			if format == cli.OutputJSON {
				return cli.WriteJSON(out, report)
			}
			fmt.Fprintf(out, "Documents:    %d\n", report.Documents)
			fmt.Fprintf(out, "Chunks:       %d\n", report.Chunks)
			fmt.Fprintf(out, "Vectors:      %d (%d dims)\n", report.Vectors, report.Dimensions)
			fmt.Fprintf(out, "Disk usage:   %d bytes\n", report.DiskUsageBytes)
			fmt.Fprintf(out, "Database:     %s\n", report.DatabasePath)
			fmt.Fprintf(out, "Vector index: %s\n", report.VectorPath)
			fmt.Fprintf(out, "Input gate:   %t\n", report.GateEnabled)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}
