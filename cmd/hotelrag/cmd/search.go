package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperjump/hotelrag/internal/cli"
	"github.com/hyperjump/hotelrag/internal/models"
)

func newSearchCmd(root *rootOptions) *cobra.Command {
	var (
		hotelID   string
		topK      int
		docTypes  []string
		output    string
		serverURL string
	)
	cmd := &cobra.Command{
		Use:   "search [flags] QUERY...",
		Short: "Search a hotel's documents",
		Example: `  hotelrag search --hotel h-42 "кога е закуската"
  hotelrag search --hotel h-42 --type menu --type policy --top-k 5 pool hours
  hotelrag search --hotel h-42 --server http://localhost:8080 --output json late checkout`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			req := &models.SearchRequest{
				HotelID:       hotelID,
				Query:         strings.Join(args, " "),
				DocumentTypes: docTypes,
				TopK:          topK,
			}

			var resp *models.SearchResponse
			if serverURL != "" {
				resp, err = searchViaHTTP(cmd.Context(), serverURL, req)
			} else {
				resp, err = searchLocal(cmd.Context(), root, req)
			}
			if err != nil {
				return err
			}
			return cli.WriteSearchResponse(cmd.OutOrStdout(), resp, format)
		},
	}
	cmd.Flags().StringVar(&hotelID, "hotel", "", "hotel ID (required)")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of results (default from config)")
	cmd.Flags().StringSliceVarP(&docTypes, "type", "t", nil, "restrict to document type (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	cmd.Flags().StringVar(&serverURL, "server", "", "query a running hotelrag server instead of the local index")
	_ = cmd.MarkFlagRequired("hotel")
	return cmd
}

func searchLocal(ctx context.Context, root *rootOptions, req *models.SearchRequest) (*models.SearchResponse, error) {
	cfg, logger, err := root.load()
	if err != nil {
		return nil, err
	}
	defer func() { _ = logger.Sync() }()

	c, err := newComponents(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.engine.Search(ctx, req)
}

func searchViaHTTP(ctx context.Context, serverURL string, req *models.SearchRequest) (*models.SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(serverURL, "/")+"/api/v1/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var out models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
