package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/hotelrag/internal/server"
	"github.com/hyperjump/hotelrag/internal/watcher"
)

type serveOptions struct {
	host      string
	port      int
	watchDir  string
	hotelID   string
	watchType string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Example: `  hotelrag serve --port 9000
  hotelrag serve --watch ./inbox/h-42 --hotel h-42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watchDir != "" && opts.hotelID == "" {
				return errors.New("--watch requires --hotel")
			}
			return runServe(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listen port (default from config)")
	cmd.Flags().StringVar(&opts.watchDir, "watch", "", "keep this folder indexed while serving")
	cmd.Flags().StringVar(&opts.hotelID, "hotel", "", "hotel that owns the watched folder")
	cmd.Flags().StringVarP(&opts.watchType, "type", "t", "", "document type for files in the watched folder")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	cfg, logger, err := root.load()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = opts.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = opts.port
	}

	c, err := newComponents(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	srv := server.NewServer(server.Deps{
		Engine:      c.engine,
		Expander:    c.expander,
		Hybrid:      c.hybrid,
		Gate:        c.gate,
		Indexer:     c.indexer,
		Store:       c.store,
		VectorCount: c.vectors.Len,
		DataPaths:   []string{cfg.Storage.DatabasePath, cfg.Storage.VectorIndexPath},
	}, &cfg.Server, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	if opts.watchDir != "" {
		w, err := watcher.New(opts.watchDir,
			&folderSync{c: c, hotelID: opts.hotelID, documentType: opts.watchType},
			watcher.WithAccept(c.indexer.Accepts),
			watcher.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("watch %s: %w", opts.watchDir, err)
		}
		// catch up on changes made while the server was down
		result, err := c.indexer.IndexDirectory(ctx, opts.hotelID, w.Root(), opts.watchType)
		if err != nil {
			return err
		}
		for _, f := range result.Failed {
			logger.Warn("failed to index file", zap.String("path", f.Path), zap.Error(f.Err))
		}
		if err := c.saveVectors(); err != nil {
			return err
		}
		g.Go(func() error { return w.Run(ctx) })
	}

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	err = g.Wait()
	if saveErr := c.saveVectors(); saveErr != nil && err == nil {
		err = saveErr
	}
	return err
}
