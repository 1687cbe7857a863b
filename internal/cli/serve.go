package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnemet/memgrid"
	"github.com/gnemet/memgrid/internal/config"
	"github.com/gnemet/memgrid/internal/session"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	ConfigPath string
	Port       string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve grid sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.Port != "" {
				cfg.Server.Port = opts.Port
			}
			h, closeFn, err := newServer(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			slog.Info("Server starting", "addr", "http://localhost:"+cfg.Server.Port, "source", cfg.Source.Kind)
			return http.ListenAndServe(":"+cfg.Server.Port, h)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "config.yaml", "config file")
	cmd.Flags().StringVar(&opts.Port, "port", "", "override server port")

	return cmd
}

// newServer wires the record source, catalog and session pool of cfg into
// a grid handler. The returned func releases the source and the pool.
func newServer(cfg *config.Config) (*memgrid.Handler, func(), error) {
	src, err := sourceFromConfig(cfg, time.Now())
	if err != nil {
		return nil, nil, err
	}

	var cat *memgrid.Catalog
	if cfg.Catalog.Path != "" {
		cat, err = memgrid.LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			src.Close()
			return nil, nil, fmt.Errorf("load catalog: %w", err)
		}
	}

	idle, abs, err := cfg.SessionTimeouts()
	if err != nil {
		src.Close()
		return nil, nil, err
	}
	pool := session.NewPool[*memgrid.Engine](cfg.MaxSessions(), idle, abs)
	pool.StartCleanup(30 * time.Second)

	cols := src.Columns
	if cols == nil && cat == nil {
		records, err := src.Source.Load(context.Background())
		if err != nil {
			pool.Close()
			src.Close()
			return nil, nil, fmt.Errorf("load records: %w", err)
		}
		cols = inferColumns(records)
	}

	h := memgrid.NewHandler(src.Source.Load, cols, cat, pool)
	h.Lang = cfg.Application.Lang
	return h, func() {
		pool.Close()
		src.Close()
	}, nil
}
