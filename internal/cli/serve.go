package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/loopgrid/internal/server"
	"github.com/matzehuels/loopgrid/pkg/cache"
	"github.com/matzehuels/loopgrid/pkg/observability"
	"github.com/matzehuels/loopgrid/pkg/store"
)

const (
	// storeCleanupInterval is how often expired layouts are purged.
	storeCleanupInterval = 10 * time.Minute

	// apiKeyPrefix separates the service's cache entries from the CLI's
	// when both use the same Redis.
	apiKeyPrefix = "loopgrid:api:"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

Accepts topologies at POST /v1/layouts, keeps the composed layouts in the
configured store (memory, a directory or MongoDB) and renders them on
request at GET /v1/layouts/{id}/{format}. Stops gracefully on Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Serve.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	bindConfig(cmd, "addr", "serve.addr")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	runner.Keyer = cache.NewScopedKeyer(runner.Keyer, apiKeyPrefix)

	st, kind, err := c.newStore(ctx)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}

	observability.SetHTTPHooks(httpLogHooks{logger: c.Logger})

	cfg := c.Config.Serve
	srv := &http.Server{
		Addr: addr,
		Handler: server.New(server.Config{
			Runner:       runner,
			Store:        st,
			Logger:       c.Logger,
			TTL:          c.Config.Store.TTL,
			MaxBodyBytes: cfg.MaxBodyBytes,
			Defaults:     c.Config.PipelineOptions(),
		}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		printInfo("Serving layouts")
		printKeyValue("Address", addr)
		printKeyValue("Store", kind)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(storeCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := st.Cleanup(gctx); err != nil {
					c.Logger.Warn("store cleanup failed", "err", err)
				}
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.ShutdownTimeout)
		defer cancel()

		c.Logger.Info("shutting down")
		err := srv.Shutdown(shutdownCtx)
		if cerr := st.Close(shutdownCtx); cerr != nil && err == nil {
			err = cerr
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// newStore picks the layout store: MongoDB, a directory of JSON files, or
// memory. It also returns a short description for display.
func (c *CLI) newStore(ctx context.Context) (store.Store, string, error) {
	cfg := c.Config.Store
	switch {
	case cfg.MongoURI != "":
		st, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
		return st, "mongo " + cfg.Database + "." + cfg.Collection, err
	case cfg.Dir != "":
		st, err := store.NewFileStore(cfg.Dir)
		return st, "files in " + cfg.Dir, err
	default:
		return store.NewMemoryStore(), "memory", nil
	}
}

// httpLogHooks logs every served request at info level.
type httpLogHooks struct {
	observability.NoopHTTPHooks
	logger *log.Logger
}

func (h httpLogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("request", "method", method, "route", route, "status", status, "duration", d.Round(time.Microsecond))
}
