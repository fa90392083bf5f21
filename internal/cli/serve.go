package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridlock-dev/gridlock/internal/server"
	"github.com/gridlock-dev/gridlock/pkg/store"
)

// Store backend names accepted by --store.
const (
	storeMemory = "memory"
	storeRedis  = "redis"
	storeMongo  = "mongo"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string // listen address
	storeKind string // snapshot backend: memory, redis, mongo
	redisAddr string
	redisDB   int
	mongoURI  string
	ttl       time.Duration // snapshot retention in the store
}

// newServeCmd creates the serve command. It exposes the analysis pipeline
// over HTTP for the dashboard: POST /api/simulate, POST /api/analyze, and
// GET /api/data/{runID} for fetching stored snapshots.
//
// Snapshots live in the selected store. The in-memory backend is the
// default; redis or mongo let several instances share one dashboard.
func newServeCmd() *cobra.Command {
	opts := serveOpts{
		addr:      ":8080",
		storeKind: storeMemory,
		redisAddr: "localhost:6379",
		mongoURI:  "mongodb://localhost:27017",
		ttl:       store.DefaultTTL,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.storeKind, "store", opts.storeKind, "snapshot store: memory (default), redis, mongo")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", opts.redisAddr, "redis address (with --store redis)")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "redis database number (with --store redis)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", opts.mongoURI, "mongodb connection URI (with --store mongo)")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", opts.ttl, "snapshot retention")

	return cmd
}

// openStore builds the snapshot store named by --store.
func openStore(ctx context.Context, opts *serveOpts) (store.Store, error) {
	switch opts.storeKind {
	case storeMemory:
		return store.NewMemoryStore(), nil
	case storeRedis:
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr: opts.redisAddr,
			DB:   opts.redisDB,
		})
	case storeMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{URI: opts.mongoURI})
	default:
		return nil, fmt.Errorf("invalid store: %q (must be 'memory', 'redis', or 'mongo')", opts.storeKind)
	}
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	st, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Info("opened snapshot store", "backend", opts.storeKind, "ttl", opts.ttl)

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           server.New(st, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Give in-flight requests a grace period before forcing the close.
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
