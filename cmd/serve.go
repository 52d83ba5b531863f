package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/benchhq/hunkdep/pkg/api"
	"github.com/benchhq/hunkdep/pkg/config"
	"github.com/benchhq/hunkdep/pkg/ids"
	"github.com/benchhq/hunkdep/pkg/logger"
	"github.com/benchhq/hunkdep/pkg/store"
	"github.com/benchhq/hunkdep/pkg/tracker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ServeCmd runs the hunkdepd HTTP API: commit ingestion and intersection
// queries backed by an in-memory Tracker, optionally cached in Postgres.
func ServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the hunkdepd HTTP API",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return config.BindFlags(cmd.Flags(), viper.GetViper())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.From(viper.GetViper())
			if err := logger.SetLevel(cfg.LogLevel); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	return serveCmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	var cache *store.Store
	if cfg.PGURI != "" {
		s, err := store.Open(ctx, cfg.PGURI)
		if err != nil {
			return fmt.Errorf("open postgres cache: %w", err)
		}
		defer s.Close()
		cache = s
	} else {
		logger.Warn("no pg-uri set, running with an in-memory-only tracker")
	}

	t := tracker.New(cacheOrNil(cache))
	router := api.NewRouter(t)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: router}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	errChan := make(chan error, 1)

	if cache != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Listen(ctx, cache.Pool(), func(stackIDStr, path string) {
				stackID, err := ids.ParseStackID(stackIDStr)
				if err != nil {
					logger.Warn("invalidation notification with bad stack id", zap.String("stack_id", stackIDStr), zap.Error(err))
					return
				}
				t.Invalidate(stackID, path)
			}); err != nil && ctx.Err() == nil {
				select {
				case errChan <- err:
				default:
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting hunkdepd API", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(errChan)
	}()

	select {
	case <-sigs:
		cancel()
		_ = srv.Shutdown(context.Background())
		wg.Wait()
		return nil
	case err, ok := <-errChan:
		cancel()
		_ = srv.Shutdown(context.Background())
		wg.Wait()
		if ok {
			return fmt.Errorf("hunkdepd API error: %w", err)
		}
		return nil
	}
}

// cacheOrNil avoids handing tracker.New a non-nil interface value wrapping
// a nil *store.Store, which would make every cache.Load/Save call panic
// instead of the tracker's intended nil-cache fast path.
func cacheOrNil(s *store.Store) tracker.Cache {
	if s == nil {
		return nil
	}
	return s
}
