package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pitwall/strategy-engine/log"
	"github.com/pitwall/strategy-engine/pkg/api"
	"github.com/pitwall/strategy-engine/pkg/config"
	"github.com/pitwall/strategy-engine/pkg/store"
	"github.com/pitwall/strategy-engine/pkg/track"
	"github.com/pitwall/strategy-engine/pkg/ws"
)

// NewServerCmd creates the command to start the HTTP analytics server.
func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "starts the strategy analytics HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
	cmd.Flags().StringVar(&config.HTTPServerAddr, "http-addr",
		"localhost:8080",
		"listen address for the HTTP API")
	cmd.Flags().StringVar(&config.LapStore, "lap-store",
		"",
		"path to the sqlite lap store (empty keeps the session in memory)")
	cmd.Flags().BoolVar(&config.WatchProfiles, "watch-profiles",
		false,
		"reload the track profile overlay when the file changes")
	return cmd
}

func setupLogger() (*log.Logger, error) {
	lvl, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}
	l := log.New(lvl,
		log.WithFormat(config.LogFormat),
		log.WithFilters(config.LogFilters))
	log.ResetDefault(l)
	return l, nil
}

func setupStore(l *log.Logger) (store.LapStore, error) {
	if config.LapStore == "" {
		return store.NewMemoryStore(), nil
	}
	l.Info("using sqlite lap store", log.String("path", config.LapStore))
	return store.NewSqliteStore(config.LapStore)
}

func loadRegistry() (*track.Registry, error) {
	if config.TrackProfiles == "" {
		return track.New()
	}
	return track.New(track.WithOverlayFile(config.TrackProfiles))
}

//nolint:funlen // wiring
func runServer() error {
	l, err := setupLogger()
	if err != nil {
		return err
	}
	defer l.Sync() //nolint:errcheck // stderr sync may fail, don't care

	laps, err := setupStore(l)
	if err != nil {
		return err
	}
	defer laps.Close()

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	// the registry itself is immutable, reloads swap the pointer
	var current atomic.Pointer[track.Registry]
	current.Store(reg)

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if config.WatchProfiles && config.TrackProfiles != "" {
		watcher, wErr := watchProfiles(ctx, &current, l)
		if wErr != nil {
			return wErr
		}
		defer watcher.Close()
	}

	hub := ws.NewHub()
	go hub.Run()
	defer hub.Shutdown()

	handler := api.NewHandler(laps, current.Load, hub)
	srv := &http.Server{
		Addr:              config.HTTPServerAddr,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("http server listening", log.String("addr", config.HTTPServerAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		l.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// watchProfiles rebuilds the registry whenever the overlay file
// changes. A broken overlay keeps the previous registry in place.
func watchProfiles(
	ctx context.Context,
	current *atomic.Pointer[track.Registry],
	l *log.Logger,
) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(config.TrackProfiles); err != nil {
		watcher.Close()
		return nil, err
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				reg, rErr := loadRegistry()
				if rErr != nil {
					l.Warn("track profile reload failed, keeping previous",
						log.ErrorF(rErr))
					continue
				}
				current.Store(reg)
				l.Info("track profiles reloaded",
					log.String("file", config.TrackProfiles))
			case wErr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.Warn("profile watcher error", log.ErrorF(wErr))
			}
		}
	}()
	return watcher, nil
}
