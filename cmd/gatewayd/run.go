package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/coregate/gateway/internal/admin"
	"github.com/coregate/gateway/internal/cluster"
	"github.com/coregate/gateway/internal/config"
	"github.com/coregate/gateway/internal/gateway"
	"github.com/coregate/gateway/internal/logging"
	"github.com/spf13/cobra"
)

func newRunCmd(configPath *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Load the config and serve traffic until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGateway(*configPath, *debug)
		},
	}
}

func runGateway(configPath string, debug bool) error {
	logger := logging.New(debug)
	defer logger.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Errorw("failed to load config", "error", err)
		return err
	}
	if err := cfg.Validate(); err != nil {
		logger.Errorw("invalid config", "error", err)
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result, err := gateway.Build(ctx, cfg, logger)
	if err != nil {
		logger.Errorw("failed to build gateway", "error", err)
		return err
	}
	for _, mgr := range result.ClusterManagers {
		mgr.StartRefresher(ctx, cluster.DefaultRefreshInterval, logger)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Infow("received shutdown signal")
		cancel()
	}()

	var wg sync.WaitGroup
	var servers []*http.Server

	for _, l := range result.Listeners {
		srv := &http.Server{Addr: l.Config.Address, Handler: l.Engine}
		if l.Config.Protocol == config.ProtocolHTTPS {
			tlsCfg, err := gateway.TLSConfig(l.Config.SSLConfig)
			if err != nil {
				logger.Errorw("failed to load tls config", "listener", l.Config.Name, "error", err)
				return err
			}
			srv.TLSConfig = tlsCfg
		}
		servers = append(servers, srv)

		wg.Add(1)
		go func(srv *http.Server, l gateway.Listener) {
			defer wg.Done()
			logger.Infow("listener starting", "name", l.Config.Name, "address", l.Config.Address)
			var serveErr error
			if l.Config.Protocol == config.ProtocolHTTPS {
				serveErr = srv.ListenAndServeTLS("", "")
			} else {
				serveErr = srv.ListenAndServe()
			}
			if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				logger.Errorw("listener failed", "name", l.Config.Name, "error", serveErr)
			}
		}(srv, l)
	}

	var adminSrv *http.Server
	if cfg.Admin != nil {
		adminSrv = &http.Server{Addr: cfg.Admin.Address, Handler: admin.Handler(result.ClusterManagers)}
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Infow("admin listener starting", "address", cfg.Admin.Address)
			if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorw("admin listener failed", "error", err)
			}
		}()
	}

	<-ctx.Done()
	for _, srv := range servers {
		_ = srv.Shutdown(context.Background())
	}
	if adminSrv != nil {
		_ = adminSrv.Shutdown(context.Background())
	}
	wg.Wait()
	return nil
}
