package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/goliatone/go-docrender/adapters/docapi"
	dochttp "github.com/goliatone/go-docrender/adapters/http"
	docrouter "github.com/goliatone/go-docrender/adapters/router"
	"github.com/goliatone/go-docrender/internal/config"
	"github.com/goliatone/go-router"
	"github.com/spf13/cobra"
)

// server is the lifecycle shared by both transports.
type server interface {
	Serve(addr string) error
	Shutdown(ctx context.Context) error
}

func newServeCmd(a *app) *cobra.Command {
	var (
		transport string
		port      string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the PDF endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if transport != "" {
				a.cfg.Server.Transport = transport
			}
			if port != "" {
				a.cfg.Server.Port = port
			}
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&transport, "transport", "", "router (fiber) or http (chi)")
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	engine, release, err := buildEngine(a.cfg.PDF)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			a.logger.Warn("release engine", "err", err)
		}
	}()

	logger := docLogger{l: a.logger}
	apiCfg := docapi.Config{
		Service:      newService(a.cfg, engine, logger),
		BasePath:     a.cfg.Server.BasePath,
		Logger:       logger,
		MaxBodyBytes: a.cfg.Server.MaxBodyBytes,
	}

	var srv server
	switch a.cfg.Server.Transport {
	case config.TransportHTTP:
		srv = newChiServer(apiCfg)
	default:
		srv = newRouterServer(apiCfg)
	}

	addr := a.cfg.Server.Addr()
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", "addr", addr, "transport", a.cfg.Server.Transport, "engine", a.cfg.PDF.Engine)
		errCh <- srv.Serve(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// routerServer runs the go-router fiber adapter.
type routerServer struct {
	srv router.Server[*fiber.App]
}

func newRouterServer(cfg docapi.Config) *routerServer {
	srv := router.NewFiberAdapter(func(*fiber.App) *fiber.App {
		app := fiber.New(fiber.Config{
			AppName:               "docgen",
			DisableStartupMessage: true,
			BodyLimit:             int(cfg.MaxBodyBytes),
		})
		app.Use(recover.New())
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
		}))
		return app
	})
	docrouter.NewHandler(cfg).RegisterRoutes(srv.Router())
	return &routerServer{srv: srv}
}

func (s *routerServer) Serve(addr string) error {
	return s.srv.Serve(addr)
}

func (s *routerServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// chiServer runs the net/http handler on a chi mux.
type chiServer struct {
	srv *http.Server
}

func newChiServer(cfg docapi.Config) *chiServer {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	dochttp.NewHandler(cfg).RegisterRoutes(r)
	return &chiServer{srv: &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

func (s *chiServer) Serve(addr string) error {
	s.srv.Addr = addr
	return s.srv.ListenAndServe()
}

func (s *chiServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
