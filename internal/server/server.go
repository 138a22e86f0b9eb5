// Package server wiąże trasy HTTP fasady z handlerami i obsługuje łagodne zamknięcie.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alapierre/go-efatura-connector/internal/handler"
	"github.com/alapierre/go-efatura-connector/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "server")

// ShutdownTimeout czas na dokończenie trwających zapytań po sygnale zamknięcia.
const ShutdownTimeout = 30 * time.Second

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
}

func New(addr, apiToken string, querier handler.Querier) *Server {
	router := gin.New()
	router.HandleMethodNotAllowed = false
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())

	router.GET("/health", handler.Health)

	invoices := handler.NewInvoiceHandler(querier)
	v1 := router.Group("/v1", middleware.BearerAuth(apiToken))
	v1.POST("/invoices", invoices.QueryInvoices)

	router.NoRoute(handler.NotFound)
	router.NoMethod(handler.NotFound)

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start nasłuchuje do SIGINT/SIGTERM, potem zamyka serwer, czekając na trwające żądania.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", s.httpServer.Addr).Info("server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}
	logger.Info("server exited gracefully")
	return nil
}
