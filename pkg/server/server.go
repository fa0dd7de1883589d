package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	reports "github.com/POUPE-AI/poupeai-report-service/pkg/handlers/reports"
	poupeaimiddleware "github.com/POUPE-AI/poupeai-report-service/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server

	shutdownTimeout time.Duration
}

type Dependencies struct {
	Reports *reports.Handler
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := chi.NewRouter()

	router.Use(poupeaimiddleware.Logger(&logger))
	router.Use(poupeaimiddleware.CorrelationID)
	router.Use(middleware.Recoverer)

	h := config.Dependencies.Reports
	router.Route("/api/v1/reports", func(r chi.Router) {
		r.Use(poupeaimiddleware.BearerToken)
		r.Get("/overview", h.Overview)
		r.Get("/expense", h.Expense)
		r.Get("/income", h.Income)
		r.Get("/category/{category}", h.Category)
		r.Post("/insights", h.Insights)
		r.Post("/savings/estimate", h.SavingsEstimate)
	})
	router.Route("/api/internal/categorization", func(r chi.Router) {
		r.Post("/predict", h.Categorize)
	})

	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
