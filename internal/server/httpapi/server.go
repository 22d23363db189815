// Package httpapi exposes the recovery protocol over HTTP, mirroring the
// wallet helper's REST surface.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accounthelper/internal/logging"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

type Server struct {
	address  string
	recovery Recovery
	logger   logging.Logger
}

func NewServer(address string, logger logging.Logger, recovery Recovery) (*Server, error) {
	return &Server{
		address:  address,
		recovery: recovery,
		logger:   logger.With("module", "http_server"),
	}, nil
}

func (s *Server) routes() http.Handler {
	router := httprouter.New()
	router.POST("/account", s.handleCreateAccount)
	router.POST("/account/:phoneNumber/:accountId/requestCode", s.handleRequestCode)
	router.POST("/account/:phoneNumber/:accountId/validateCode", s.handleValidateCode)

	// httprouter rejects a static segment alongside the :phoneNumber
	// wildcard, so this route is matched before the router runs.
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/account/sendRecoveryMessage" {
			s.handleSendRecoveryMessage(w, r, nil)
			return
		}
		router.ServeHTTP(w, r)
	})

	c := cors.New(cors.Options{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
	})

	return c.Handler(s.withRequestLog(h))
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
