package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const shutdownTimeout = 5 * time.Second

type NightlifeHttpServer struct {
	router    *Router
	muxRouter *mux.Router
	addr      string
}

func NewNightlifeHttpServer(router *Router, muxRouter *mux.Router, addr string) *NightlifeHttpServer {
	return &NightlifeHttpServer{
		router:    router,
		muxRouter: muxRouter,
		addr:      addr,
	}
}

// Handler registers the routes and returns the root handler.
func (s *NightlifeHttpServer) Handler() http.Handler {
	s.router.RegisterRoutes()
	return s.muxRouter
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *NightlifeHttpServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[NightlifeHttpServer] Starting server on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", s.addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[NightlifeHttpServer] Shutting down the server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Println("[NightlifeHttpServer] Server exiting")
	return nil
}
