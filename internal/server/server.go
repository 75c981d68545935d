package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/doofx0071/gym-bro-sub000/internal/service"
)

// Server wraps the HTTP listener and the background task runner so shutdown
// can drain in-flight plan generations before exiting.
type Server struct {
	http   *http.Server
	runner *service.TaskRunner
}

// New creates a server for the given router.
func New(handler *gin.Engine, host, port string, runner *service.TaskRunner) *Server {
	return &Server{
		http: &http.Server{
			Addr:         net.JoinHostPort(host, port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		runner: runner,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, then waits for running generation jobs
// within the context's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}
	if s.runner != nil {
		if err := s.runner.Drain(ctx); err != nil {
			log.Printf("Shutdown with generation jobs still running: %v", err)
			return err
		}
	}
	return nil
}
