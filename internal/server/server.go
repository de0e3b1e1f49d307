package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/emrgen/pagepurge/internal/module"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Server serves the purge API over HTTP.
type Server struct {
	httpPort        string
	purger          Purger
	verifier        module.TokenVerifier
	shutdownTimeout time.Duration
}

// NewServer creates a new server
func NewServer(httpPort string, purger Purger, verifier module.TokenVerifier, shutdownTimeout time.Duration) *Server {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &Server{
		httpPort:        httpPort,
		purger:          purger,
		verifier:        verifier,
		shutdownTimeout: shutdownTimeout,
	}
}

// Handler returns the routes wrapped in request logging and CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return c.Handler(RequestTimeInterceptor(NewRouter(s.purger, s.verifier)))
}

// Start serves until SIGTERM, SIGINT or SIGTSTP, then shuts down gracefully.
func (s *Server) Start() error {
	httpPort := ":" + s.httpPort

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	restServer := &http.Server{
		Addr:              httpPort,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// make sure to wait for the server to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting purge api on: ", httpPort)
		if err := restServer.Serve(rl); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("error starting purge api: %v", err)
		}
		logrus.Infof("purge api stopped")
	}()

	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	err = restServer.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("error stopping purge api: %v", err)
	}

	wg.Wait()

	return err
}
