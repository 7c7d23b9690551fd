package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendance-svc/src/clients"
	"attendance-svc/src/internal/config"
	"attendance-svc/src/internal/dependency"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = *logrus.StandardLogger()

type Server struct {
	cfg  *config.Configuration
	deps *dependency.Manager
	http *http.Server
}

func New(cfg *config.Configuration) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())

	mongodb, err := clients.NewMongoDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize MongoDB client")
	}

	redisClient, err := clients.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize Redis client")
	}

	rabbitMQ, err := clients.NewRabbitMQ(&cfg.Queue)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize RabbitMQ client")
	}
	if err := rabbitMQ.SetupExchange(); err != nil {
		log.WithError(err).Fatal("Failed to declare RabbitMQ exchange")
	}

	deps := dependency.NewDependencyManager(router, mongodb, redisClient, rabbitMQ, cfg)
	SetupRoutes(deps)

	return &Server{
		cfg:  cfg,
		deps: deps,
		http: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		},
	}
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully and closes the backing clients.
func (s *Server) Start() error {
	errCh := make(chan error, 1)

	go func() {
		log.Infof("Listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infof("Received signal %s, shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.App.Timeout)*time.Second)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}

	s.deps.RabbitMQ.Close()
	s.deps.Redis.Close()
	s.deps.Mongodb.Close(ctx)

	log.Info("Server stopped")
	return nil
}
