package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	http_router "github.com/aryo-w/streetflow/pkg/http/router"
	"github.com/aryo-w/streetflow/pkg/http/router/controllers"
	http_server "github.com/aryo-w/streetflow/pkg/http/server"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,

	useRateLimit bool,
	trafficService controllers.TrafficService,
) (*Server, error) {
	config := http_server.Config{
		Port:    viper.GetInt("API_PORT"),
		Timeout: viper.GetDuration("API_TIMEOUT"),
	}

	api := http_router.NewAPI(log)

	g := errgroup.Group{}

	g.Go(func() error {
		return api.Run(ctx, config, log, useRateLimit, trafficService)
	})

	return s, nil
}

// GracefulShutdown blocks until an interrupt or termination signal.
func GracefulShutdown() os.Signal {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	return <-sig
}
