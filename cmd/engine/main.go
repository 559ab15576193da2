package main

import (
	"context"
	"flag"
	"time"

	"github.com/aryo-w/streetflow/pkg"
	"github.com/aryo-w/streetflow/pkg/http"
	"github.com/aryo-w/streetflow/pkg/http/usecases"
	"github.com/aryo-w/streetflow/pkg/logger"
	"github.com/aryo-w/streetflow/pkg/osmload"
	"github.com/aryo-w/streetflow/pkg/simulation"
	"github.com/aryo-w/streetflow/pkg/util"
	"go.uber.org/zap"
)

var (
	useRateLimit = flag.Bool("rate_limit", false, "enable per-client rate limiting on the http api")
	demoMapPath  = flag.String("demo_map", "", "path to a local .osm.pbf extract; when set, one simulation runs at startup and its summary is logged")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}

	if *demoMapPath != "" {
		runDemo(logger, *demoMapPath)
	}

	api := http.NewServer(logger)

	trafficService := usecases.NewTrafficService(logger)
	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}
	api.Use(ctx, logger, *useRateLimit, trafficService)

	signal := http.GracefulShutdown()

	logger.Info("Streetflow Traffic Engine Server Stopped", zap.String("signal", signal.String()))
	cleanup()
}

// runDemo loads a pbf extract and simulates it once, a smoke run for
// local development without a client.
func runDemo(log *zap.Logger, path string) {
	extract, err := osmload.Load(log, path)
	if err != nil {
		log.Error("demo map load failed", zap.Error(err))
		return
	}

	start := time.Now()
	sim := simulation.NewSimulator(log, &simulation.Request{
		Roads:     extract.Roads,
		Buildings: extract.Buildings,
		Signals:   extract.Signals,
		Frame:     extract.Frame,
		Seed:      pkg.DEFAULT_SEED,
	})
	result := sim.Run(context.Background())

	log.Info("demo simulation finished",
		zap.Int("trips", result.Meta.Trips),
		zap.Int("roads", len(result.RoadTraffic)),
		zap.Int("epicenters", len(result.Epicenters)),
		zap.Duration("elapsed", time.Since(start)))
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
