package main

import (
	"fmt"
	"os"

	"github.com/STTM-NSU/holdings/internal/cache"
	"github.com/STTM-NSU/holdings/internal/config"
	"github.com/STTM-NSU/holdings/internal/holdings"
	"github.com/STTM-NSU/holdings/internal/logger"
	"github.com/STTM-NSU/holdings/internal/metrics"
	"github.com/STTM-NSU/holdings/internal/viewmodel"
)

// app bundles the dependencies shared by every subcommand.
type app struct {
	cfg     config.Config
	logger  logger.Logger
	metrics *metrics.Metrics
	store   *cache.Store
	client  *holdings.Client
}

func newApp(configPath string, args []interface{}) (*app, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: can't load config %s", err, configPath)
	}

	zapLogger, loggerSync, err := logger.NewZapLogger(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: can't init logger", err)
	}
	if len(args) > 0 && args[0] != nil {
		zapLogger.Warnf("can't detect .env file")
	}

	m := metrics.New()
	a := &app{
		cfg:     cfg,
		logger:  zapLogger,
		metrics: m,
		store:   cache.New(cache.DefaultPath(cfg.Cache.Dir), zapLogger.With("component", "cache"), cache.WithRecorder(m)),
		client:  holdings.NewClient(cfg.Client, zapLogger.With("component", "client")),
	}
	zapLogger.Debugf("endpoint %s, cache %s", cfg.Client.Endpoint, a.store.Path())

	return a, loggerSync, nil
}

func (a *app) viewModel(dispatcher viewmodel.Dispatcher) *viewmodel.PortfolioViewModel {
	return viewmodel.New(a.client, a.store, dispatcher, a.cfg.Client.Endpoint,
		a.logger.With("component", "viewmodel"), viewmodel.WithRecorder(a.metrics))
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
