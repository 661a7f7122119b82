package main

import (
	"context"
	"flag"

	"github.com/STTM-NSU/holdings/internal/server"
	"github.com/STTM-NSU/holdings/internal/viewmodel"
	"github.com/google/subcommands"
)

// serveCmd runs the HTTP adapter around a long lived view model.
type serveCmd struct {
	configPath string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve holdings over HTTP and websocket" }
func (*serveCmd) Usage() string {
	return `holdings serve [-config <file>]

  Starts the HTTP server and runs an initial fetch cycle. Clients read
  GET /api/holdings and follow changes on GET /ws.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", _configFilePathDefault, "Path to the yaml config.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, sync, err := newApp(c.configPath, args)
	if err != nil {
		fail("%s", err)
		return subcommands.ExitFailure
	}
	defer sync()

	queue := viewmodel.NewSerialQueue(a.cfg.Server.DispatchBuffer)
	defer queue.Close()
	go queue.Run(ctx)

	vm := a.viewModel(queue)
	hub := server.NewHub(a.logger.With("component", "ws"))
	defer hub.Close()
	vm.Subscribe(hub)

	handler := server.NewHandler(ctx, vm, hub, a.metrics.Handler(), a.logger.With("component", "http"))
	srv := server.NewHTTPServer(ctx, a.cfg.Server.Port, handler)

	vm.FetchPortfolio(ctx)

	a.logger.Infof("listening on %s", srv.Addr())
	if err := srv.Run(ctx); err != nil {
		a.logger.Errorf("%s: server stopped", err)
		return subcommands.ExitFailure
	}
	a.logger.Infof("server stopped")
	return subcommands.ExitSuccess
}
