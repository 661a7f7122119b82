package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/STTM-NSU/holdings/internal/logger"
	"github.com/STTM-NSU/holdings/internal/render"
	"github.com/STTM-NSU/holdings/internal/viewmodel"
	"github.com/google/subcommands"
)

// showCmd runs one fetch cycle and prints the screen.
type showCmd struct {
	configPath string
	plain      bool
	expanded   bool
	style      string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "fetch holdings once and print them" }
func (*showCmd) Usage() string {
	return `holdings show [-config <file>] [-plain] [-expanded] [-style <name>]

  Prints the cached portfolio, if any, as soon as it is loaded and the
  final state once the endpoint answers. The summary shows only profit
  and loss unless -expanded is set.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", _configFilePathDefault, "Path to the yaml config.")
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of terminal output.")
	f.BoolVar(&c.expanded, "expanded", false, "Show every summary row.")
	f.StringVar(&c.style, "style", "", "Glamour style (dark, light, notty). Detected when empty.")
}

func (c *showCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, sync, err := newApp(c.configPath, args)
	if err != nil {
		fail("%s", err)
		return subcommands.ExitFailure
	}
	defer sync()

	queue := viewmodel.NewSerialQueue(a.cfg.Server.DispatchBuffer)
	queueCtx, stopQueue := context.WithCancel(ctx)
	defer stopQueue()
	go queue.Run(queueCtx)

	vm := c.newViewModel(a, queue)

	// a cached slot means the cycle paints it before the network answers
	_, hasCache := a.store.Load()
	p := newScreenPainter(hasCache, vm.State, c.print, a.logger)
	vm.Subscribe(p)

	task := vm.FetchPortfolio(ctx)
	select {
	case <-p.finished:
	case <-ctx.Done():
		fail("interrupted")
		return subcommands.ExitFailure
	}

	if err := task.Wait(ctx); err != nil {
		if _, ok := vm.Portfolio(); !ok {
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

func (c *showCmd) newViewModel(a *app, d viewmodel.Dispatcher) *viewmodel.PortfolioViewModel {
	vm := a.viewModel(d)
	if c.expanded {
		vm.ToggleSummary()
	}
	return vm
}

func (c *showCmd) print(st viewmodel.State) {
	md := render.StateMarkdown(st)
	if c.plain {
		fmt.Println(md)
		return
	}
	out, err := render.Terminal(md, c.style, 0)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

// screenPainter prints the first update when a cached paint is expected and
// the final state when loading ends. Its callbacks run on one goroutine.
type screenPainter struct {
	hasCache     bool
	firstPainted bool
	state        func() viewmodel.State
	paint        func(viewmodel.State)
	logger       logger.Logger
	finished     chan struct{}
}

func newScreenPainter(hasCache bool, state func() viewmodel.State, paint func(viewmodel.State), logger logger.Logger) *screenPainter {
	return &screenPainter{
		hasCache: hasCache,
		state:    state,
		paint:    paint,
		logger:   logger,
		finished: make(chan struct{}),
	}
}

func (p *screenPainter) OnUpdated() {
	if p.hasCache && !p.firstPainted {
		p.firstPainted = true
		p.paint(p.state())
	}
}

func (p *screenPainter) OnError(message string) {
	p.logger.Warnf("refresh failed: %s", message)
}

func (p *screenPainter) OnLoadingFinished() {
	p.paint(p.state())
	close(p.finished)
}
