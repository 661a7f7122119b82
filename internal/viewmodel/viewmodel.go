// Package viewmodel sequences cache-first display, background refresh and
// loading state for the holdings screen.
package viewmodel

import (
	"context"
	"sync"
	"time"

	"github.com/STTM-NSU/holdings/internal/holdings"
	"github.com/STTM-NSU/holdings/internal/logger"
	"github.com/STTM-NSU/holdings/internal/model"
	"github.com/google/uuid"
)

type Fetcher interface {
	FetchPortfolio(ctx context.Context, url string) (model.Portfolio, error)
}

type Store interface {
	Save(p model.Portfolio)
	Load() (model.Portfolio, bool)
}

// Recorder receives cycle telemetry. *metrics.Metrics implements it.
type Recorder interface {
	CycleStarted()
	CycleFinished(result string, fetchDuration time.Duration)
	ObservePortfolio(s model.Summary)
}

const _resultSuccess = "success"

type Option func(*PortfolioViewModel)

func WithRecorder(r Recorder) Option {
	return func(vm *PortfolioViewModel) {
		vm.recorder = r
	}
}

// State is a consistent snapshot of everything the presentation layer reads.
type State struct {
	Portfolio    model.Portfolio
	HasPortfolio bool
	IsLoading    bool
	Error        string
	HasError     bool
	IsCollapsed  bool
}

type PortfolioViewModel struct {
	fetcher    Fetcher
	store      Store
	dispatcher Dispatcher
	url        string
	recorder   Recorder

	logger logger.Logger

	mu           sync.RWMutex
	portfolio    model.Portfolio
	hasPortfolio bool
	isLoading    bool
	errMessage   string
	hasError     bool
	isCollapsed  bool

	obsMu     sync.RWMutex
	observers []observerEntry
	nextObsID int
}

type observerEntry struct {
	id int
	o  Observer
}

func New(fetcher Fetcher, store Store, dispatcher Dispatcher, url string, logger logger.Logger, opts ...Option) *PortfolioViewModel {
	vm := &PortfolioViewModel{
		fetcher:     fetcher,
		store:       store,
		dispatcher:  dispatcher,
		url:         url,
		logger:      logger,
		isCollapsed: true,
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Subscribe registers o for notifications and returns a function removing it.
func (vm *PortfolioViewModel) Subscribe(o Observer) func() {
	vm.obsMu.Lock()
	defer vm.obsMu.Unlock()

	id := vm.nextObsID
	vm.nextObsID++
	vm.observers = append(vm.observers, observerEntry{id: id, o: o})

	return func() {
		vm.obsMu.Lock()
		defer vm.obsMu.Unlock()
		for i, e := range vm.observers {
			if e.id == id {
				vm.observers = append(vm.observers[:i:i], vm.observers[i+1:]...)
				return
			}
		}
	}
}

func (vm *PortfolioViewModel) Portfolio() (model.Portfolio, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.portfolio, vm.hasPortfolio
}

func (vm *PortfolioViewModel) IsLoading() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.isLoading
}

func (vm *PortfolioViewModel) Error() (string, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.errMessage, vm.hasError
}

func (vm *PortfolioViewModel) IsCollapsed() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.isCollapsed
}

func (vm *PortfolioViewModel) State() State {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return State{
		Portfolio:    vm.portfolio,
		HasPortfolio: vm.hasPortfolio,
		IsLoading:    vm.isLoading,
		Error:        vm.errMessage,
		HasError:     vm.hasError,
		IsCollapsed:  vm.isCollapsed,
	}
}

// ToggleSummary flips the collapsed flag. It sends no notification.
func (vm *PortfolioViewModel) ToggleSummary() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.isCollapsed = !vm.isCollapsed
}

// FetchPortfolio marks the view model as loading and starts one fetch cycle
// in the background. ctx bounds the network call only.
//
// Cycles are not serialized: a call made while another cycle is in flight
// starts a second cycle and their notifications may interleave.
func (vm *PortfolioViewModel) FetchPortfolio(ctx context.Context) *Task {
	vm.mu.Lock()
	vm.isLoading = true
	vm.errMessage, vm.hasError = "", false
	vm.mu.Unlock()

	task := newTask(uuid.NewString())
	go vm.run(ctx, task)
	return task
}

func (vm *PortfolioViewModel) run(ctx context.Context, task *Task) {
	defer close(task.done)
	log := vm.logger.With("cycle", task.id)

	if vm.recorder != nil {
		vm.recorder.CycleStarted()
	}

	if cached, ok := vm.store.Load(); ok {
		log.Debugf("showing cached portfolio")
		vm.adopt(cached)
		vm.notify(func(o Observer) { o.OnUpdated() })
	}

	start := time.Now()
	p, err := vm.fetcher.FetchPortfolio(ctx, vm.url)
	elapsed := time.Since(start)

	result := _resultSuccess
	if err != nil {
		result = holdings.KindOf(err).String()
		message := err.Error()
		log.Errorf("%s: can't fetch portfolio (%s)", err, result)

		vm.mu.Lock()
		vm.errMessage, vm.hasError = message, true
		vm.mu.Unlock()
		task.err = err

		vm.notify(func(o Observer) { o.OnError(message) })
	} else {
		log.Infof("fetched %d holdings in %s", len(p.Holdings()), elapsed)
		vm.adopt(p)
		vm.store.Save(p)
		vm.notify(func(o Observer) { o.OnUpdated() })
	}

	vm.mu.Lock()
	vm.isLoading = false
	vm.mu.Unlock()
	vm.notify(func(o Observer) { o.OnLoadingFinished() })

	if vm.recorder != nil {
		vm.recorder.CycleFinished(result, elapsed)
	}
}

func (vm *PortfolioViewModel) adopt(p model.Portfolio) {
	vm.mu.Lock()
	vm.portfolio, vm.hasPortfolio = p, true
	vm.mu.Unlock()

	if vm.recorder != nil {
		vm.recorder.ObservePortfolio(p.Summary())
	}
}

// notify delivers to the observers registered when the callback runs.
func (vm *PortfolioViewModel) notify(fn func(Observer)) {
	vm.dispatcher.Dispatch(func() {
		vm.obsMu.RLock()
		observers := make([]Observer, 0, len(vm.observers))
		for _, e := range vm.observers {
			observers = append(observers, e.o)
		}
		vm.obsMu.RUnlock()

		for _, o := range observers {
			fn(o)
		}
	})
}
