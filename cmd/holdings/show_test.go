package main

import (
	"context"
	"testing"
	"time"

	"github.com/STTM-NSU/holdings/internal/logger"
	"github.com/STTM-NSU/holdings/internal/model"
	"github.com/STTM-NSU/holdings/internal/viewmodel"
)

type staticFetcher struct {
	p model.Portfolio
}

func (f staticFetcher) FetchPortfolio(ctx context.Context, url string) (model.Portfolio, error) {
	return f.p, nil
}

type slotStore struct {
	p  model.Portfolio
	ok bool
}

func (s *slotStore) Save(p model.Portfolio)        { s.p, s.ok = p, true }
func (s *slotStore) Load() (model.Portfolio, bool) { return s.p, s.ok }

func portfolioOf(symbol string) model.Portfolio {
	return model.Portfolio{Data: &model.PortfolioData{UserHolding: []model.Holding{
		{Symbol: symbol, Quantity: 1, LastTradedPrice: 10, AveragePrice: 8, ClosePrice: 9},
	}}}
}

// runPainted runs one cycle with the queue started only after the cycle has
// finished, so every notification is delivered late.
func runPainted(t *testing.T, store *slotStore) []viewmodel.State {
	t.Helper()
	queue := viewmodel.NewSerialQueue(16)
	vm := viewmodel.New(staticFetcher{p: portfolioOf("FRESH")}, store, queue, "https://example.com", logger.NewNop())

	var paints []viewmodel.State
	_, hasCache := store.Load()
	p := newScreenPainter(hasCache, vm.State, func(st viewmodel.State) { paints = append(paints, st) }, logger.NewNop())
	vm.Subscribe(p)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := vm.FetchPortfolio(ctx).Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	go queue.Run(ctx)
	select {
	case <-p.finished:
	case <-ctx.Done():
		t.Fatal("loading never finished")
	}
	queue.Close()
	return paints
}

func TestScreenPainterPaintsCachedFirstEvenWhenDeliveredLate(t *testing.T) {
	paints := runPainted(t, &slotStore{p: portfolioOf("CACHED"), ok: true})

	if len(paints) != 2 {
		t.Fatalf("expected first and final paint, got %d", len(paints))
	}
	if paints[1].IsLoading {
		t.Error("final paint must not be loading")
	}
	if got := paints[1].Portfolio.Holdings()[0].Symbol; got != "FRESH" {
		t.Errorf("final paint shows %s", got)
	}
}

func TestScreenPainterWithoutCachePaintsOnce(t *testing.T) {
	paints := runPainted(t, &slotStore{})

	if len(paints) != 1 {
		t.Fatalf("expected a single final paint, got %d", len(paints))
	}
	if !paints[0].HasPortfolio {
		t.Error("final paint has no portfolio")
	}
}
