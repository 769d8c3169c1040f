package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kombefarm/flockdash/internal/poultry"
	"github.com/kombefarm/flockdash/internal/poultry/poultrytest"
)

// DemoOptions configure the demo backend.
type DemoOptions struct {
	Addr   string
	Token  string // empty accepts any caller
	Logger *zap.Logger
}

// demoFlocks seeds the demo backend.
var demoFlocks = []poultry.FlockRecord{
	{FlockName: "House A", FlockType: "Broiler", StockDate: "2026-08-01", NbrOfBirds: 500, Purpose: "Meat", Reduction: 12, Mortality: 9, Batch: "B-01", AvgWeight: 1.9, NbrOfDays: 42},
	{FlockName: "House B", FlockType: "Kuroiler", StockDate: "2026-06-15", NbrOfBirds: 300, Purpose: "Eggs", Reduction: 4, Mortality: 6, Batch: "K-07", AvgWeight: 2.3, NbrOfDays: 120},
	{FlockName: "House C", FlockType: "Layers", StockDate: "2026-03-02", NbrOfBirds: 800, Purpose: "Eggs", Reduction: 40, Mortality: 21, Batch: "L-03", AvgWeight: 1.7, NbrOfDays: 210},
	{FlockName: "Pen 4", FlockType: "Broiler", StockDate: "2026-07-20", NbrOfBirds: 200, Purpose: "Meat", Reduction: 200, Batch: "B-02", AvgWeight: 2.4, NbrOfDays: 56, SoldOut: true},
}

// ServeDemo serves an in-memory flock API on opts.Addr until ctx is done.
func ServeDemo(ctx context.Context, opts DemoOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	backend := poultrytest.NewBackend(opts.Token, demoFlocks...)
	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("demo backend listening", zap.String("addr", opts.Addr), zap.Int("flocks", len(demoFlocks)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve demo: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown demo: %w", err)
	}
	logger.Info("demo backend stopped")
	return nil
}
