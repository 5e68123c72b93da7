package archive

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Archiver exports snapshots on a fixed interval in the background.
type Archiver struct {
	exporter *Exporter
	storage  SnapshotStorage
	interval time.Duration
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewArchiver starts a background snapshot loop. The first export runs after
// one full interval.
func NewArchiver(exporter *Exporter, storage SnapshotStorage, interval time.Duration, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &Archiver{
		exporter: exporter,
		storage:  storage,
		interval: interval,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}

	a.wg.Add(1)
	go a.loop()

	return a
}

// Shutdown stops the loop and waits for an in-flight export to finish.
func (a *Archiver) Shutdown(ctx context.Context) error {
	a.once.Do(a.cancel)

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (a *Archiver) loop() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.export()
		}
	}
}

func (a *Archiver) export() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	location, err := a.exporter.Export(ctx, a.storage)
	if err != nil {
		a.logger.Error("snapshot export failed", "error", err)
		return
	}

	a.logger.Info("snapshot exported", "location", location)
}
