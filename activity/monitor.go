package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SnapshotProvider fetches the current state of every worker.
type SnapshotProvider interface {
	Snapshots(ctx context.Context) ([]WorkerSnapshot, error)
}

// Pass is one refresh of the live view; every view in it shares Now.
type Pass struct {
	Now       time.Time
	Snapshots []WorkerSnapshot
	Views     []WorkerView
}

type Monitor struct {
	provider        SnapshotProvider
	sink            func(Pass) error
	logger          *slog.Logger
	pollingInterval time.Duration
	policy          LogoutPolicy
	clock           func() time.Time
}

func NewMonitor(provider SnapshotProvider, sink func(Pass) error, logger *slog.Logger, pollingInterval time.Duration, policy LogoutPolicy) *Monitor {
	return &Monitor{
		provider:        provider,
		sink:            sink,
		logger:          logger,
		pollingInterval: pollingInterval,
		policy:          policy,
		clock:           time.Now,
	}
}

// Run refreshes immediately and then every polling interval until ctx is
// done or a pass fails.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Debug("start polling", slog.Duration("interval", m.pollingInterval))
	for {
		p, err := m.Pass(ctx)
		if err != nil {
			return err
		}
		if err := m.sink(p); err != nil {
			return fmt.Errorf("publish pass: %w", err)
		}
		select {
		case <-time.After(m.pollingInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *Monitor) Pass(ctx context.Context) (Pass, error) {
	ws, err := m.provider.Snapshots(ctx)
	if err != nil {
		return Pass{}, err
	}
	now := m.clock()
	for _, w := range ws {
		for _, issue := range w.Issues() {
			m.logger.Warn("worker data", slog.String("worker", w.WorkerID), slog.String("issue", string(issue)))
		}
	}
	return Pass{Now: now, Snapshots: ws, Views: ReconcileAll(ws, now, m.policy)}, nil
}
