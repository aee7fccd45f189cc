// Package app wires the broker's services together and runs them.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/benbjohnson/clock"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"

	"github.com/nfrund/mqbroker/internal/admin"
	"github.com/nfrund/mqbroker/internal/config"
	"github.com/nfrund/mqbroker/internal/dispatch"
	"github.com/nfrund/mqbroker/internal/pubsub"
	"github.com/nfrund/mqbroker/internal/topicmgr"
)

// Broker is the running broker process: topic registry, registration pipeline and admin API.
type Broker struct {
	injector *do.RootScope
	cfg      *config.BrokerConfig

	Manager    *topicmgr.Manager
	Dispatcher *dispatch.Dispatcher

	bus        *pubsub.WatermillBridge
	propagator *dispatch.Propagator
	feed       *admin.Feed
	admin      *admin.Server

	cancel context.CancelFunc
	errCh  chan error
}

// New builds every service of the broker without starting any of them.
func New(cfg *config.BrokerConfig, opts ...Option) (*Broker, error) {
	s := settings{fs: afero.NewOsFs(), clock: clock.New()}
	for _, opt := range opts {
		opt(&s)
	}

	i := newInjector(cfg, s)
	b := &Broker{injector: i, cfg: cfg, errCh: make(chan error, 1)}

	var err error
	if b.Manager, err = do.Invoke[*topicmgr.Manager](i); err != nil {
		return nil, fmt.Errorf("failed to build topic manager: %w", err)
	}
	if b.Dispatcher, err = do.Invoke[*dispatch.Dispatcher](i); err != nil {
		return nil, fmt.Errorf("failed to build dispatcher: %w", err)
	}
	if b.propagator, err = do.Invoke[*dispatch.Propagator](i); err != nil {
		return nil, fmt.Errorf("failed to build propagator: %w", err)
	}
	if b.admin, err = do.Invoke[*admin.Server](i); err != nil {
		return nil, fmt.Errorf("failed to build admin server: %w", err)
	}
	b.bus = do.MustInvoke[*pubsub.WatermillBridge](i)
	b.feed = do.MustInvoke[*admin.Feed](i)
	return b, nil
}

// Start bootstraps the system topics, merges the persisted snapshot on top, and starts
// the registration pipeline and the admin server.
func (b *Broker) Start(ctx context.Context) error {
	b.Manager.Bootstrap()
	found, err := b.Manager.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load topic config: %w", err)
	}
	if !found {
		// Persist the bootstrapped table so the next start has a snapshot to merge.
		if err := b.Manager.Persist(ctx); err != nil {
			return err
		}
	}

	runCtx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	if err := b.propagator.Start(runCtx); err != nil {
		cancel()
		return err
	}
	if err := b.feed.Start(runCtx, b.bus); err != nil {
		cancel()
		return err
	}

	go func() {
		if err := b.admin.Start(); err != nil {
			slog.Error("Admin server stopped", "error", err)
			b.errCh <- err
		}
	}()

	slog.Info("Broker started", "broker", b.cfg.BrokerName, "cluster", b.cfg.BrokerClusterName,
		"topics", len(b.Manager.Names()), "dataVersion", b.Manager.DataVersion())
	return nil
}

// Errors reports fatal errors of background services.
func (b *Broker) Errors() <-chan error {
	return b.errCh
}

// ApplyConfig applies the settings that may change while the broker runs.
func (b *Broker) ApplyConfig(cfg *config.BrokerConfig) {
	b.Manager.SetAutoCreateTopicEnable(cfg.AutoCreateTopicEnable)
	b.Dispatcher.SetSingleTopicRegister(cfg.EnableSingleTopicRegister)
}

// Shutdown stops the admin server and the registration pipeline. All errors are reported.
func (b *Broker) Shutdown(ctx context.Context) error {
	var result error

	// The injector shuts down every service implementing a Shutdown method: the admin
	// server first, the tracer provider last.
	if report := b.injector.ShutdownWithContext(ctx); report != nil && !report.Succeed {
		result = multierror.Append(result, report)
	}
	if b.cancel != nil {
		b.cancel()
	}
	if err := b.bus.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("bus: %w", err))
	}

	slog.Info("Broker stopped", "broker", b.cfg.BrokerName)
	return result
}
