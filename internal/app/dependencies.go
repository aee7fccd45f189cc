package app

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"

	"github.com/nfrund/mqbroker/internal/admin"
	"github.com/nfrund/mqbroker/internal/config"
	"github.com/nfrund/mqbroker/internal/dispatch"
	"github.com/nfrund/mqbroker/internal/msgstore"
	"github.com/nfrund/mqbroker/internal/namesrv"
	"github.com/nfrund/mqbroker/internal/pubsub"
	"github.com/nfrund/mqbroker/internal/storage"
	"github.com/nfrund/mqbroker/internal/topicmgr"
)

// Version is the broker build version, overridden at link time.
var Version = "dev"

// Option overrides one of the default dependencies.
type Option func(*settings)

type settings struct {
	fs         afero.Fs
	clock      clock.Clock
	nameServer namesrv.Client
	store      *msgstore.Counter
}

// WithFs stores snapshots on fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *settings) { s.fs = fs }
}

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(s *settings) { s.clock = c }
}

// WithNameServer replaces the logging name server client.
func WithNameServer(c namesrv.Client) Option {
	return func(s *settings) { s.nameServer = c }
}

// WithMessageStore replaces the message store position counter.
func WithMessageStore(c *msgstore.Counter) Option {
	return func(s *settings) { s.store = c }
}

// ManagerOptions maps the broker configuration onto the topic manager.
func ManagerOptions(cfg *config.BrokerConfig) topicmgr.Options {
	return topicmgr.Options{
		BrokerName:              cfg.BrokerName,
		BrokerClusterName:       cfg.BrokerClusterName,
		StorePathRootDir:        cfg.StorePathRootDir,
		AutoCreateTopicEnable:   cfg.AutoCreateTopicEnable,
		ClusterTopicEnable:      cfg.ClusterTopicEnable,
		BrokerTopicEnable:       cfg.BrokerTopicEnable,
		TraceTopicEnable:        cfg.TraceTopicEnable,
		MsgTraceTopicName:       cfg.MsgTraceTopicName,
		TimerWheelEnable:        cfg.TimerWheelEnable,
		EnableSplitRegistration: cfg.EnableSplitRegistration,
		DefaultTopicQueueNums:   cfg.DefaultTopicQueueNums,
		ReviveQueueNum:          cfg.ReviveQueueNum,
	}
}

// newInjector declares every broker service. Services are built lazily on first invoke.
func newInjector(cfg *config.BrokerConfig, s settings) *do.RootScope {
	i := do.New()

	do.ProvideValue(i, cfg)
	do.ProvideValue[clock.Clock](i, s.clock)
	do.ProvideValue[afero.Fs](i, s.fs)

	do.Provide(i, func(i do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		return reg, nil
	})

	do.Provide(i, func(i do.Injector) (*pubsub.Tracing, error) {
		cfg := do.MustInvoke[*config.BrokerConfig](i)
		return pubsub.NewTracing(context.Background(), pubsub.TracingConfig{
			Enabled:     cfg.TracingEnabled,
			ServiceName: "mqbroker",
			BrokerName:  cfg.BrokerName,
			ZipkinURL:   cfg.ZipkinURL,
		})
	})

	do.Provide(i, func(i do.Injector) (*storage.AferoStore, error) {
		return storage.NewAferoStore(do.MustInvoke[afero.Fs](i)), nil
	})

	do.Provide(i, func(i do.Injector) (*msgstore.Counter, error) {
		if s.store != nil {
			return s.store, nil
		}
		return msgstore.NewCounter(0), nil
	})

	do.Provide(i, func(i do.Injector) (*pubsub.WatermillBridge, error) {
		t := do.MustInvoke[*pubsub.Tracing](i)
		return pubsub.NewWatermillBridge(pubsub.WithTracer(t.Tracer)), nil
	})

	do.Provide(i, func(i do.Injector) (*dispatch.Dispatcher, error) {
		cfg := do.MustInvoke[*config.BrokerConfig](i)
		return dispatch.NewDispatcher(dispatchOptions(i, cfg), do.MustInvoke[*pubsub.WatermillBridge](i)), nil
	})

	do.Provide(i, func(i do.Injector) (namesrv.Client, error) {
		if s.nameServer != nil {
			return s.nameServer, nil
		}
		return namesrv.NewLogClient(nil), nil
	})

	do.Provide(i, func(i do.Injector) (*dispatch.Propagator, error) {
		cfg := do.MustInvoke[*config.BrokerConfig](i)
		return dispatch.NewPropagator(dispatchOptions(i, cfg),
			do.MustInvoke[*pubsub.WatermillBridge](i),
			do.MustInvoke[namesrv.Client](i)), nil
	})

	do.Provide(i, func(i do.Injector) (*topicmgr.Manager, error) {
		opts := ManagerOptions(do.MustInvoke[*config.BrokerConfig](i))
		opts.Clock = do.MustInvoke[clock.Clock](i)
		opts.Registerer = do.MustInvoke[*prometheus.Registry](i)
		return topicmgr.NewManager(opts,
			do.MustInvoke[*msgstore.Counter](i),
			do.MustInvoke[*storage.AferoStore](i),
			do.MustInvoke[*dispatch.Dispatcher](i)), nil
	})

	do.Provide(i, func(i do.Injector) (*admin.Feed, error) {
		return admin.NewFeed(), nil
	})

	do.Provide(i, func(i do.Injector) (*admin.Server, error) {
		cfg := do.MustInvoke[*config.BrokerConfig](i)
		return admin.New(admin.Options{
			Addr:           cfg.AdminAddr,
			Version:        Version,
			Manager:        do.MustInvoke[*topicmgr.Manager](i),
			Feed:           do.MustInvoke[*admin.Feed](i),
			Gatherer:       do.MustInvoke[*prometheus.Registry](i),
			AutoCreateRate: cfg.AdminAutoCreateRate,
		}), nil
	})

	return i
}

func dispatchOptions(i do.Injector, cfg *config.BrokerConfig) dispatch.Options {
	return dispatch.Options{
		BrokerName:          cfg.BrokerName,
		BrokerClusterName:   cfg.BrokerClusterName,
		SingleTopicRegister: cfg.EnableSingleTopicRegister,
		Clock:               do.MustInvoke[clock.Clock](i),
		Tracer:              do.MustInvoke[*pubsub.Tracing](i).Tracer,
		Registerer:          do.MustInvoke[*prometheus.Registry](i),
	}
}
