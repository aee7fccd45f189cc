// Package namesrv holds the broker's view of the naming layer: the calls that announce
// topic configuration changes so routing data stays current.
package namesrv

import (
	"context"
	"log/slog"

	"github.com/nfrund/mqbroker/internal/topicmgr"
)

// Client announces topic configs to the naming layer.
type Client interface {
	// RegisterSingleTopic announces one topic to every name server.
	RegisterSingleTopic(ctx context.Context, brokerName string, cfg topicmgr.TopicConfig) error
	// RegisterIncrement announces a batch of changed topics stamped with the table version.
	RegisterIncrement(ctx context.Context, brokerName string, cfgs []topicmgr.TopicConfig, dv topicmgr.DataVersion) error
}

// LogClient logs every registration. It is used when no name server is configured.
type LogClient struct {
	logger *slog.Logger
}

// NewLogClient returns a LogClient writing to logger, or to the default logger when nil.
func NewLogClient(logger *slog.Logger) *LogClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogClient{logger: logger}
}

// RegisterSingleTopic implements Client.
func (c *LogClient) RegisterSingleTopic(ctx context.Context, brokerName string, cfg topicmgr.TopicConfig) error {
	c.logger.InfoContext(ctx, "Register single topic", "broker", brokerName, "topic", cfg.TopicName, "config", cfg)
	return nil
}

// RegisterIncrement implements Client.
func (c *LogClient) RegisterIncrement(ctx context.Context, brokerName string, cfgs []topicmgr.TopicConfig, dv topicmgr.DataVersion) error {
	names := make([]string, 0, len(cfgs))
	for _, cfg := range cfgs {
		names = append(names, cfg.TopicName)
	}
	c.logger.InfoContext(ctx, "Register increment broker data", "broker", brokerName, "topics", names, "dataVersion", dv)
	return nil
}
