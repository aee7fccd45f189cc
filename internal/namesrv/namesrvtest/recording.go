// Package namesrvtest provides a namesrv.Client that records registrations for tests.
package namesrvtest

import (
	"context"
	"sync"

	"github.com/nfrund/mqbroker/internal/namesrv"
	"github.com/nfrund/mqbroker/internal/topicmgr"
)

var _ namesrv.Client = (*RecordingClient)(nil)

// Call is one registration seen by a RecordingClient.
type Call struct {
	Single      bool
	BrokerName  string
	Topics      []topicmgr.TopicConfig
	DataVersion topicmgr.DataVersion
}

// RecordingClient remembers every registration and can be made to fail.
type RecordingClient struct {
	mu    sync.Mutex
	calls []Call
	err   error

	// Notify, when set, receives every recorded call.
	Notify chan Call
}

// NewRecordingClient returns an empty RecordingClient.
func NewRecordingClient() *RecordingClient {
	return &RecordingClient{}
}

// FailWith makes every later call record and then return err.
func (c *RecordingClient) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Calls returns a copy of the recorded calls.
func (c *RecordingClient) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// RegisterSingleTopic implements namesrv.Client.
func (c *RecordingClient) RegisterSingleTopic(ctx context.Context, brokerName string, cfg topicmgr.TopicConfig) error {
	return c.record(Call{Single: true, BrokerName: brokerName, Topics: []topicmgr.TopicConfig{cfg}})
}

// RegisterIncrement implements namesrv.Client.
func (c *RecordingClient) RegisterIncrement(ctx context.Context, brokerName string, cfgs []topicmgr.TopicConfig, dv topicmgr.DataVersion) error {
	return c.record(Call{BrokerName: brokerName, Topics: cfgs, DataVersion: dv})
}

func (c *RecordingClient) record(call Call) error {
	c.mu.Lock()
	c.calls = append(c.calls, call)
	err := c.err
	notify := c.Notify
	c.mu.Unlock()

	if notify != nil {
		notify <- call
	}
	return err
}
