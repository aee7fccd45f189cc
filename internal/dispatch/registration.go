// Package dispatch carries topic registrations from the topic manager to the naming layer.
//
// The Dispatcher is the manager's Registrar: it turns every new or changed topic config
// into a Registration and publishes it on the in-process bus without waiting. The
// Propagator consumes those messages and calls the name server client. Delivery is
// best effort; the periodic full registration of the broker repairs anything lost.
package dispatch

import (
	"time"

	"github.com/nfrund/mqbroker/internal/pubsub"
	"github.com/nfrund/mqbroker/internal/topicmgr"
)

// Mode selects how a registration is announced to the naming layer.
type Mode string

const (
	// ModeSingle announces one topic to every name server.
	ModeSingle Mode = "single"
	// ModeIncrement announces changed topics with the table version.
	ModeIncrement Mode = "increment"
)

// RegisterTopic is the bus topic registrations are published on.
const RegisterTopic = "broker.topic.register"

// RegisterEvent binds RegisterTopic to its payload.
var RegisterEvent = pubsub.NewEvent[Registration](RegisterTopic)

// Registration describes a topic change to be announced to the naming layer.
type Registration struct {
	ID          string                 `json:"id"`
	BrokerName  string                 `json:"brokerName"`
	ClusterName string                 `json:"clusterName"`
	Mode        Mode                   `json:"mode"`
	Topics      []topicmgr.TopicConfig `json:"topics"`
	DataVersion topicmgr.DataVersion   `json:"dataVersion"`
	CreatedAt   time.Time              `json:"createdAt"`
}
