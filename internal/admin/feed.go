package admin

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/nfrund/mqbroker/internal/dispatch"
	"github.com/nfrund/mqbroker/internal/pubsub"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Outbound messages buffered per client before it is dropped.
	sendBuffer = 256
)

// client represents a single connected watcher.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Feed streams every topic registration published on the bus to connected
// websocket clients. Slow clients are dropped rather than slowing the bus.
type Feed struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	count      atomic.Int64
}

// NewFeed creates a Feed. Start must be called before clients can connect.
func NewFeed() *Feed {
	return &Feed{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
	}
}

// Start runs the client loop and subscribes to registrations. Both stop when ctx is cancelled.
func (f *Feed) Start(ctx context.Context, sub dispatch.Subscriber) error {
	go f.run(ctx)
	return sub.Subscribe(ctx, dispatch.RegisterTopic, func(ctx context.Context, msg pubsub.Message) error {
		f.Broadcast(msg.Payload)
		return nil
	})
}

// Clients returns the number of connected clients.
func (f *Feed) Clients() int {
	return int(f.count.Load())
}

// Broadcast queues message for every connected client.
func (f *Feed) Broadcast(message []byte) {
	select {
	case f.broadcast <- message:
	case <-f.done:
	}
}

func (f *Feed) run(ctx context.Context) {
	slog.Info("Topic registration feed started")
	defer close(f.done)

	for {
		select {
		case c := <-f.register:
			f.clients[c] = true
			f.count.Store(int64(len(f.clients)))
			slog.Info("Feed client registered", "client", c.id)

		case c := <-f.unregister:
			f.drop(c)

		case message := <-f.broadcast:
			for c := range f.clients {
				select {
				case c.send <- message:
				default:
					slog.Warn("Feed client send channel full, connection dropped", "client", c.id)
					f.drop(c)
				}
			}

		case <-ctx.Done():
			for c := range f.clients {
				f.drop(c)
			}
			slog.Info("Topic registration feed stopped")
			return
		}
	}
}

func (f *Feed) drop(c *client) {
	if _, ok := f.clients[c]; !ok {
		return
	}
	delete(f.clients, c)
	close(c.send)
	f.count.Store(int64(len(f.clients)))
	slog.Info("Feed client unregistered", "client", c.id)
}

// ServeHTTP upgrades the request to a websocket and registers the client.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The admin API binds to a private address.
		InsecureSkipVerify: true,
	})
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case f.register <- c:
	case <-f.done:
		conn.Close(websocket.StatusGoingAway, "feed stopped")
		return
	}

	go f.writePump(c)
	go f.readPump(c)
}

// readPump discards client input and unregisters the client once the connection closes.
func (f *Feed) readPump(c *client) {
	ctx := c.conn.CloseRead(context.Background())
	<-ctx.Done()

	select {
	case f.unregister <- c:
	case <-f.done:
	}
}

func (f *Feed) writePump(c *client) {
	defer c.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")

	for message := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			slog.Error("WebSocket write error", "client", c.id, "error", err)
			return
		}
	}
}
