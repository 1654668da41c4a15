package events

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/AlibekovAA/profile-editor/internal/common/constants"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
	"github.com/AlibekovAA/profile-editor/internal/observability/metrics"
	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
)

// Hub fans profile changes out to websocket subscribers. The client set is
// owned by the Run goroutine.
type Hub struct {
	clients     map[*Client]struct{}
	register    chan *Client
	unregister  chan *Client
	broadcast   chan []byte
	done        chan struct{}
	clientCount atomic.Int64
	upgrader    gorillaWS.Upgrader
	log         *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, constants.WebSocketSendBufSize),
		done:       make(chan struct{}),
		upgrader: gorillaWS.Upgrader{
			ReadBufferSize:  constants.WebSocketReadBufferSize,
			WriteBufferSize: constants.WebSocketWriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				host := r.Host
				if host == "" {
					host = r.URL.Host
				}
				return origin == "http://"+host || origin == "https://"+host
			},
		},
		log: log,
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.conn.Close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) Subscribers() int {
	return int(h.clientCount.Load())
}

// Publish queues a profile_updated event. It never blocks the caller; when
// the queue is full the event is dropped.
func (h *Hub) Publish(p domain.Profile) {
	record := domain.ToRecord(p)
	payload, err := json.Marshal(Message{Type: TypeProfileUpdated, Payload: &record})
	if err != nil {
		h.log.Errorf("profile event marshal failed: %v", err)
		return
	}

	select {
	case h.broadcast <- payload:
	case <-h.done:
	default:
		metrics.ProfileEventsDropped.Inc()
		h.log.Warn("profile event queue full, event dropped")
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			total := h.clientCount.Add(1)
			metrics.ProfileEventSubscribers.Set(float64(total))
			h.log.WithFields(client.ctx, logger.Fields{
				"remote": client.remote,
				"total":  total,
				"action": "ws_register",
			}).Info("profile event subscriber registered")

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			metrics.ProfileEventsBroadcast.Inc()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					metrics.ProfileEventsDropped.Inc()
					h.log.WithFields(client.ctx, logger.Fields{
						"remote": client.remote,
						"action": "ws_slow_subscriber",
					}).Warn("profile event subscriber too slow, disconnecting")
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	total := h.clientCount.Add(-1)
	metrics.ProfileEventSubscribers.Set(float64(total))
	h.log.WithFields(client.ctx, logger.Fields{
		"remote": client.remote,
		"total":  total,
		"action": "ws_unregister",
	}).Info("profile event subscriber unregistered")
}

func (h *Hub) shutdown() {
	shutdownMsg, err := json.Marshal(Message{Type: TypeShutdown})
	for client := range h.clients {
		if err == nil {
			select {
			case client.send <- shutdownMsg:
			default:
			}
		}
		close(client.send)
		delete(h.clients, client)
	}
	h.clientCount.Store(0)
	metrics.ProfileEventSubscribers.Set(0)
	h.log.Info("profile event hub shutdown completed")
}

// ServeHTTP upgrades the request and subscribes the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithFields(ctx, logger.Fields{
			"action": "ws_upgrade_failed",
		}).Errorf("websocket upgrade failed: %v", err)
		return
	}

	client := newClient(h, conn, r, h.log)
	h.Register(client)
	client.Start()
}
