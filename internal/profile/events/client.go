package events

import (
	"context"
	"net/http"
	"time"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/AlibekovAA/profile-editor/internal/common/constants"
	commonhttp "github.com/AlibekovAA/profile-editor/internal/common/http"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
)

type Client struct {
	hub    *Hub
	conn   *gorillaWS.Conn
	send   chan []byte
	remote string
	ctx    context.Context
	log    *logger.Logger
}

func newClient(hub *Hub, conn *gorillaWS.Conn, r *http.Request, log *logger.Logger) *Client {
	traceID := commonhttp.TraceIDFromContext(r.Context())
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, constants.WebSocketSendBufSize),
		remote: commonhttp.GetClientIP(r),
		ctx:    context.WithValue(context.Background(), constants.TraceIDKey, traceID),
		log:    log,
	}
}

func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// readPump only drains control frames; subscribers never send data.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(constants.WebSocketMaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(constants.WebSocketPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(constants.WebSocketPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if gorillaWS.IsUnexpectedCloseError(err, gorillaWS.CloseGoingAway, gorillaWS.CloseAbnormalClosure) {
				c.log.Warnf("websocket read error remote=%s: %v", c.remote, err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(constants.WebSocketPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(constants.WebSocketWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(gorillaWS.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(constants.WebSocketWriteWait))
			if err := c.conn.WriteMessage(gorillaWS.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
