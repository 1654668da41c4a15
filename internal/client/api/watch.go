package api

import (
	"context"
	"errors"
	"net/http"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
	"github.com/AlibekovAA/profile-editor/internal/profile/events"
	profilehttp "github.com/AlibekovAA/profile-editor/internal/profile/http"
)

var ErrStreamClosed = errors.New("profile event stream closed by server")

// Watch subscribes to profile change events and calls onUpdate for each one
// until ctx is done, the server shuts the stream down or the connection fails.
func (c *Client) Watch(ctx context.Context, onUpdate func(domain.Profile)) error {
	wsURL := *c.baseURL
	switch wsURL.Scheme {
	case "https":
		wsURL.Scheme = "wss"
	default:
		wsURL.Scheme = "ws"
	}
	wsURL.Path = profilehttp.EventsPath

	header := http.Header{}
	if c.token != nil {
		if token := c.token(); token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	conn, resp, err := gorillaWS.DefaultDialer.DialContext(ctx, wsURL.String(), header)
	if err != nil {
		if resp != nil {
			return &APIError{Status: resp.StatusCode}
		}
		return err
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		var msg events.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if gorillaWS.IsCloseError(err, gorillaWS.CloseNormalClosure, gorillaWS.CloseGoingAway) {
				return ErrStreamClosed
			}
			return err
		}

		switch msg.Type {
		case events.TypeProfileUpdated:
			if msg.Payload == nil {
				continue
			}
			p, err := domain.FromRecord(*msg.Payload)
			if err != nil {
				c.debugf("skipping malformed profile event: %v", err)
				continue
			}
			onUpdate(p)
		case events.TypeShutdown:
			return ErrStreamClosed
		}
	}
}
