package channel

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
)

// WebsocketDialer is the production Dialer, speaking the websocket protocol
// the channel backend exposes under ws/.
type WebsocketDialer struct {
	// Dialer allows overriding handshake options. Nil uses the defaults.
	Dialer *websocket.Dialer
}

// Dial establishes a websocket connection to url.
func (d *WebsocketDialer) Dial(ctx context.Context, url string) (MessageConn, error) {
	wd := d.Dialer
	if wd == nil {
		wd = websocket.DefaultDialer
	}
	conn, resp, err := wd.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial %s: status %d: %w", url, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial %s: %w", url, err)
	}
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c *wsConn) WriteMessage(data []byte) error {
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
