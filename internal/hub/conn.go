package hub

import (
	"context"
	"sync"
	"time"

	"smarthome_proxy/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB

	sendBuffer = 16
)

// Conn is a Channel backed by a WebSocket connection. One goroutine owns writes;
// inbound messages are read and discarded.
type Conn struct {
	ws   *websocket.Conn
	send chan any
	done chan struct{}
	once sync.Once
	log  *logger.Logger
}

var _ Channel = (*Conn)(nil)

func NewConn(ws *websocket.Conn, log *logger.Logger) *Conn {
	if log == nil {
		log = logger.NewNop()
	}
	return &Conn{
		ws:   ws,
		send: make(chan any, sendBuffer),
		done: make(chan struct{}),
		log:  log,
	}
}

func (c *Conn) Send(v any) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- v:
		return true
	default:
		return false
	}
}

// Close sends a close frame and tears the connection down.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

// Done is closed once the connection is closed.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Serve pumps queued events to the peer until the connection or ctx ends.
func (c *Conn) Serve(ctx context.Context) {
	go c.readPump()
	c.writePump(ctx)
}

func (c *Conn) readPump() {
	defer c.Close()

	c.ws.SetReadLimit(maxMsgSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			c.log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}

func (c *Conn) writePump(ctx context.Context) {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		case v := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(v); err != nil {
				c.log.Infow("ws_write_failed", "err", err)
				return
			}
		case <-ping.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Infow("ws_ping_failed", "err", err)
				return
			}
		}
	}
}
