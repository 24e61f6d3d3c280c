package realtime

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"studentbidz/internal/fanout"
	"studentbidz/utils"
)

const maxMessageSize = 64 * 1024

const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

// WSRequest is a subscribe/unsubscribe command from a connected viewer.
type WSRequest struct {
	Action string   `json:"action"`
	Topics []string `json:"topics"`
	ID     string   `json:"id,omitempty"`
}

// WSResponse acknowledges a command or reports a protocol error.
type WSResponse struct {
	Type    string `json:"type"` // "ack" or "error"
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// Client bridges one WebSocket connection to the event fanout: commands come
// in over the socket, subscribed events go out as JSON frames.
type Client struct {
	conn net.Conn
	hub  *fanout.Hub
	sub  *fanout.Subscription
	// control carries acks/errors from the read side; all socket writes
	// happen on the writePump goroutine.
	control chan []byte

	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
}

// Upgrade upgrades an HTTP request to a WebSocket client and starts its pumps.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *fanout.Hub) error {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		return err
	}

	c := &Client{
		conn:       conn,
		hub:        hub,
		sub:        hub.Subscribe(),
		control:    make(chan []byte, 16),
		writeWait:  5 * time.Second,
		pongWait:   60 * time.Second,
		pingPeriod: 50 * time.Second,
	}
	go c.writePump()
	go c.readPump()
	return nil
}

func (c *Client) readPump() {
	defer func() {
		c.sub.Close() // closes the event channel, which stops writePump
	}()

	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))

	for {
		header, err := ws.ReadHeader(c.conn)
		if err != nil {
			return
		}
		if header.Length > maxMessageSize || !header.Fin {
			return
		}

		payload := make([]byte, header.Length)
		if _, err := io.ReadFull(c.conn, payload); err != nil {
			return
		}
		if header.Masked {
			ws.Cipher(payload, header.Mask, 0)
		}

		switch header.OpCode {
		case ws.OpClose:
			return
		case ws.OpPong:
			c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
			continue
		case ws.OpText:
			c.handleCommand(payload)
		}
	}
}

func (c *Client) handleCommand(payload []byte) {
	var req WSRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		c.sendJSON(WSResponse{Type: "error", Message: "invalid JSON"})
		return
	}

	topics := make([]string, 0, len(req.Topics))
	for _, t := range req.Topics {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		c.sendJSON(WSResponse{Type: "error", ID: req.ID, Message: "no topics provided"})
		return
	}

	switch req.Action {
	case ActionSubscribe:
		c.hub.AddTopics(c.sub, topics...)
	case ActionUnsubscribe:
		c.hub.RemoveTopics(c.sub, topics...)
	default:
		c.sendJSON(WSResponse{Type: "error", ID: req.ID, Message: "unknown action: " + req.Action})
		return
	}
	c.sendJSON(WSResponse{Type: "ack", ID: req.ID})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.sub.Events():
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if !ok {
				c.conn.Write(ws.CompiledClose)
				return
			}
			msg, err := json.Marshal(ev)
			if err != nil {
				utils.Error("realtime: marshal event", map[string]any{"error": err.Error()})
				continue
			}
			if err := wsutil.WriteServerText(c.conn, msg); err != nil {
				return
			}

		case msg := <-c.control:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := wsutil.WriteServerText(c.conn, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := wsutil.WriteServerMessage(c.conn, ws.OpPing, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case c.control <- b:
	default:
		// Control channel full: drop the ack rather than block reads.
	}
}
