// Package transport frames game messages on a websocket, as JSON text
// frames or, with ?format=proto, as binary protobuf frames.
package transport

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/trytobebee/snake_classic/pkg/game"
	"github.com/trytobebee/snake_classic/pkg/proto"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Message types sent by the servers
const (
	TypeConfig = "config"
	TypeState  = "state"
	TypeEnd    = "end" // Replay finished
)

type ServerMessage struct {
	Type   string           `json:"type"`
	Config *game.GameConfig `json:"config,omitempty"`
	State  *game.Snapshot   `json:"state,omitempty"`
}

type ClientMessage struct {
	Action string `json:"action"`
}

// Conn serializes writes; gorilla allows one concurrent writer
type Conn struct {
	ws    *websocket.Conn
	proto bool
	mu    sync.Mutex
}

// Upgrade switches the request to a websocket. The frame format is chosen
// by the format query parameter.
func Upgrade(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return &Conn{ws: ws, proto: r.URL.Query().Get("format") == "proto"}, nil
}

// Send writes one message
func (c *Conn) Send(msg ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.proto {
		b, err := proto.MarshalServerMessage(msg.Type, msg.Config, msg.State)
		if err != nil {
			return err
		}
		return c.ws.WriteMessage(websocket.BinaryMessage, b)
	}
	return c.ws.WriteJSON(msg)
}

// Receive blocks for the next client message
func (c *Conn) Receive() (ClientMessage, error) {
	var msg ClientMessage
	err := c.ws.ReadJSON(&msg)
	return msg, err
}

// Unblock makes a pending Receive return
func (c *Conn) Unblock() {
	c.ws.SetReadDeadline(time.Now())
}

// CloseNormal tells the client the session ended on purpose
func (c *Conn) CloseNormal(reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
}

// Close releases the connection
func (c *Conn) Close() error {
	return c.ws.Close()
}
