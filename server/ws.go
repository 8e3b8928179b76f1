package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"spacex-dash/launches"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong before treating the connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	sendBufSize = 16

	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16384,
	// Same-origin page by default; CORS for the JSON API is handled by middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ControlMessage is sent by the browser whenever a control changes.
//
//	{"type":"view","controls":{"site":"ALL","payload":{"low":0,"high":9600}}}
//	{"type":"search","search":"ccafs"}
type ControlMessage struct {
	Type     string                 `json:"type"`
	Controls *launches.ControlState `json:"controls,omitempty"`
	Search   string                 `json:"search,omitempty"`
}

// Message is the JSON envelope sent back to the browser.
type Message struct {
	Event      string                `json:"event"`
	Data       *launches.View        `json:"data,omitempty"`
	PieSVG     string                `json:"pie_svg,omitempty"`
	ScatterSVG string                `json:"scatter_svg,omitempty"`
	Options    []launches.SiteOption `json:"options,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// hub tracks live WebSocket clients. Each client's messages are handled in
// arrival order, one recomputation at a time.
type hub struct {
	srv *Server

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

func newHub(srv *Server) *hub {
	return &hub{srv: srv, clients: make(map[*client]struct{})}
}

func (h *hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.srv.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBufSize)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.srv.log.Debug("websocket client connected", zap.String("remote", r.RemoteAddr), zap.Int("clients", n))

	go h.writePump(c)
	h.readPump(c)
}

// readPump handles incoming control messages until the connection drops.
func (h *hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.srv.log.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		out, err := json.Marshal(h.handle(data))
		if err != nil {
			h.srv.log.Error("websocket marshal failed", zap.Error(err))
			continue
		}
		select {
		case c.send <- out:
		default:
			h.srv.log.Warn("websocket client too slow, dropping")
			return
		}
	}
}

// handle turns one control message into its reply.
func (h *hub) handle(data []byte) Message {
	var msg ControlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{Event: "error", Error: "invalid message: " + err.Error()}
	}

	ds := h.srv.Dataset()
	switch msg.Type {
	case "search":
		return Message{Event: "options", Options: launches.SearchSites(ds, msg.Search)}

	case "view", "":
		cs := launches.DefaultControls(ds)
		if msg.Controls != nil {
			cs = *msg.Controls
		}
		cs, err := cs.Normalize(ds)
		if err != nil {
			return Message{Event: "error", Error: err.Error()}
		}
		v := launches.Compute(ds, cs, h.srv.opts.Policy)
		pie, scatter, err := h.srv.renderCharts(v)
		if err != nil {
			return Message{Event: "error", Error: err.Error()}
		}
		return Message{Event: "view", Data: &v, PieSVG: pie, ScatterSVG: scatter}

	default:
		return Message{Event: "error", Error: "unknown message type " + msg.Type}
	}
}

func (h *hub) writePump(c *client) {
	t := time.NewTicker(pingPeriod)
	defer func() {
		t.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-t.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// closeAll closes every connection; each readPump then removes its client.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close()
	}
}
