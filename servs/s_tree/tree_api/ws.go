package tree_api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/rskv-p/htree/pkg/x_log"
	"github.com/rskv-p/htree/servs/s_tree/tree_serv"
)

const (
	wsSendBuffer   = 64
	wsWriteTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// hub fans store mutations out to every connected websocket client.
type hub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
	store   *tree_serv.Store
	log     zerolog.Logger
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func newHub(store *tree_serv.Store, log zerolog.Logger) *hub {
	h := &hub{
		clients: make(map[*wsClient]struct{}),
		store:   store,
		log:     log,
	}
	store.Subscribe(h.broadcast)
	return h
}

// broadcast runs under the store write lock, so it never blocks: a client
// whose buffer is full is dropped.
func (h *hub) broadcast(ev tree_serv.Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Msg("encode event")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn().Str("remote", c.conn.RemoteAddr().String()).Msg("ws client too slow, dropped")
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// serveWS upgrades the request and streams tree_serv.Event JSON messages,
// preceded by one {"op":"hello","size":N} message.
func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	log := x_log.From(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, wsSendBuffer)}
	hello, _ := json.Marshal(helloEvent{Op: "hello", Size: h.store.Len()})
	c.send <- hello

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("ws client connected")

	go c.writeLoop()

	// reads only detect the close; clients have nothing to say
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("ws client disconnected")
}

func (c *wsClient) writeLoop() {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

type helloEvent struct {
	Op   string `json:"op"`
	Size int    `json:"size"`
}
