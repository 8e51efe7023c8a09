package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connectfour-client/internal/entity"
)

const (
	sendBufferSize = 16
	writeWait      = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub pushes every drawn game state to the connected websocket watchers.
type Hub struct {
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*watcher]struct{}
	last    []byte
}

type watcher struct {
	send chan []byte
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "hub"),
		clients: make(map[*watcher]struct{}),
	}
}

// Publish sends state to every watcher. Watchers that fall behind miss the update.
func (that *Hub) Publish(state *entity.GameState) {
	data, err := json.Marshal(state)
	if err != nil {
		that.logger.Error("failed to marshal state", "method", "Publish", "error", err)
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.last = data

	for client := range that.clients {
		select {
		case client.send <- data:
		default:
		}
	}
}

func (that *Hub) Watchers() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.clients)
}

// ServeWS upgrades the request and streams states until the peer goes away.
func (that *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeWS")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	client := that.register()
	defer that.unregister(client)

	go that.writeLoop(conn, client)

	// the peer never sends anything we care about; reading only detects the close
	for {
		if _, _, err = conn.ReadMessage(); err != nil {
			log.Debug("watcher left", "error", err)
			return
		}
	}
}

func (that *Hub) register() *watcher {
	client := &watcher{send: make(chan []byte, sendBufferSize)}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[client] = struct{}{}
	if that.last != nil {
		client.send <- that.last
	}

	return client
}

func (that *Hub) unregister(client *watcher) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[client]; ok {
		delete(that.clients, client)
		close(client.send)
	}
}

func (that *Hub) writeLoop(conn *websocket.Conn, client *watcher) {
	for data := range client.send {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			that.logger.Debug("failed to write to watcher", "method", "writeLoop", "error", err)
			_ = conn.Close()
			return
		}
	}
}
