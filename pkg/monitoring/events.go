package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/giongto35/screen-recorder/pkg/logger"
	"github.com/giongto35/screen-recorder/pkg/recorder"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/xid"
)

const (
	maxMessageSize = 1024
	pingTime       = pongTime * 9 / 10
	pongTime       = 60 * time.Second
	writeWait      = 10 * time.Second
	// queued messages of one client, the rest is dropped
	sendQueue = 64
)

// Event is a recorder notification sent to the websocket clients.
type Event struct {
	T      string           `json:"t"`
	Status string           `json:"status,omitempty"`
	Frame  int              `json:"frame,omitempty"`
	Time   *time.Time       `json:"time,omitempty"`
	Volume *int             `json:"volume,omitempty"`
	Path   string           `json:"path,omitempty"`
	Error  string           `json:"error,omitempty"`
	Delays map[string]int64 `json:"delays,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	WriteBufferPool: &sync.Pool{},
}

// Events streams recorder notifications to websocket clients.
type Events struct {
	log *logger.Logger

	mu      sync.Mutex
	clients map[xid.ID]*client
	volume  int
}

type client struct {
	id   xid.ID
	conn deadlinedConn
	send chan []byte
	done chan struct{}
}

func NewEvents(log *logger.Logger) *Events {
	return &Events{log: log.Component("events"), clients: map[xid.ID]*client{}, volume: -1}
}

// ServeHTTP upgrades the request and keeps the client until it goes away.
func (e *Events) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sock, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		e.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	c := &client{
		id:   xid.New(),
		conn: deadlinedConn{sock: sock, wt: writeWait},
		send: make(chan []byte, sendQueue),
		done: make(chan struct{}),
	}
	e.mu.Lock()
	e.clients[c.id] = c
	n := len(e.clients)
	e.mu.Unlock()
	e.log.Debug().Str("id", c.id.String()).Msgf("event client connected, %v total", n)

	go c.writer()
	c.reader()

	e.mu.Lock()
	delete(e.clients, c.id)
	e.mu.Unlock()
	close(c.send)
	<-c.done
	_ = c.conn.close()
	e.log.Debug().Str("id", c.id.String()).Msg("event client is gone")
}

// reader drops everything from the client, it's only needed for pongs and close.
func (c *client) reader() {
	c.conn.sock.SetReadLimit(maxMessageSize)
	_ = c.conn.sock.SetReadDeadline(time.Now().Add(pongTime))
	c.conn.sock.SetPongHandler(func(string) error {
		return c.conn.sock.SetReadDeadline(time.Now().Add(pongTime))
	})
	for {
		if _, err := c.conn.read(); err != nil {
			return
		}
	}
}

// writer pumps messages from the send channel to the websocket connection.
func (c *client) writer() {
	ticker := time.NewTicker(pingTime)
	defer func() {
		ticker.Stop()
		close(c.done)
	}()
	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				_ = c.conn.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.write(websocket.TextMessage, message); err != nil {
				_ = c.conn.close()
				for range c.send {
				}
				return
			}
		case <-ticker.C:
			if err := c.conn.write(websocket.PingMessage, nil); err != nil {
				_ = c.conn.close()
				for range c.send {
				}
				return
			}
		}
	}
}

// Clients returns the number of connected clients.
func (e *Events) Clients() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.clients)
}

func (e *Events) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		e.log.Error().Err(err).Msg("event encode")
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.clients {
		select {
		case c.send <- data:
		default:
			e.log.Debug().Str("id", c.id.String()).Msgf("%v event dropped", ev.T)
		}
	}
}

func (e *Events) OnStatus(s recorder.Status) { e.broadcast(Event{T: "status", Status: s.String()}) }

func (e *Events) OnFrame(n int, ts time.Time) { e.broadcast(Event{T: "frame", Frame: n, Time: &ts}) }

// OnVolume sends only the changes of the level.
func (e *Events) OnVolume(level int) {
	e.mu.Lock()
	same := e.volume == level
	e.volume = level
	e.mu.Unlock()
	if same {
		return
	}
	e.broadcast(Event{T: "volume", Volume: &level})
}

func (e *Events) OnRecoverableError(err error) {
	e.broadcast(Event{T: "recoverable_error", Error: err.Error()})
}

func (e *Events) OnSnapshot(path string) { e.broadcast(Event{T: "snapshot", Path: path}) }

func (e *Events) OnComplete(r recorder.Result) {
	e.broadcast(Event{T: "complete", Path: r.Path, Frame: r.Frames, Delays: r.FrameDelays})
}

func (e *Events) OnFailed(r recorder.Result) {
	e.broadcast(Event{T: "failed", Path: r.Path, Frame: r.Frames, Error: r.Cause().Error()})
}
