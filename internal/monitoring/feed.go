package monitoring

import (
	"log"
	"net/http"
	"sync"
	"time"

	"hgl-backend/internal/metrics"
	"hgl-backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	queueSize  = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RecordFeed pushes record events to every connected websocket client so
// open record lists refresh without polling.
type RecordFeed struct {
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan models.RecordEvent
	done       chan struct{}
	closeOnce  sync.Once
}

func NewRecordFeed() *RecordFeed {
	return &RecordFeed{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan models.RecordEvent, queueSize),
		done:      make(chan struct{}),
	}
}

// Run delivers queued events until Close is called.
func (f *RecordFeed) Run() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event := <-f.broadcast:
			f.send(func(c *websocket.Conn) error { return c.WriteJSON(event) })
		case <-ticker.C:
			f.send(func(c *websocket.Conn) error {
				return c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			})
		case <-f.done:
			f.clientsMux.Lock()
			for c := range f.clients {
				c.Close()
				delete(f.clients, c)
			}
			f.clientsMux.Unlock()
			metrics.FeedClients.Set(0)
			return
		}
	}
}

// Publish queues an event. It never blocks a request: when the queue is
// full the event is dropped.
func (f *RecordFeed) Publish(event models.RecordEvent) {
	select {
	case f.broadcast <- event:
	default:
		log.Printf("[Feed] queue full, dropping %s event", event.Type)
	}
}

func (f *RecordFeed) Close() {
	f.closeOnce.Do(func() { close(f.done) })
}

func (f *RecordFeed) ClientCount() int {
	f.clientsMux.Lock()
	defer f.clientsMux.Unlock()
	return len(f.clients)
}

// HandleWebSocket handles GET /ws/records
func (f *RecordFeed) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[Feed] WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	f.clientsMux.Lock()
	f.clients[conn] = true
	metrics.FeedClients.Set(float64(len(f.clients)))
	f.clientsMux.Unlock()

	// Clients only listen; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			f.remove(conn)
			return
		}
	}
}

func (f *RecordFeed) send(write func(*websocket.Conn) error) {
	f.clientsMux.Lock()
	defer f.clientsMux.Unlock()
	for client := range f.clients {
		client.SetWriteDeadline(time.Now().Add(writeWait))
		if err := write(client); err != nil {
			client.Close()
			delete(f.clients, client)
		}
	}
	metrics.FeedClients.Set(float64(len(f.clients)))
}

func (f *RecordFeed) remove(conn *websocket.Conn) {
	f.clientsMux.Lock()
	delete(f.clients, conn)
	metrics.FeedClients.Set(float64(len(f.clients)))
	f.clientsMux.Unlock()
}
