package web

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
)

const (
	// EventBacklog is the first frame a subscriber gets: the latest history entries
	EventBacklog = "notification.backlog"

	backlogSize  = 20
	sendBuffer   = 16
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	pongTimeout  = 60 * time.Second
)

// BacklogFunc loads the newest notification entries
type BacklogFunc func(ctx context.Context, limit int) ([]models.NotificationLog, error)

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed pushes recorded notifications to websocket subscribers. It is a
// console.Publisher: other events are ignored.
type Feed struct {
	upgrader    websocket.Upgrader
	backlog     BacklogFunc
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
}

// NewFeed builds a feed. backlog may be nil.
func NewFeed(backlog BacklogFunc) *Feed {
	return &Feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		backlog:     backlog,
		subscribers: make(map[*subscriber]struct{}),
	}
}

// SetBacklog replaces the backlog source, for feeds built before the service
func (f *Feed) SetBacklog(backlog BacklogFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.backlog = backlog
}

// Publish forwards notification.recorded events to every subscriber. Slow
// subscribers are dropped instead of blocking the caller.
func (f *Feed) Publish(_ context.Context, event console.Event) {
	if event.Type != console.EventNotificationRecorded {
		return
	}
	frame, err := json.Marshal(event)
	if err != nil {
		logger.Error(fmt.Sprintf("Error encoding feed event: %v", err), "Feed")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subscribers {
		select {
		case sub.send <- frame:
		default:
			f.dropLocked(sub)
		}
	}
}

// Subscribers returns how many sockets are attached
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}

// Serve upgrades the request and streams events until the client leaves
func (f *Feed) Serve(c *gin.Context) {
	conn, err := f.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(fmt.Sprintf("Websocket upgrade failed: %v", err), "Feed")
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}

	if frame := f.backlogFrame(c.Request.Context()); frame != nil {
		sub.send <- frame
	}

	f.mu.Lock()
	f.subscribers[sub] = struct{}{}
	f.mu.Unlock()
	logger.Debug(fmt.Sprintf("Feed subscriber joined from %s", c.ClientIP()), "Feed")

	go f.writeLoop(sub)
	f.readLoop(sub)
}

func (f *Feed) backlogFrame(ctx context.Context) []byte {
	f.mu.Lock()
	backlog := f.backlog
	f.mu.Unlock()
	if backlog == nil {
		return nil
	}
	logs, err := backlog(ctx, backlogSize)
	if err != nil {
		logger.Warn(fmt.Sprintf("Feed backlog unavailable: %v", err), "Feed")
		return nil
	}
	frame, err := json.Marshal(console.Event{Type: EventBacklog, At: time.Now(), Data: logs})
	if err != nil {
		return nil
	}
	return frame
}

// readLoop discards client frames and notices when the socket goes away
func (f *Feed) readLoop(sub *subscriber) {
	defer f.remove(sub)

	sub.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) writeLoop(sub *subscriber) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (f *Feed) remove(sub *subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropLocked(sub)
}

func (f *Feed) dropLocked(sub *subscriber) {
	if _, ok := f.subscribers[sub]; !ok {
		return
	}
	delete(f.subscribers, sub)
	close(sub.send)
}

// Close disconnects every subscriber
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subscribers {
		f.dropLocked(sub)
	}
}
