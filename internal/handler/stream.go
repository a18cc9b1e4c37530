package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/moviex-storefront/internal/model"
	"github.com/iliyamo/moviex-storefront/internal/repository"
)

// StreamMessage is one frame of a movie feed.  Every frame carries the
// whole current value of the watched path.
type StreamMessage struct {
	Type      string        `json:"type"` // "movies" or "movie"
	Path      string        `json:"path"`
	Movies    []model.Movie `json:"movies,omitempty"`
	Movie     *model.Movie  `json:"movie"`
	Timestamp int64         `json:"timestamp"`
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// StreamHandler pushes source deliveries to WebSocket clients.  The
// subscription lives as long as the connection.
type StreamHandler struct {
	Source   repository.MovieSource
	Upgrader websocket.Upgrader
}

// All streams the movie list.
func (h *StreamHandler) All(c echo.Context) error {
	return h.serve(c, func(ctx context.Context, out chan StreamMessage) (repository.Unsubscribe, error) {
		return h.Source.WatchAll(ctx, func(movies []model.Movie) {
			send(ctx, out, StreamMessage{Type: "movies", Path: repository.MoviesPath, Movies: movies})
		})
	})
}

// One streams a single movie; a null movie means it does not exist.
func (h *StreamHandler) One(c echo.Context) error {
	id := c.Param("id")
	return h.serve(c, func(ctx context.Context, out chan StreamMessage) (repository.Unsubscribe, error) {
		return h.Source.Watch(ctx, id, func(m *model.Movie) {
			send(ctx, out, StreamMessage{Type: "movie", Path: repository.MoviePath(id), Movie: m})
		})
	})
}

// send drops the oldest pending frame when the client is slow; frames
// are full snapshots so only the newest one matters.
func send(ctx context.Context, out chan StreamMessage, msg StreamMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	for {
		select {
		case out <- msg:
			return
		case <-ctx.Done():
			return
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}

func (h *StreamHandler) serve(c echo.Context, subscribe func(context.Context, chan StreamMessage) (repository.Unsubscribe, error)) error {
	conn, err := h.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan StreamMessage, 1)
	unsub, err := subscribe(ctx, out)
	if err != nil {
		log.Printf("stream: subscribe %s: %v", c.Path(), err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "source unavailable"),
			time.Now().Add(writeWait))
		return nil
	}
	defer unsub()

	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

// NewUpgrader returns an upgrader accepting any origin; the feed carries
// only public catalog data.
func NewUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     func(*http.Request) bool { return true },
	}
}
