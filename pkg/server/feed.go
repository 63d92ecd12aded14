package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/haivivi/kgview/pkg/graph"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// hello is the first message on a feed connection so renderers can draw
// before the next mutation.
type hello struct {
	Kind     string `json:"kind"`
	Vertices int    `json:"vertices"`
	Edges    int    `json:"edges"`
}

// feed upgrades to WebSocket and sends each committed change as JSON.
// The connection is write-only; client messages are read and discarded.
func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	changes, cancel := s.ws.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var first hello
	err = s.ws.Read(func(g *graph.Store) error {
		first = hello{Kind: "hello", Vertices: g.VertexCount(), Edges: g.EdgeCount()}
		return nil
	})
	if err != nil {
		s.log.Warn("feed snapshot failed", zap.Error(err))
		return
	}
	if err := s.send(conn, first); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case c, ok := <-changes:
			if !ok {
				return
			}
			if err := s.send(conn, c); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) send(conn *websocket.Conn, v any) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(v); err != nil {
		s.log.Debug("websocket write failed", zap.Error(err))
		return err
	}
	return nil
}
