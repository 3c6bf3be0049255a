package main

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// watchFrame is one message on the watch stream.
type watchFrame struct {
	Index int `json:"index"`
	Total int `json:"total"`
	Event any `json:"event"`
}

// handleWatch replays a stored battle's event log over a websocket, one event
// per frame, paced by WATCH_FRAME_MS. The client may disconnect at any point;
// the stream just stops.
func (s *server) handleWatch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	b, ok := s.battles.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown battle id "+id)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.String("battle_id", id), zap.Error(err))
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(time.Duration(s.cfg.WatchFrameMS) * time.Millisecond)
	defer ticker.Stop()

	total := len(b.Result.Events)
	for i, ev := range b.Result.Events {
		<-ticker.C
		frame := watchFrame{Index: i, Total: total, Event: ev}
		if err := conn.WriteJSON(frame); err != nil {
			s.log.Debug("watch client gone", zap.String("battle_id", id), zap.Error(err))
			return
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replay complete"))
}
