// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/camera_motion/internal/capture"
	"github.com/relabs-tech/camera_motion/internal/orientation"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // phones connect from whatever address the LAN gives them
	},
}

// WSResponse is sent back for every orientation event.
type WSResponse struct {
	Type    string              `json:"type"` // offset, error
	Offset  *orientation.Angles `json:"offset,omitempty"`
	State   string              `json:"state,omitempty"`
	Samples int                 `json:"samples,omitempty"`
	Message string              `json:"message,omitempty"`
}

// HandleOrientationWS reads deviceorientation events from the browser and
// feeds them to the session. Each event is answered with the offset from
// the reference so the page can display it.
func HandleOrientationWS(session *capture.Session, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("orientation: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("orientation: stream connected from %s", r.RemoteAddr)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("orientation: websocket read error: %v", err)
			}
			break
		}

		var ev orientation.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			if err := conn.WriteJSON(WSResponse{Type: "error", Message: "invalid orientation event"}); err != nil {
				break
			}
			continue
		}

		session.Observe(ev)

		snap := session.Snapshot()
		resp := WSResponse{
			Type:    "offset",
			Offset:  &snap.Offset,
			State:   snap.State,
			Samples: snap.Samples,
		}
		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("orientation: websocket write error: %v", err)
			break
		}
	}

	log.Printf("orientation: stream from %s closed", r.RemoteAddr)
}
