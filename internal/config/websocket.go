package config

import (
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
}

// NewWebSocket accepts every origin unless WS_ALLOWED_ORIGINS holds a comma
// separated allow list.
func NewWebSocket() (*WebSocket, error) {
	var origins []string
	if s, ok := os.LookupEnv("WS_ALLOWED_ORIGINS"); ok && s != "" {
		for _, o := range strings.Split(s, ",") {
			origins = append(origins, strings.TrimSpace(o))
		}
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(origins) == 0 {
				return true
			}
			return slices.Contains(origins, r.Header.Get("Origin"))
		},
	}

	return &WebSocket{Upgrader: upgrader}, nil
}
