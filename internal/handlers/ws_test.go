package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readUntil skips timer pushes and returns the first message holding key.
func readUntil(t *testing.T, conn *websocket.Conn, key string) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg map[string]any
		require.NoError(t, conn.ReadJSON(&msg))
		if _, ok := msg[key]; ok {
			return msg
		}
	}
}

func TestConnect(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	g := s.newGame(t, "")
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/" + g.ID + "/connect"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	timeMsg := readUntil(t, conn, "time")
	assert.EqualValues(t, 0, timeMsg["time"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("o 0 0")))
	diff := readUntil(t, conn, "cells")
	assert.Len(t, diff["cells"], 3)
	assert.Equal(t, false, diff["won"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("x 1 1")))
	errMsg := readUntil(t, conn, "error")
	assert.Contains(t, errMsg["error"], "unknown command")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("o 5 5")))
	errMsg = readUntil(t, conn, "error")
	assert.Contains(t, errMsg["error"], "invalid cell position")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("f 1 1\ng")))
	diff = readUntil(t, conn, "cells")
	assert.Equal(t, true, diff["won"])
	state := readUntil(t, conn, "game_id")
	assert.Equal(t, g.ID, state["game_id"])
	assert.Equal(t, true, state["won"])
}

func TestConnectUnknownGame(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/missing/connect"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 404, resp.StatusCode)
}
