package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-client/internal/entity"
	"github.com/rocketscienceinc/connectfour-client/internal/gameapi"
	"github.com/rocketscienceinc/connectfour-client/internal/usecase"
	"github.com/rocketscienceinc/connectfour-client/internal/view"
	"github.com/rocketscienceinc/connectfour-client/testing/gameserver"
	"github.com/rocketscienceinc/connectfour-client/testing/suite"
)

type fixture struct {
	game  *gameserver.Server
	local *httptest.Server
	hub   *Hub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := suite.NewLogger()
	game := gameserver.New(t, 6, 7)

	page := view.NewPage(6, 7)
	layout, err := view.Bind(page, 6, 7)
	require.NoError(t, err)

	api := gameapi.New(logger, game.URL, time.Second, game.Client())
	board := usecase.NewBoardClient(logger, api, layout, nil, "")

	hub := NewHub(logger)
	board.Subscribe(hub.Publish)

	local := httptest.NewServer(New(logger, board, page, hub).Handler())
	t.Cleanup(local.Close)

	return &fixture{game: game, local: local, hub: hub}
}

func (that *fixture) do(t *testing.T, method, path string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, that.local.URL+path, nil)
	require.NoError(t, err)

	resp, err := that.local.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func TestServer_Ping(t *testing.T) {
	f := newFixture(t)

	// When: pinging the server
	resp, body := f.do(t, http.MethodGet, "/ping")

	// Then: it answers pong
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", body)
}

func TestServer_Move(t *testing.T) {
	t.Run("Move is forwarded and the board shows it", func(t *testing.T) {
		f := newFixture(t)

		// When: moving in column 3 through the local surface
		resp, _ := f.do(t, http.MethodPut, "/game?column=3")

		// Then: the game server got the move and the board text shows the piece
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		_, board := f.do(t, http.MethodGet, "/board")
		lines := strings.Split(board, "\n")
		assert.Equal(t, ". . . R . . .", lines[5])
		assert.Equal(t, "0 1 2 3 4 5 6", lines[6])
	})

	t.Run("Non-integer column is rejected", func(t *testing.T) {
		f := newFixture(t)

		// When: moving with a bad column
		resp, _ := f.do(t, http.MethodPut, "/game?column=left")

		// Then: 400 is returned and nothing reached the game server
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, f.game.Requests())
	})

	t.Run("Rejected move is a bad gateway", func(t *testing.T) {
		f := newFixture(t)
		f.game.FailMoves(http.StatusConflict)

		// When: moving while the game server refuses
		resp, _ := f.do(t, http.MethodPut, "/game?column=1")

		// Then: 502 is returned and the status line shows the error
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		_, board := f.do(t, http.MethodGet, "/board")
		assert.Contains(t, board, "Error: ")
	})
}

func TestServer_Watch(t *testing.T) {
	f := newFixture(t)

	// Given: a websocket watcher
	wsURL := "ws" + strings.TrimPrefix(f.local.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.Eventually(t, func() bool {
		return f.hub.Watchers() == 1
	}, time.Second, 10*time.Millisecond)

	// When: a move is made
	moveResp, _ := f.do(t, http.MethodPut, "/game?column=0")
	require.Equal(t, http.StatusNoContent, moveResp.StatusCode)

	// Then: the watcher receives the drawn state
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var state entity.GameState
	require.NoError(t, json.Unmarshal(data, &state))
	assert.Equal(t, entity.Cell("red"), state.Board[5][0])
}
