// Package gameserver is an in-process stand-in for the game server used by tests.
package gameserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

var pieces = [2]string{"red", "yellow"}

type Request struct {
	Method string
	URI    string
}

type Server struct {
	*httptest.Server

	mu         sync.Mutex
	board      [][]string
	winner     string
	turn       int
	moveStatus int
	requests   []Request
}

// New starts a server with an empty rows x columns board. It is closed when the test ends.
func New(t *testing.T, rows, columns int) *Server {
	t.Helper()

	server := &Server{board: make([][]string, rows)}
	for row := range server.board {
		server.board[row] = make([]string, columns)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/game", server.handleGame)

	server.Server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

// FailMoves makes every following PUT answer with status. Zero restores normal behaviour.
func (that *Server) FailMoves(status int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.moveStatus = status
}

func (that *Server) SetWinner(winner string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.winner = winner
}

// Clear empties a cell, something a real server never does.
func (that *Server) Clear(row, column int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.board[row][column] = ""
}

func (that *Server) Requests() []Request {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]Request(nil), that.requests...)
}

func (that *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.requests = append(that.requests, Request{Method: r.Method, URI: r.URL.RequestURI()})

	switch r.Method {
	case http.MethodGet:
		that.writeState(w)
	case http.MethodPut:
		that.move(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (that *Server) move(w http.ResponseWriter, r *http.Request) {
	if that.moveStatus != 0 {
		w.WriteHeader(that.moveStatus)
		return
	}

	column, err := strconv.Atoi(r.URL.Query().Get("column"))
	if err != nil || len(that.board) == 0 || column < 0 || column >= len(that.board[0]) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	for row := len(that.board) - 1; row >= 0; row-- {
		if that.board[row][column] == "" {
			that.board[row][column] = pieces[that.turn%len(pieces)]
			that.turn++
			w.WriteHeader(http.StatusOK)
			return
		}
	}

	w.WriteHeader(http.StatusBadRequest)
}

func (that *Server) writeState(w http.ResponseWriter) {
	board := make([][]*string, len(that.board))
	for row := range that.board {
		board[row] = make([]*string, len(that.board[row]))
		for column, cell := range that.board[row] {
			if cell != "" {
				piece := cell
				board[row][column] = &piece
			}
		}
	}

	var winner *string
	if that.winner != "" {
		winner = &that.winner
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Board  [][]*string `json:"board"`
		Winner *string     `json:"winner"`
	}{board, winner})
}
