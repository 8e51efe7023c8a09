package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/connectfour-client/internal/view"
)

const shutdownTimeout = 5 * time.Second

type boardClient interface {
	SubmitMove(ctx context.Context, column int) error
}

// Server is the local control surface: it shows the board, forwards moves and streams updates.
type Server struct {
	logger *slog.Logger

	board boardClient
	page  *view.Page
	hub   *Hub
}

func New(logger *slog.Logger, board boardClient, page *view.Page, hub *Hub) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		board:  board,
		page:   page,
		hub:    hub,
	}
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler)
	mux.HandleFunc("GET /board", that.handleBoard)
	mux.HandleFunc("PUT /game", that.handleMove)
	mux.HandleFunc("GET /ws", that.hub.ServeWS)

	return mux
}

// Start serves on port until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("could not shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
