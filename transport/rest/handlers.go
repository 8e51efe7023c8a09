package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/connectfour-client/internal/apperror"
	"github.com/rocketscienceinc/connectfour-client/internal/view"
)

func (that *Server) handleBoard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if err := view.WriteText(w, that.page); err != nil {
		that.logger.Error("failed to write board", "method", "handleBoard", "error", err)
	}
}

func (that *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleMove")

	column, err := strconv.Atoi(r.URL.Query().Get("column"))
	if err != nil {
		log.Error("bad column", "error", err)
		http.Error(w, apperror.ErrInvalidColumn.Error(), http.StatusBadRequest)
		return
	}

	if err = that.board.SubmitMove(r.Context(), column); err != nil {
		log.Error("move failed", "column", column, "error", err)

		status := http.StatusBadGateway
		if errors.Is(err, apperror.ErrBoardOutOfLayout) {
			status = http.StatusInternalServerError
		}

		http.Error(w, err.Error(), status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
