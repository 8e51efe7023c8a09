package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rocketscienceinc/connectfour-client/internal/apperror"
)

const (
	EmptyCell Cell = ""

	PieceClassPrefix = "cell piece "
	WinnerPrefix     = "Winner: "
)

// Cell is an empty cell or an opaque piece identifier.
//
// Servers label pieces with strings, numbers or booleans; the label is kept as its JSON text.
// Falsy values (null, false, 0, "") all mean an empty cell.
type Cell string

// Board is a row-major grid of cells. Rows may differ in length.
type Board [][]Cell

// GameState is a full snapshot of the game as the server reports it.
type GameState struct {
	Board  Board `json:"board"`
	Winner Cell  `json:"winner"`
}

func (that *Cell) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return fmt.Errorf("failed to decode cell: %w", err)
	}

	switch v := value.(type) {
	case nil:
		*that = EmptyCell
	case string:
		*that = Cell(v)
	case bool:
		*that = EmptyCell
		if v {
			*that = Cell(strconv.FormatBool(v))
		}
	case json.Number:
		number, err := v.Float64()
		if err != nil {
			return fmt.Errorf("%w: %s", apperror.ErrUnsupportedCell, v)
		}

		*that = EmptyCell
		if number != 0 {
			*that = Cell(strconv.FormatFloat(number, 'f', -1, 64))
		}
	default:
		return fmt.Errorf("%w: %s", apperror.ErrUnsupportedCell, data)
	}

	return nil
}

func (that Board) Rows() int {
	return len(that)
}

// Columns returns the width of the widest row.
func (that Board) Columns() int {
	columns := 0
	for _, row := range that {
		if len(row) > columns {
			columns = len(row)
		}
	}

	return columns
}

func (that *GameState) HasWinner() bool {
	return that.Winner != EmptyCell
}

// Message is the status text for the message area.
func (that *GameState) Message() string {
	if that.HasWinner() {
		return WinnerPrefix + string(that.Winner)
	}

	return ""
}

func PieceClass(piece Cell) string {
	return PieceClassPrefix + string(piece)
}

// Snapshot is a GameState together with the refresh sequence it was applied under.
type Snapshot struct {
	Sequence uint64     `json:"sequence"`
	State    *GameState `json:"state"`
}
