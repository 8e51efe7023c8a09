package view

import (
	"fmt"

	"github.com/rocketscienceinc/connectfour-client/internal/apperror"
	"github.com/rocketscienceinc/connectfour-client/internal/entity"
)

// Layout maps board coordinates to the elements that display them. It is built once by Bind.
type Layout struct {
	rows    int
	columns int

	cells   [][]Element
	message Element
	status  Element
}

// Bind resolves every cell element and the message element of doc. The status element is optional.
func Bind(doc Document, rows, columns int) (*Layout, error) {
	layout := &Layout{
		rows:    rows,
		columns: columns,
		cells:   make([][]Element, rows),
	}

	for row := 0; row < rows; row++ {
		layout.cells[row] = make([]Element, columns)

		for column := 0; column < columns; column++ {
			id := CellID(row, column)

			element, ok := doc.ElementByID(id)
			if !ok {
				return nil, fmt.Errorf("%w: %s", apperror.ErrElementNotFound, id)
			}

			layout.cells[row][column] = element
		}
	}

	message, ok := doc.ElementByID(MessageID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrElementNotFound, MessageID)
	}
	layout.message = message

	if status, ok := doc.ElementByID(StatusID); ok {
		layout.status = status
	}

	return layout, nil
}

func (that *Layout) Rows() int {
	return that.rows
}

func (that *Layout) Columns() int {
	return that.columns
}

// Cell returns the element displaying row, column.
func (that *Layout) Cell(row, column int) Element {
	return that.cells[row][column]
}

func (that *Layout) Message() Element {
	return that.message
}

// ReportStatus writes text to the status area, if the document has one.
func (that *Layout) ReportStatus(text string) {
	if that.status == nil {
		return
	}

	that.status.SetText(text)
}

// Render draws state onto the layout.
//
// Only occupied cells are written; an empty cell keeps whatever class it already has, so a piece never
// disappears from the view once drawn. The message area is always overwritten. Nothing is touched when
// the board does not fit the layout.
func Render(layout *Layout, state *entity.GameState) error {
	if state.Board.Rows() > layout.rows || state.Board.Columns() > layout.columns {
		return fmt.Errorf("%w: board is %dx%d, layout is %dx%d", apperror.ErrBoardOutOfLayout,
			state.Board.Rows(), state.Board.Columns(), layout.rows, layout.columns)
	}

	for rowIndex, row := range state.Board {
		for columnIndex, cell := range row {
			if cell == entity.EmptyCell {
				continue
			}

			layout.cells[rowIndex][columnIndex].SetClassName(entity.PieceClass(cell))
		}
	}

	layout.message.SetText(state.Message())

	return nil
}
