package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-client/internal/apperror"
	"github.com/rocketscienceinc/connectfour-client/internal/entity"
)

func emptyBoard(rows, columns int) entity.Board {
	board := make(entity.Board, rows)
	for row := range board {
		board[row] = make([]entity.Cell, columns)
	}

	return board
}

func className(t *testing.T, page *Page, id string) string {
	t.Helper()

	element, ok := page.ElementByID(id)
	require.True(t, ok)

	return element.ClassName()
}

func text(t *testing.T, page *Page, id string) string {
	t.Helper()

	element, ok := page.ElementByID(id)
	require.True(t, ok)

	return element.Text()
}

func TestBind(t *testing.T) {
	t.Run("Binds every cell of the page", func(t *testing.T) {
		// Given: a 6x7 page
		page := NewPage(6, 7)

		// When: binding a layout to it
		layout, err := Bind(page, 6, 7)

		// Then: every coordinate resolves to the page element with the same id
		require.NoError(t, err)
		assert.Equal(t, 6, layout.Rows())
		assert.Equal(t, 7, layout.Columns())

		element, _ := page.ElementByID("5-6")
		assert.Same(t, element, layout.Cell(5, 6))
	})

	t.Run("Fails when a cell element is missing", func(t *testing.T) {
		// Given: a page smaller than the requested layout
		page := NewPage(2, 2)

		// When: binding a 3x3 layout
		layout, err := Bind(page, 3, 3)

		// Then: ErrElementNotFound is returned
		require.ErrorIs(t, err, apperror.ErrElementNotFound)
		assert.Nil(t, layout)
	})
}

func TestRender(t *testing.T) {
	t.Run("Occupied cell gets the piece class", func(t *testing.T) {
		// Given: a board with red at row 2, column 3
		page := NewPage(6, 7)
		layout, err := Bind(page, 6, 7)
		require.NoError(t, err)

		board := emptyBoard(6, 7)
		board[2][3] = "red"

		// When: rendering it
		err = Render(layout, &entity.GameState{Board: board})

		// Then: element 2-3 has the piece class and the others keep the default one
		require.NoError(t, err)
		assert.Equal(t, "cell piece red", className(t, page, "2-3"))
		assert.Equal(t, CellClass, className(t, page, "0-0"))
	})

	t.Run("Winner is shown in the message area", func(t *testing.T) {
		// Given: a finished game
		page := NewPage(6, 7)
		layout, err := Bind(page, 6, 7)
		require.NoError(t, err)

		// When: rendering it
		err = Render(layout, &entity.GameState{Board: emptyBoard(6, 7), Winner: "red"})

		// Then: the message names the winner
		require.NoError(t, err)
		assert.Equal(t, "Winner: red", text(t, page, MessageID))
	})

	t.Run("Message is cleared when there is no winner", func(t *testing.T) {
		// Given: a message area with previous content
		page := NewPage(6, 7)
		layout, err := Bind(page, 6, 7)
		require.NoError(t, err)
		layout.Message().SetText("something old")

		// When: rendering a state without a winner
		err = Render(layout, &entity.GameState{Board: emptyBoard(6, 7)})

		// Then: the message is empty
		require.NoError(t, err)
		assert.Empty(t, text(t, page, MessageID))
	})

	t.Run("Rendering the same state twice is idempotent", func(t *testing.T) {
		// Given: a board with two pieces
		page := NewPage(6, 7)
		layout, err := Bind(page, 6, 7)
		require.NoError(t, err)

		board := emptyBoard(6, 7)
		board[5][0] = "red"
		board[5][1] = "yellow"
		state := &entity.GameState{Board: board}

		// When: rendering it twice
		require.NoError(t, Render(layout, state))
		first := []string{className(t, page, "5-0"), className(t, page, "5-1")}
		require.NoError(t, Render(layout, state))
		second := []string{className(t, page, "5-0"), className(t, page, "5-1")}

		// Then: the classes are the same both times
		assert.Equal(t, []string{"cell piece red", "cell piece yellow"}, first)
		assert.Equal(t, first, second)
	})

	t.Run("Cell reported empty keeps its occupied class", func(t *testing.T) {
		// Given: a rendered piece at 5-0
		page := NewPage(6, 7)
		layout, err := Bind(page, 6, 7)
		require.NoError(t, err)

		board := emptyBoard(6, 7)
		board[5][0] = "red"
		require.NoError(t, Render(layout, &entity.GameState{Board: board}))

		// When: a later state reports that cell as empty
		err = Render(layout, &entity.GameState{Board: emptyBoard(6, 7)})

		// Then: the cell still shows the piece
		require.NoError(t, err)
		assert.Equal(t, "cell piece red", className(t, page, "5-0"))
	})

	t.Run("Ragged board is drawn row by row", func(t *testing.T) {
		// Given: a board whose second row is shorter
		page := NewPage(2, 3)
		layout, err := Bind(page, 2, 3)
		require.NoError(t, err)

		// When: rendering it
		err = Render(layout, &entity.GameState{Board: entity.Board{{"", "", "red"}, {"yellow"}}})

		// Then: every sent cell is drawn
		require.NoError(t, err)
		assert.Equal(t, "cell piece red", className(t, page, "0-2"))
		assert.Equal(t, "cell piece yellow", className(t, page, "1-0"))
		assert.Equal(t, CellClass, className(t, page, "1-2"))
	})

	t.Run("Board larger than the layout is rejected without changes", func(t *testing.T) {
		// Given: a 2x2 layout with a message
		page := NewPage(2, 2)
		layout, err := Bind(page, 2, 2)
		require.NoError(t, err)
		layout.Message().SetText("keep")

		board := emptyBoard(3, 2)
		board[0][0] = "red"

		// When: rendering a 3x2 board
		err = Render(layout, &entity.GameState{Board: board, Winner: "red"})

		// Then: ErrBoardOutOfLayout is returned and nothing changed
		require.ErrorIs(t, err, apperror.ErrBoardOutOfLayout)
		assert.Equal(t, CellClass, className(t, page, "0-0"))
		assert.Equal(t, "keep", text(t, page, MessageID))
	})
}

func TestLayout_ReportStatus(t *testing.T) {
	t.Run("Writes to the status element", func(t *testing.T) {
		// Given: a page with a status element
		page := NewPage(1, 1)
		layout, err := Bind(page, 1, 1)
		require.NoError(t, err)

		// When: reporting a status
		layout.ReportStatus("Error: boom")

		// Then: the status element carries the text
		assert.Equal(t, "Error: boom", text(t, page, StatusID))
	})
}
