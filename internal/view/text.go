package view

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rocketscienceinc/connectfour-client/internal/entity"
)

const emptySymbol = "."

// WriteText renders the page as a plain-text grid followed by the column numbers, the message and the status lines.
func WriteText(w io.Writer, page *Page) error {
	var sb strings.Builder

	for row := 0; row < page.Rows(); row++ {
		symbols := make([]string, 0, page.Columns())
		for column := 0; column < page.Columns(); column++ {
			element, _ := page.ElementByID(CellID(row, column))
			symbols = append(symbols, cellSymbol(element.ClassName()))
		}

		sb.WriteString(strings.Join(symbols, " "))
		sb.WriteByte('\n')
	}

	columns := make([]string, 0, page.Columns())
	for column := 0; column < page.Columns(); column++ {
		columns = append(columns, fmt.Sprintf("%d", column%10))
	}
	sb.WriteString(strings.Join(columns, " "))
	sb.WriteByte('\n')

	for _, id := range []string{MessageID, StatusID} {
		element, _ := page.ElementByID(id)
		if text := element.Text(); text != "" {
			sb.WriteString(text)
			sb.WriteByte('\n')
		}
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}

	return nil
}

// cellSymbol turns "cell piece red" into "R"; anything without a piece is drawn as empty.
func cellSymbol(className string) string {
	piece, ok := strings.CutPrefix(className, entity.PieceClassPrefix)
	if !ok || piece == "" {
		return emptySymbol
	}

	r, _ := utf8.DecodeRuneInString(piece)

	return string(unicode.ToUpper(r))
}
