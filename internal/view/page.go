package view

import (
	"fmt"
	"sync"
)

const (
	MessageID = "message"
	StatusID  = "status"

	CellClass = "cell"
)

// Element is a single addressable node of a Document.
type Element interface {
	ClassName() string
	SetClassName(className string)
	Text() string
	SetText(text string)
}

type Document interface {
	ElementByID(id string) (Element, bool)
}

// CellID formats the element id of the cell at row, column.
func CellID(row, column int) string {
	return fmt.Sprintf("%d-%d", row, column)
}

// Page is an in-memory Document holding a board of cell elements plus the message and status areas.
type Page struct {
	mu sync.RWMutex

	rows    int
	columns int

	elements map[string]*node
}

type node struct {
	page *Page

	className string
	text      string
}

func NewPage(rows, columns int) *Page {
	page := &Page{
		rows:     rows,
		columns:  columns,
		elements: make(map[string]*node, rows*columns+2),
	}

	for row := 0; row < rows; row++ {
		for column := 0; column < columns; column++ {
			page.elements[CellID(row, column)] = &node{page: page, className: CellClass}
		}
	}

	page.elements[MessageID] = &node{page: page}
	page.elements[StatusID] = &node{page: page}

	return page
}

func (that *Page) ElementByID(id string) (Element, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	element, ok := that.elements[id]
	if !ok {
		return nil, false
	}

	return element, true
}

func (that *Page) Rows() int {
	return that.rows
}

func (that *Page) Columns() int {
	return that.columns
}

func (that *node) ClassName() string {
	that.page.mu.RLock()
	defer that.page.mu.RUnlock()

	return that.className
}

func (that *node) SetClassName(className string) {
	that.page.mu.Lock()
	defer that.page.mu.Unlock()

	that.className = className
}

func (that *node) Text() string {
	that.page.mu.RLock()
	defer that.page.mu.RUnlock()

	return that.text
}

func (that *node) SetText(text string) {
	that.page.mu.Lock()
	defer that.page.mu.Unlock()

	that.text = text
}
