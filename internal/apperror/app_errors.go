package apperror

import "errors"

var (
	ErrUnexpectedStatus  = errors.New("unexpected response status")
	ErrMalformedState    = errors.New("malformed game state")
	ErrStaleSnapshot     = errors.New("snapshot is older than the applied one")
	ErrElementNotFound   = errors.New("element not found")
	ErrBoardOutOfLayout  = errors.New("board does not fit the layout")
	ErrSnapshotNotFound  = errors.New("snapshot not found")
	ErrInvalidColumn     = errors.New("column is not an integer")
	ErrServerURLNotFound = errors.New("server url is empty")
	ErrUnsupportedCell   = errors.New("cell is neither a string, a number nor a boolean")
)
