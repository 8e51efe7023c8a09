package gameapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/connectfour-client/internal/apperror"
	"github.com/rocketscienceinc/connectfour-client/internal/entity"
)

const (
	gamePath        = "/game"
	columnParam     = "column"
	requestIDHeader = "X-Request-ID"
)

// Client talks to the game server over its two HTTP operations.
type Client struct {
	logger *slog.Logger

	baseURL string
	http    *http.Client
	timeout time.Duration
}

// New returns a Client for the server at baseURL. A zero timeout leaves requests unbounded.
func New(logger *slog.Logger, baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		logger:  logger.With("component", "gameapi"),
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: timeout,
	}
}

// Move asks the server to drop a piece in column. The response body is ignored.
func (that *Client) Move(ctx context.Context, column int) error {
	query := url.Values{}
	query.Set(columnParam, strconv.Itoa(column))

	resp, err := that.do(ctx, http.MethodPut, gamePath+"?"+query.Encode())
	if err != nil {
		return fmt.Errorf("failed to make move in column %d: %w", column, err)
	}
	defer resp.Body.Close()

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// State fetches the current game snapshot.
func (that *Client) State(ctx context.Context) (*entity.GameState, error) {
	resp, err := that.do(ctx, http.MethodGet, gamePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}
	defer resp.Body.Close()

	var state entity.GameState
	if err = json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedState, err)
	}

	return &state, nil
}

func (that *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	requestID := uuid.NewString()
	log := that.logger.With("http_method", method, "path", path, "request_id", requestID)

	cancel := context.CancelFunc(func() {})
	if that.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, that.timeout)
	}

	req, err := http.NewRequestWithContext(ctx, method, that.baseURL+path, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("could not build request: %w", err)
	}
	req.Header.Set(requestIDHeader, requestID)

	started := time.Now()

	resp, err := that.http.Do(req)
	if err != nil {
		cancel()
		log.Error("request failed", "error", err)
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}

	log.Debug("request done", "status", resp.StatusCode, "duration", time.Since(started))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		log.Error("unexpected response status", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %d", apperror.ErrUnexpectedStatus, resp.StatusCode)
	}

	return resp, nil
}

// cancelOnClose releases the request timeout once the caller is done with the body.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (that *cancelOnClose) Close() error {
	err := that.ReadCloser.Close()
	that.cancel()

	return err
}
