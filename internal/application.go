package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/rocketscienceinc/connectfour-client/internal/apperror"
	"github.com/rocketscienceinc/connectfour-client/internal/config"
	"github.com/rocketscienceinc/connectfour-client/internal/entity"
	"github.com/rocketscienceinc/connectfour-client/internal/gameapi"
	"github.com/rocketscienceinc/connectfour-client/internal/repository"
	"github.com/rocketscienceinc/connectfour-client/internal/repository/storage"
	"github.com/rocketscienceinc/connectfour-client/internal/usecase"
	"github.com/rocketscienceinc/connectfour-client/internal/view"
	"github.com/rocketscienceinc/connectfour-client/transport/rest"
)

const (
	commandQuit    = "q"
	commandRefresh = "r"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	if conf.ServerURL == "" {
		return apperror.ErrServerURLNotFound
	}

	page := view.NewPage(conf.Board.Rows, conf.Board.Columns)
	layout, err := view.Bind(page, conf.Board.Rows, conf.Board.Columns)
	if err != nil {
		return fmt.Errorf("could not bind board layout: %w", err)
	}

	var snapshots repository.SnapshotRepository
	if conf.Redis.Enabled {
		redisClient, err := storage.New(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		snapshots = repository.NewSnapshotRepository(redisClient)
	}

	api := gameapi.New(logger, conf.ServerURL, conf.RequestTimeout, nil)
	board := usecase.NewBoardClient(logger, api, layout, snapshots, conf.ServerURL)

	hub := rest.NewHub(logger)
	board.Subscribe(hub.Publish)

	terminal := newTerminal(os.Stdout, page)
	board.Subscribe(func(*entity.GameState) { terminal.draw() })

	if err = board.Init(ctx); err != nil {
		log.Warn("initial refresh failed", "error", err)
		terminal.draw()
	}

	// run HTTP server
	httpErrCh := make(chan error, 1)
	if conf.HTTPPort != "" {
		go func() {
			log.Info("Starting HTTP server", "port", conf.HTTPPort)
			if httpErr := rest.New(logger, board, page, hub).Start(ctx, conf.HTTPPort); httpErr != nil {
				log.Error("HTTP server error", "error", httpErr)
				httpErrCh <- httpErr
			}
		}()
	}

	if conf.PollInterval > 0 {
		go board.Watch(ctx, conf.PollInterval)
	}

	playErrCh := make(chan error, 1)
	go func() {
		quit, playErr := play(ctx, logger, os.Stdin, board, terminal)
		// without input the HTTP surface keeps the client useful until a signal arrives
		if !quit && playErr == nil && conf.HTTPPort != "" {
			return
		}
		playErrCh <- playErr
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-playErrCh:
		if err != nil {
			return fmt.Errorf("input error: %w", err)
		}

		log.Info("Player quit, shutting down")
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

type mover interface {
	SubmitMove(ctx context.Context, column int) error
	RefreshBoard(ctx context.Context) error
}

// terminal draws the page on every change; draws may come from the poller and the input loop at once.
type terminal struct {
	mu   sync.Mutex
	out  io.Writer
	page *view.Page
}

func newTerminal(out io.Writer, page *view.Page) *terminal {
	return &terminal{out: out, page: page}
}

func (that *terminal) printf(format string, args ...any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, _ = fmt.Fprintf(that.out, format, args...)
}

func (that *terminal) draw() {
	that.mu.Lock()
	defer that.mu.Unlock()

	_ = view.WriteText(that.out, that.page)
	_, _ = io.WriteString(that.out, "\n")
}

// play reads one command per line: a column number drops a piece, "r" refreshes, "q" quits.
// quit reports whether the player asked to leave rather than the input ending.
func play(ctx context.Context, logger *slog.Logger, in io.Reader, board mover, terminal *terminal) (quit bool, err error) {
	log := logger.With("method", "play")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return false, nil
		}

		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case commandQuit:
			return true, nil
		case commandRefresh:
			err = board.RefreshBoard(ctx)
		default:
			column, convErr := strconv.Atoi(line)
			if convErr != nil {
				log.Warn("unknown command", "command", line)
				terminal.printf("unknown command %q: enter a column number, %q or %q\n", line, commandRefresh, commandQuit)
				continue
			}

			err = board.SubmitMove(ctx, column)
		}

		if err != nil && !errors.Is(err, apperror.ErrStaleSnapshot) {
			terminal.draw()
		}
	}

	if err = scanner.Err(); err != nil {
		return false, fmt.Errorf("failed to read input: %w", err)
	}

	return false, nil
}
