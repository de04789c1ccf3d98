package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/dskvich/vision-webchat/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

type httpServerWorker struct {
	server HTTPServer
	addr   string
}

func NewHTTPServer(server HTTPServer, addr string) *httpServerWorker {
	return &httpServerWorker{server: server, addr: addr}
}

func (h *httpServerWorker) Name() string { return "http_server_worker" }

func (h *httpServerWorker) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", h.Name(), "addr", h.addr)
	defer slog.Info("Worker stopped", "name", h.Name())

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := h.server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutting down http server", logger.Err(err))
		return err
	}
	return <-errCh
}
