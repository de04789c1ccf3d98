package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dskvich/vision-webchat/pkg/api/handler"
	"github.com/dskvich/vision-webchat/pkg/api/session"
	"github.com/dskvich/vision-webchat/pkg/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

const maxBodySize = "20M"

type Server struct {
	echo *echo.Echo
	addr string
}

func NewServer(addr string, service handler.ChatService) (*Server, error) {
	renderer, err := newTemplateRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		requestLogger(),
		middleware.BodyLimit(maxBodySize),
		session.Middleware(),
	)

	e.GET("/", handler.NewIndex(service).Index)
	e.GET("/uploads/:filename", handler.NewUploads(service).Serve)
	e.POST("/chat", handler.NewChat(service).Chat)
	e.POST("/reset", handler.NewReset(service).Reset)

	return &Server{echo: e, addr: addr}, nil
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// ListenAndServe blocks until the server stops. A clean shutdown is not an
// error.
func (s *Server) ListenAndServe() error {
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// requestLogger puts the echo request id on the request context and logs
// every handled request.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			c.SetRequest(req.WithContext(logger.ContextWithRequestID(req.Context(), requestID)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			slog.InfoContext(c.Request().Context(), "Handled request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"duration", time.Since(start),
			)
			return nil
		}
	}
}

type templateRenderer struct {
	templates *template.Template
}

func newTemplateRenderer() (*templateRenderer, error) {
	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &templateRenderer{templates: t}, nil
}

func (r *templateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
