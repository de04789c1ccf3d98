package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dskvich/vision-webchat/pkg/api/response"
	"github.com/dskvich/vision-webchat/pkg/api/session"
	"github.com/dskvich/vision-webchat/pkg/logger"
	"github.com/dskvich/vision-webchat/pkg/services"
)

const (
	messageField = "message"
	imageField   = "image"
)

type chat struct {
	service ChatService
	writer  response.JSONResponseWriter
}

func NewChat(service ChatService) *chat {
	return &chat{
		service: service,
		writer:  response.JSONResponseWriter{},
	}
}

// Chat handles POST /chat. A missing message field is treated as an empty
// message.
func (h *chat) Chat(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := session.ID(c)
	message := c.FormValue(messageField)

	upload, closeFn, err := formImage(c)
	if err != nil {
		slog.WarnContext(ctx, "Reading uploaded image", logger.Err(err))
		return h.writer.WriteErrorResponse(c, http.StatusBadRequest, "Invalid image upload.")
	}
	defer closeFn()

	reply, err := h.service.Chat(ctx, sessionID, message, upload)
	if err != nil {
		slog.ErrorContext(ctx, "Handling chat turn", "sessionID", sessionID, logger.Err(err))
		return h.writer.WriteErrorResponse(c, http.StatusInternalServerError, "Internal server error.")
	}

	resp := response.ChatResponse{Response: reply.Response}
	if reply.Image != "" {
		resp.Image = &reply.Image
	}
	return h.writer.WriteSuccessResponse(c, resp)
}

func formImage(c echo.Context) (*services.Upload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, fmt.Errorf("parsing form file: %w", err)
	}
	if fh.Filename == "" {
		return nil, noop, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("opening form file: %w", err)
	}
	return &services.Upload{Name: fh.Filename, Data: f}, func() { f.Close() }, nil
}
