package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dskvich/vision-webchat/pkg/api/response"
	"github.com/dskvich/vision-webchat/pkg/api/session"
	"github.com/dskvich/vision-webchat/pkg/domain"
	"github.com/dskvich/vision-webchat/pkg/logger"
)

type reset struct {
	service ChatService
	writer  response.JSONResponseWriter
}

func NewReset(service ChatService) *reset {
	return &reset{
		service: service,
		writer:  response.JSONResponseWriter{},
	}
}

func (h *reset) Reset(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := session.ID(c)

	if err := h.service.Reset(ctx, sessionID); err != nil {
		slog.ErrorContext(ctx, "Resetting session", "sessionID", sessionID, logger.Err(err))
		return h.writer.WriteErrorResponse(c, http.StatusInternalServerError, "Internal server error.")
	}

	return h.writer.WriteSuccessResponse(c, response.MessageResponse{Message: domain.SessionResetMessage})
}
