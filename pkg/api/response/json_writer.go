package response

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dskvich/vision-webchat/pkg/logger"
)

type JSONResponseWriter struct{}

func (j *JSONResponseWriter) WriteSuccessResponse(c echo.Context, data any) error {
	return j.write(c, http.StatusOK, data)
}

func (j *JSONResponseWriter) WriteErrorResponse(c echo.Context, statusCode int, message string) error {
	return j.write(c, statusCode, ErrorResponse{Error: message})
}

func (j *JSONResponseWriter) write(c echo.Context, statusCode int, data any) error {
	if err := c.JSON(statusCode, data); err != nil {
		slog.ErrorContext(c.Request().Context(), "encoding response", "status", statusCode, logger.Err(err))
		return err
	}
	return nil
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ChatResponse is the body of POST /chat. Image is null when nothing was
// uploaded with the turn.
type ChatResponse struct {
	Response string  `json:"response"`
	Image    *string `json:"image"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
