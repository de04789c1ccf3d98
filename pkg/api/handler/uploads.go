package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type uploads struct {
	service ChatService
}

func NewUploads(service ChatService) *uploads {
	return &uploads{service: service}
}

// Serve handles GET /uploads/:filename.
func (h *uploads) Serve(c echo.Context) error {
	path, err := h.service.UploadPath(c.Param("filename"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return c.File(path)
}
