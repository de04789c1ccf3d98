package handler

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/dskvich/vision-webchat/pkg/api/session"
	"github.com/dskvich/vision-webchat/pkg/domain"
	"github.com/dskvich/vision-webchat/pkg/markdown"
)

const (
	chatTemplate  = "chat.html"
	uploadsPrefix = "/uploads/"
)

type TurnView struct {
	Role     string
	Text     string
	HTML     template.HTML
	ImageURL string
}

type PageView struct {
	Turns []TurnView
}

type index struct {
	service ChatService
}

func NewIndex(service ChatService) *index {
	return &index{service: service}
}

func (h *index) Index(c echo.Context) error {
	history := h.service.History(c.Request().Context(), session.ID(c))
	return c.Render(http.StatusOK, chatTemplate, PageView{Turns: lo.Map(history, toTurnView)})
}

func toTurnView(t domain.Turn, _ int) TurnView {
	view := TurnView{Role: t.Role}
	if t.Role == domain.MessageRoleAssistant {
		view.HTML = markdown.ToHTML(t.Content)
	} else {
		view.Text = t.Content
	}
	if t.Image != "" {
		view.ImageURL = uploadsPrefix + t.Image
	}
	return view
}
