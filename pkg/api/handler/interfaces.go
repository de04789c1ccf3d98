package handler

import (
	"context"

	"github.com/dskvich/vision-webchat/pkg/domain"
	"github.com/dskvich/vision-webchat/pkg/services"
)

type ChatService interface {
	Chat(ctx context.Context, sessionID, message string, upload *services.Upload) (domain.ChatReply, error)
	History(ctx context.Context, sessionID string) domain.History
	Reset(ctx context.Context, sessionID string) error
	UploadPath(filename string) (string, error)
}
