package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dskvich/vision-webchat/pkg/domain"
	"github.com/dskvich/vision-webchat/pkg/logger"
)

type HistoryRepository interface {
	Load(sessionID string) domain.History
	Save(sessionID string, history domain.History) error
	Reset(sessionID string) error
}

type UploadRepository interface {
	SaveUpload(sessionID, originalName string, src io.Reader) (string, error)
	UploadPath(filename string) (string, error)
	RemoveUpload(filename string) error
}

type CompletionClient interface {
	Complete(ctx context.Context, prior domain.History, current domain.Turn, imagePath, model string) string
}

// Upload is an image attached to the turn being sent.
type Upload struct {
	Name string
	Data io.Reader
}

type chatService struct {
	historyRepo HistoryRepository
	uploadRepo  UploadRepository
	client      CompletionClient
	model       string
}

// NewChatService wires the chat flow. An empty model lets the client use its
// configured default.
func NewChatService(
	historyRepo HistoryRepository,
	uploadRepo UploadRepository,
	client CompletionClient,
	model string,
) *chatService {
	return &chatService{
		historyRepo: historyRepo,
		uploadRepo:  uploadRepo,
		client:      client,
		model:       model,
	}
}

// Chat runs one conversation turn. Provider failures come back as the reply
// text; only storage faults are returned as errors.
func (c *chatService) Chat(ctx context.Context, sessionID, message string, upload *Upload) (domain.ChatReply, error) {
	var imageFilename, imagePath string
	if upload != nil {
		var err error
		imageFilename, err = c.uploadRepo.SaveUpload(sessionID, upload.Name, upload.Data)
		if err != nil {
			return domain.ChatReply{}, fmt.Errorf("saving upload: %w", err)
		}
		if imagePath, err = c.uploadRepo.UploadPath(imageFilename); err != nil {
			return domain.ChatReply{}, fmt.Errorf("resolving upload path: %w", err)
		}
	}

	history := c.historyRepo.Load(sessionID)
	userTurn := domain.NewUserTurn(message, imageFilename)

	slog.InfoContext(ctx, "Generating chat response", "sessionID", sessionID, "historyLen", len(history), "image", imageFilename)

	response := c.client.Complete(ctx, history.Clone(), userTurn, imagePath, c.model)

	history = append(history, userTurn, domain.NewAssistantTurn(response))
	if err := c.historyRepo.Save(sessionID, history); err != nil {
		// No history entry references the upload now.
		if imageFilename != "" {
			if rmErr := c.uploadRepo.RemoveUpload(imageFilename); rmErr != nil {
				slog.WarnContext(ctx, "Removing orphaned upload", "sessionID", sessionID, "image", imageFilename, logger.Err(rmErr))
			}
		}
		return domain.ChatReply{}, fmt.Errorf("saving history: %w", err)
	}

	return domain.ChatReply{Response: response, Image: imageFilename}, nil
}

func (c *chatService) History(ctx context.Context, sessionID string) domain.History {
	return c.historyRepo.Load(sessionID)
}

func (c *chatService) Reset(ctx context.Context, sessionID string) error {
	if err := c.historyRepo.Reset(sessionID); err != nil {
		return fmt.Errorf("resetting session: %w", err)
	}
	slog.InfoContext(ctx, "Session reset", "sessionID", sessionID)
	return nil
}

func (c *chatService) UploadPath(filename string) (string, error) {
	return c.uploadRepo.UploadPath(filename)
}
