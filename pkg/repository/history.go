package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/dskvich/vision-webchat/pkg/domain"
	"github.com/dskvich/vision-webchat/pkg/logger"
)

const historyFileExt = ".json"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// historyRepository keeps one JSON file per session under historyDir and the
// session's uploaded images under uploadDir. Concurrent writes to the same
// session are not serialized: the last Save wins.
type historyRepository struct {
	historyDir string
	uploadDir  string
}

func NewHistoryRepository(historyDir, uploadDir string) (*historyRepository, error) {
	for _, dir := range []string{historyDir, uploadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	return &historyRepository{
		historyDir: historyDir,
		uploadDir:  uploadDir,
	}, nil
}

func ValidSessionID(sessionID string) bool {
	return sessionIDPattern.MatchString(sessionID)
}

func (r *historyRepository) historyFile(sessionID string) string {
	return filepath.Join(r.historyDir, sessionID+historyFileExt)
}

// Load returns the stored history of the session. A missing, unreadable or
// corrupt record yields an empty history.
func (r *historyRepository) Load(sessionID string) domain.History {
	if !ValidSessionID(sessionID) {
		slog.Warn("Loading history for invalid session id", "sessionID", sessionID)
		return domain.History{}
	}

	data, err := os.ReadFile(r.historyFile(sessionID))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Reading history file", "sessionID", sessionID, logger.Err(err))
		}
		return domain.History{}
	}

	var history domain.History
	if err := json.Unmarshal(data, &history); err != nil {
		slog.Warn("Decoding history file", "sessionID", sessionID, logger.Err(err))
		return domain.History{}
	}
	if history == nil {
		history = domain.History{}
	}
	return history
}

// Save replaces the stored history of the session. The new content is
// written to a temporary file first and renamed into place.
func (r *historyRepository) Save(sessionID string, history domain.History) error {
	if !ValidSessionID(sessionID) {
		return domain.ErrInvalidSessionID
	}
	if history == nil {
		history = domain.History{}
	}

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	tmp, err := os.CreateTemp(r.historyDir, sessionID+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp history file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp history file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.historyFile(sessionID)); err != nil {
		return fmt.Errorf("replacing history file: %w", err)
	}
	return nil
}

// Reset removes the session's history file and every upload carrying the
// session prefix. Files that are already gone are not an error.
func (r *historyRepository) Reset(sessionID string) error {
	if !ValidSessionID(sessionID) {
		return domain.ErrInvalidSessionID
	}

	var result error
	if err := removeIfExists(r.historyFile(sessionID)); err != nil {
		result = multierror.Append(result, err)
	}

	entries, err := os.ReadDir(r.uploadDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		result = multierror.Append(result, fmt.Errorf("listing uploads: %w", err))
	}

	prefix := uploadPrefix(sessionID)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if err := removeIfExists(filepath.Join(r.uploadDir, entry.Name())); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", filepath.Base(path), err)
	}
	return nil
}
