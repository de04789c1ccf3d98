package repository

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dskvich/vision-webchat/pkg/domain"
)

const defaultUploadName = "image"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

func uploadPrefix(sessionID string) string {
	return sessionID + "_"
}

// SanitizeFilename reduces a client supplied filename to a safe base name:
// separators become spaces, whitespace runs become underscores, anything
// outside [A-Za-z0-9_.-] is dropped and leading or trailing dots and
// underscores are trimmed.
func SanitizeFilename(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	if name == "" {
		return defaultUploadName
	}
	return name
}

// SaveUpload stores src under "<sessionID>_<sanitized name>" and returns that
// filename. An existing upload with the same name is overwritten.
func (r *historyRepository) SaveUpload(sessionID, originalName string, src io.Reader) (string, error) {
	if !ValidSessionID(sessionID) {
		return "", domain.ErrInvalidSessionID
	}

	filename := uploadPrefix(sessionID) + SanitizeFilename(originalName)

	dst, err := os.Create(filepath.Join(r.uploadDir, filename))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("closing upload file: %w", err)
	}

	return filename, nil
}

// UploadPath resolves a stored upload filename to its location on disk.
// Only plain base names are accepted.
func (r *historyRepository) UploadPath(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." || filepath.Base(filename) != filename || strings.ContainsAny(filename, `/\`) {
		return "", domain.ErrInvalidFilename
	}
	return filepath.Join(r.uploadDir, filename), nil
}

// RemoveUpload deletes a stored upload. A missing file is not an error.
func (r *historyRepository) RemoveUpload(filename string) error {
	path, err := r.UploadPath(filename)
	if err != nil {
		return err
	}
	return removeIfExists(path)
}
