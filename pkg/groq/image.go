package groq

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultImageMimeType = "image/jpeg"

var imageMimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// MimeType guesses the image type from the file extension. Unknown or missing
// extensions are treated as JPEG.
func MimeType(path string) string {
	if mimeType, ok := imageMimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mimeType
	}
	return defaultImageMimeType
}

// EncodeImage reads the file and returns it as a base64 data URL.
func EncodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	return "data:" + MimeType(path) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
