package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/vision-webchat/pkg/domain"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"cat.png", "cat.png"},
		{"My cat photo.JPG", "My_cat_photo.JPG"},
		{"../../etc/passwd", "etc_passwd"},
		{`C:\Users\me\pic.webp`, "C_Users_me_pic.webp"},
		{".hidden.gif", "hidden.gif"},
		{"фото.png", "png"},
		{"", "image"},
		{"...", "image"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestSaveUpload(t *testing.T) {
	repo := newTestRepository(t)

	name, err := repo.SaveUpload(sessionID, "my cat.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "abc_my_cat.png", name)

	path, err := repo.UploadPath(name)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSaveUpload_InvalidSessionID(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.SaveUpload("../x", "cat.png", strings.NewReader("x"))

	assert.ErrorIs(t, err, domain.ErrInvalidSessionID)
}

func TestUploadPath_RejectsTraversal(t *testing.T) {
	repo := newTestRepository(t)

	for _, name := range []string{"", ".", "..", "../abc_cat.png", "a/b.png", `a\b.png`} {
		_, err := repo.UploadPath(name)
		assert.ErrorIs(t, err, domain.ErrInvalidFilename, name)
	}
}

func TestRemoveUpload(t *testing.T) {
	repo := newTestRepository(t)

	name, err := repo.SaveUpload(sessionID, "cat.png", strings.NewReader("x"))
	require.NoError(t, err)
	path, err := repo.UploadPath(name)
	require.NoError(t, err)

	require.NoError(t, repo.RemoveUpload(name))
	assert.NoFileExists(t, path)

	assert.NoError(t, repo.RemoveUpload(name), "already removed")
	assert.ErrorIs(t, repo.RemoveUpload("../abc_cat.png"), domain.ErrInvalidFilename)
}
