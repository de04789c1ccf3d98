package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/vision-webchat/pkg/api/session"
	"github.com/dskvich/vision-webchat/pkg/domain"
	"github.com/dskvich/vision-webchat/pkg/repository"
	"github.com/dskvich/vision-webchat/pkg/services"
)

type echoClient struct{}

func (echoClient) Complete(_ context.Context, _ domain.History, current domain.Turn, _, _ string) string {
	return "you said: " + current.Content
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	root := t.TempDir()
	uploadDir := filepath.Join(root, "uploads")
	repo, err := repository.NewHistoryRepository(filepath.Join(root, "history"), uploadDir)
	require.NoError(t, err)

	srv, err := NewServer(":0", services.NewChatService(repo, repo, echoClient{}, ""))
	require.NoError(t, err)
	return srv, uploadDir
}

func do(srv *Server, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestServer_ChatRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	index := do(srv, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, http.StatusOK, index.Code)
	cookie := sessionCookie(t, index)

	form := url.Values{"message": {"hi"}}
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(srv, req, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"you said: hi","image":null}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	page := do(srv, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	assert.Contains(t, page.Body.String(), "you said: hi")

	reset := do(srv, httptest.NewRequest(http.MethodPost, "/reset", nil), cookie)
	require.Equal(t, http.StatusOK, reset.Code)
	assert.JSONEq(t, `{"message":"Session reset."}`, reset.Body.String())

	page = do(srv, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	assert.NotContains(t, page.Body.String(), "you said: hi")
}

func TestServer_Uploads(t *testing.T) {
	srv, uploadDir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "abc_cat.png"), []byte("png"), 0o644))

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/uploads/abc_cat.png", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())

	missing := do(srv, httptest.NewRequest(http.MethodGet, "/uploads/nope.png", nil), nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}
