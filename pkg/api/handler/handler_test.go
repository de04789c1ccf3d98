package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/vision-webchat/pkg/api/session"
	"github.com/dskvich/vision-webchat/pkg/domain"
	"github.com/dskvich/vision-webchat/pkg/services"
)

type chatCall struct {
	sessionID string
	message   string
	fileName  string
	fileData  string
}

type fakeService struct {
	reply    domain.ChatReply
	chatErr  error
	resetErr error
	history  domain.History
	calls    []chatCall
	resets   []string
}

func (f *fakeService) Chat(_ context.Context, sessionID, message string, upload *services.Upload) (domain.ChatReply, error) {
	call := chatCall{sessionID: sessionID, message: message}
	if upload != nil {
		data, _ := io.ReadAll(upload.Data)
		call.fileName, call.fileData = upload.Name, string(data)
	}
	f.calls = append(f.calls, call)
	return f.reply, f.chatErr
}

func (f *fakeService) History(context.Context, string) domain.History { return f.history }

func (f *fakeService) Reset(_ context.Context, sessionID string) error {
	f.resets = append(f.resets, sessionID)
	return f.resetErr
}

func (f *fakeService) UploadPath(filename string) (string, error) {
	return "", domain.ErrInvalidFilename
}

func serve(t *testing.T, h echo.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.POST("/", h, session.Middleware())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestChat_TextOnly(t *testing.T) {
	svc := &fakeService{reply: domain.ChatReply{Response: "hello"}}
	form := url.Values{"message": {"hi"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	rec := serve(t, NewChat(svc).Chat, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"hello","image":null}`, rec.Body.String())
	require.Len(t, svc.calls, 1)
	assert.Equal(t, "hi", svc.calls[0].message)
	assert.NotEmpty(t, svc.calls[0].sessionID)
}

func TestChat_WithImage(t *testing.T) {
	svc := &fakeService{reply: domain.ChatReply{Response: "a cat", Image: "abc_cat.png"}}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("message", "what is it?"))
	fw, err := mw.CreateFormFile("image", "cat.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())

	rec := serve(t, NewChat(svc).Chat, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"a cat","image":"abc_cat.png"}`, rec.Body.String())
	require.Len(t, svc.calls, 1)
	assert.Equal(t, chatCall{
		sessionID: svc.calls[0].sessionID,
		message:   "what is it?",
		fileName:  "cat.png",
		fileData:  "png-bytes",
	}, svc.calls[0])
}

func TestChat_MissingMessageIsEmpty(t *testing.T) {
	svc := &fakeService{reply: domain.ChatReply{Response: "?"}}
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	rec := serve(t, NewChat(svc).Chat, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.calls, 1)
	assert.Equal(t, "", svc.calls[0].message)
	assert.Empty(t, svc.calls[0].fileName)
}

func TestChat_ServiceError(t *testing.T) {
	svc := &fakeService{chatErr: errors.New("saving history: disk full")}
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	rec := serve(t, NewChat(svc).Chat, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error."}`, rec.Body.String())
}

func TestReset(t *testing.T) {
	svc := &fakeService{}
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	rec := serve(t, NewReset(svc).Reset, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Session reset."}`, rec.Body.String())
	assert.Len(t, svc.resets, 1)
}

func TestReset_Failure(t *testing.T) {
	svc := &fakeService{resetErr: errors.New("permission denied")}
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	rec := serve(t, NewReset(svc).Reset, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestToTurnView(t *testing.T) {
	user := toTurnView(domain.NewUserTurn("<b>hi</b>", "abc_cat.png"), 0)
	assert.Equal(t, TurnView{Role: "user", Text: "<b>hi</b>", ImageURL: "/uploads/abc_cat.png"}, user)

	assistant := toTurnView(domain.NewAssistantTurn("**bold**"), 1)
	assert.Contains(t, string(assistant.HTML), "<strong>bold</strong>")
	assert.Empty(t, assistant.Text)
}
