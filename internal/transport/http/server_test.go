package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"prompt_galeri/internal/config"
	"prompt_galeri/internal/domain/models"
	optimizer_service "prompt_galeri/internal/services/optimizer_service"
	"prompt_galeri/internal/storage"
	httpapp "prompt_galeri/internal/transport/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPromptService struct {
	mock.Mock
}

func (m *MockPromptService) ListPrompts(ctx context.Context) ([]models.PromptItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PromptItem), args.Error(1)
}

func (m *MockPromptService) CreatePrompt(ctx context.Context, item models.PromptItem) (*models.PromptItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PromptItem), args.Error(1)
}

func (m *MockPromptService) UpdatePrompt(ctx context.Context, item models.PromptItem) (*models.PromptItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PromptItem), args.Error(1)
}

func (m *MockPromptService) DeletePrompt(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOptimizerService struct {
	mock.Mock
}

func (m *MockOptimizerService) Optimize(ctx context.Context, input optimizer_service.OptimizeInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(ctx context.Context, r io.Reader, filename string) (string, int64, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, data, filename)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}
	return e
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testGate(t *testing.T) config.AdminGateConfig {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("hakan123"), bcrypt.MinCost)
	require.NoError(t, err)

	return config.AdminGateConfig{
		Username:     "admin",
		PasswordHash: string(hash),
		SessionKey:   "test",
		TokenTTL:     time.Hour,
	}
}

func newRouter(t *testing.T) (*httpapp.Routers, *MockPromptService, *MockOptimizerService, *MockFileStorage) {
	t.Helper()

	prompts := new(MockPromptService)
	optimizer := new(MockOptimizerService)
	files := new(MockFileStorage)

	return httpapp.NewRouter(testLogger(), prompts, optimizer, files, testGate(t)), prompts, optimizer, files
}

func TestListPrompts(t *testing.T) {
	router, prompts, _, _ := newRouter(t)

	prompts.On("ListPrompts", mock.Anything).Return([]models.PromptItem{
		{ID: "1", ImageURL: "http://x/1.png", PromptText: "neon", Author: "a", Tags: []string{"Cyberpunk"}, AspectRatio: models.AspectPortrait},
	}, nil)

	e := newEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/prompts", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, router.ListPrompts(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "neon", body[0]["prompt_text"])
	assert.Equal(t, "portrait", body[0]["aspect_ratio"])
}

func TestCreatePrompt(t *testing.T) {
	t.Run("valid payload is stored", func(t *testing.T) {
		router, prompts, _, _ := newRouter(t)

		prompts.On("CreatePrompt", mock.Anything, mock.MatchedBy(func(item models.PromptItem) bool {
			return item.ID == "" && item.PromptText == "neon" && item.AspectRatio == models.AspectSquare
		})).Return(&models.PromptItem{ID: "42", PromptText: "neon"}, nil)

		e := newEcho()
		body := `{"image_url":"http://x/1.png","prompt_text":"neon","author":"a","aspect_ratio":"square"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/prompts", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		require.NoError(t, router.CreatePrompt(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusCreated, rec.Code)
		prompts.AssertExpectations(t)
	})

	t.Run("missing required fields are rejected before the service", func(t *testing.T) {
		router, prompts, _, _ := newRouter(t)

		e := newEcho()
		body := `{"model_name":"Gemini 3 Pro"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/prompts", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		require.NoError(t, router.CreatePrompt(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		prompts.AssertNotCalled(t, "CreatePrompt", mock.Anything, mock.Anything)
	})

	t.Run("unknown aspect ratio is rejected", func(t *testing.T) {
		router, _, _, _ := newRouter(t)

		e := newEcho()
		body := `{"image_url":"http://x/1.png","prompt_text":"neon","author":"a","aspect_ratio":"wide"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/prompts", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		require.NoError(t, router.CreatePrompt(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdatePrompt(t *testing.T) {
	t.Run("unknown id maps to 404", func(t *testing.T) {
		router, prompts, _, _ := newRouter(t)

		prompts.On("UpdatePrompt", mock.Anything, mock.Anything).
			Return(nil, storage.ErrPromptNotFound)

		e := newEcho()
		body := `{"image_url":"http://x/1.png","prompt_text":"neon","author":"a"}`
		req := httptest.NewRequest(http.MethodPut, "/api/v1/prompts/ghost", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("ghost")

		require.NoError(t, router.UpdatePrompt(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("path id wins over any id in the body", func(t *testing.T) {
		router, prompts, _, _ := newRouter(t)

		prompts.On("UpdatePrompt", mock.Anything, mock.MatchedBy(func(item models.PromptItem) bool {
			return item.ID == "7"
		})).Return(&models.PromptItem{ID: "7"}, nil)

		e := newEcho()
		body := `{"image_url":"http://x/1.png","prompt_text":"neon","author":"a"}`
		req := httptest.NewRequest(http.MethodPut, "/api/v1/prompts/7", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("7")

		require.NoError(t, router.UpdatePrompt(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		prompts.AssertExpectations(t)
	})
}

func TestDeletePrompt(t *testing.T) {
	router, prompts, _, _ := newRouter(t)

	prompts.On("DeletePrompt", mock.Anything, "42").Return(nil)

	e := newEcho()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/prompts/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, router.DeletePrompt(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUploadImage(t *testing.T) {
	t.Run("stores the raw body and returns the url", func(t *testing.T) {
		router, _, _, files := newRouter(t)

		files.On("Save", mock.Anything, []byte("png-bytes"), "koi.png").
			Return("http://cdn.local/koi.png", int64(9), nil)

		e := newEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/upload?filename=koi.png", strings.NewReader("png-bytes"))
		rec := httptest.NewRecorder()

		require.NoError(t, router.UploadImage(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "http://cdn.local/koi.png", body["url"])
	})

	t.Run("missing filename is rejected", func(t *testing.T) {
		router, _, _, files := newRouter(t)

		e := newEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", strings.NewReader("png-bytes"))
		rec := httptest.NewRecorder()

		require.NoError(t, router.UploadImage(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		files.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("oversized upload maps to 413", func(t *testing.T) {
		router, _, _, files := newRouter(t)

		files.On("Save", mock.Anything, mock.Anything, "big.png").
			Return("", int64(0), storage.ErrFileTooLarge)

		e := newEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/upload?filename=big.png", strings.NewReader("xxxx"))
		rec := httptest.NewRecorder()

		require.NoError(t, router.UploadImage(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestOptimize(t *testing.T) {
	body := `{"user_id":"u1","prompt":"bir kedi"}`

	t.Run("forwards the authenticated identity", func(t *testing.T) {
		router, _, optimizer, _ := newRouter(t)

		optimizer.On("Optimize", mock.Anything, optimizer_service.OptimizeInput{
			AuthenticatedID: "u1",
			UserID:          "u1",
			Prompt:          "bir kedi",
		}).Return("gelişmiş bir kedi", nil)

		e := newEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/optimize", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("x-authenticated-user-id", "u1")
		rec := httptest.NewRecorder()

		require.NoError(t, router.Optimize(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "gelişmiş bir kedi")
	})

	t.Run("anonymous callers get 401", func(t *testing.T) {
		router, _, optimizer, _ := newRouter(t)

		optimizer.On("Optimize", mock.Anything, mock.Anything).
			Return("", models.ErrNotAuthorized)

		e := newEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/optimize", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		require.NoError(t, router.Optimize(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("claimed identity mismatch gets 403", func(t *testing.T) {
		router, _, optimizer, _ := newRouter(t)

		optimizer.On("Optimize", mock.Anything, mock.Anything).
			Return("", optimizer_service.ErrIdentityMismatch)

		e := newEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/optimize", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("x-authenticated-user-id", "someone-else")
		rec := httptest.NewRecorder()

		require.NoError(t, router.Optimize(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("backend failure maps to 502", func(t *testing.T) {
		router, _, optimizer, _ := newRouter(t)

		optimizer.On("Optimize", mock.Anything, mock.Anything).
			Return("", &models.TransportError{Op: "genai", Err: errors.New("timeout")})

		e := newEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/optimize", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("x-authenticated-user-id", "u1")
		rec := httptest.NewRecorder()

		require.NoError(t, router.Optimize(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestAdminLogin(t *testing.T) {
	t.Run("matching credential pair issues a token", func(t *testing.T) {
		router, _, _, _ := newRouter(t)

		e := newEcho()
		body := `{"username":"admin","password":"hakan123"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		h := session.Middleware(sessions.NewCookieStore([]byte("test")))(router.AdminLogin)
		require.NoError(t, h(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Status string            `json:"status"`
			Data   map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)
		assert.NotEmpty(t, resp.Data["access_token"])
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		router, _, _, _ := newRouter(t)

		e := newEcho()
		body := `{"username":"admin","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		h := session.Middleware(sessions.NewCookieStore([]byte("test")))(router.AdminLogin)
		require.NoError(t, h(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
