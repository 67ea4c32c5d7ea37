package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"prompt_galeri/internal/config"
	"prompt_galeri/internal/domain/models"
	"prompt_galeri/internal/lib/jwt"
	"prompt_galeri/internal/lib/logger/sl"
	"prompt_galeri/internal/metrics"
	optimizer_service "prompt_galeri/internal/services/optimizer_service"
	"prompt_galeri/internal/storage"
	"prompt_galeri/internal/transport/http/dto"
	"prompt_galeri/internal/transport/http/dto/request"
	"prompt_galeri/internal/transport/http/dto/response"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"golang.org/x/crypto/bcrypt"

	_ "prompt_galeri/docs"
)

// identityHeader carries the identity the edge proxy authenticated. The
// optimize endpoint cross-checks it against the identity claimed in the
// payload.
const identityHeader = "x-authenticated-user-id"

type PromptService interface {
	ListPrompts(ctx context.Context) ([]models.PromptItem, error)
	CreatePrompt(ctx context.Context, item models.PromptItem) (*models.PromptItem, error)
	UpdatePrompt(ctx context.Context, item models.PromptItem) (*models.PromptItem, error)
	DeletePrompt(ctx context.Context, id string) error
}

type OptimizerService interface {
	Optimize(ctx context.Context, input optimizer_service.OptimizeInput) (string, error)
}

type FileStorage interface {
	Save(ctx context.Context, r io.Reader, filename string) (string, int64, error)
}

type Routers struct {
	log              *slog.Logger
	PromptService    PromptService
	OptimizerService OptimizerService
	FileStorage      FileStorage
	gate             config.AdminGateConfig
}

func NewRouter(
	log *slog.Logger,
	promptService PromptService,
	optimizerService OptimizerService,
	fileStorage FileStorage,
	gate config.AdminGateConfig,
) *Routers {
	return &Routers{
		log:              log,
		PromptService:    promptService,
		OptimizerService: optimizerService,
		FileStorage:      fileStorage,
		gate:             gate,
	}
}

// ListPrompts godoc
// @Summary Список работ галереи
// @Description Возвращает все опубликованные работы, новые первыми
// @Tags Галерея
// @Produce json
// @Success 200 {array} dto.PromptResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/prompts [get]
func (r *Routers) ListPrompts(c echo.Context) error {
	const op = "http.routers.ListPrompts"

	log := r.log.With(
		slog.String("op", op),
	)

	items, err := r.PromptService.ListPrompts(c.Request().Context())
	if err != nil {
		log.Error("failed to list prompts", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, dto.NewPromptListResponse(items))
}

// CreatePrompt godoc
// @Summary Опубликовать работу
// @Description Сохраняет метаданные работы. Изображение должно быть загружено заранее через /upload.
// @Tags Галерея
// @Accept json
// @Produce json
// @Param request body dto.PromptRequest true "Данные работы"
// @Success 201 {object} dto.PromptResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/prompts [post]
func (r *Routers) CreatePrompt(c echo.Context) error {
	const op = "http.routers.CreatePrompt"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.PromptRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid prompt payload", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	stored, err := r.PromptService.CreatePrompt(c.Request().Context(), req.ToModel(""))
	if err != nil {
		if models.IsValidationError(err) {
			metrics.PromptsPublishedTotal.WithLabelValues("rejected").Inc()
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
		}

		log.Error("failed to create prompt", sl.Err(err))
		metrics.PromptsPublishedTotal.WithLabelValues("error").Inc()
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	log.Info("prompt published", slog.String("id", stored.ID))
	metrics.PromptsPublishedTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusCreated, dto.NewPromptResponse(*stored))
}

// UpdatePrompt godoc
// @Summary Обновить работу
// @Description Полностью заменяет сохранённые поля работы по id
// @Tags Галерея
// @Accept json
// @Produce json
// @Param id path string true "Идентификатор работы"
// @Param request body dto.PromptRequest true "Новые данные"
// @Success 200 {object} dto.PromptResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/prompts/{id} [put]
func (r *Routers) UpdatePrompt(c echo.Context) error {
	const op = "http.routers.UpdatePrompt"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.PromptRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid prompt payload", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	stored, err := r.PromptService.UpdatePrompt(c.Request().Context(), req.ToModel(c.Param("id")))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrPromptNotFound):
			return c.JSON(http.StatusNotFound, response.ErrPromptNotFound)
		case models.IsValidationError(err):
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
		}

		log.Error("failed to update prompt", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, dto.NewPromptResponse(*stored))
}

// DeletePrompt godoc
// @Summary Удалить работу
// @Description Удаляет работу. Повторное удаление того же id не является ошибкой.
// @Tags Галерея
// @Param id path string true "Идентификатор работы"
// @Success 204
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/prompts/{id} [delete]
func (r *Routers) DeletePrompt(c echo.Context) error {
	const op = "http.routers.DeletePrompt"

	log := r.log.With(
		slog.String("op", op),
	)

	if err := r.PromptService.DeletePrompt(c.Request().Context(), c.Param("id")); err != nil {
		log.Error("failed to delete prompt", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadImage godoc
// @Summary Загрузить изображение
// @Description Принимает сырое тело запроса и возвращает публичный URL файла
// @Tags Галерея
// @Accept octet-stream
// @Produce json
// @Param filename query string true "Имя файла"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse
// @Router /api/v1/upload [post]
func (r *Routers) UploadImage(c echo.Context) error {
	const op = "http.routers.UploadImage"

	log := r.log.With(
		slog.String("op", op),
	)

	filename := c.QueryParam("filename")
	if filename == "" {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails(
			"invalid_request", "filename query parameter is required"))
	}

	url, size, err := r.FileStorage.Save(c.Request().Context(), c.Request().Body, filename)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			metrics.AssetUploadsTotal.WithLabelValues("too_large").Inc()
			return c.JSON(http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		}

		log.Error("failed to store asset", sl.Err(err), slog.String("filename", filename))
		metrics.AssetUploadsTotal.WithLabelValues("error").Inc()
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	log.Info("asset stored",
		slog.String("filename", filename),
		slog.Int64("size", size),
	)
	metrics.AssetUploadsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, dto.UploadResponse{URL: url, Size: size})
}

// Optimize godoc
// @Summary Улучшить черновик промпта
// @Description Проксирует текст в генеративную модель. Заявленная в теле личность должна совпадать с аутентифицированной.
// @Tags Оптимизация
// @Accept json
// @Produce json
// @Param request body dto.OptimizeRequest true "Черновик"
// @Success 200 {object} dto.OptimizeResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /api/v1/optimize [post]
func (r *Routers) Optimize(c echo.Context) error {
	const op = "http.routers.Optimize"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.OptimizeRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	text, err := r.OptimizerService.Optimize(c.Request().Context(), optimizer_service.OptimizeInput{
		AuthenticatedID: c.Request().Header.Get(identityHeader),
		UserID:          req.UserID,
		Prompt:          req.Prompt,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotAuthorized):
			return c.JSON(http.StatusUnauthorized, response.ErrIdentityRequired)
		case errors.Is(err, optimizer_service.ErrIdentityMismatch):
			log.Warn("identity mismatch",
				slog.String("claimed", req.UserID),
			)
			return c.JSON(http.StatusForbidden, response.ErrIdentityMismatch)
		case errors.Is(err, optimizer_service.ErrEmptyPrompt):
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "prompt is empty"))
		}

		log.Error("optimizer backend failed", sl.Err(err))
		return c.JSON(http.StatusBadGateway, response.ErrorResponse{
			Status: "error",
			Error:  "upstream_error",
		})
	}

	return c.JSON(http.StatusOK, dto.OptimizeResponse{Text: text})
}

// AdminLogin godoc
// @Summary Вход в панель куратора
// @Description Проверяет общую пару логин/пароль и выдаёт токен сессии. Это слабая граница, а не настоящая аутентификация.
// @Tags Куратор
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Учётные данные"
// @Success 200 {object} response.Response{data=map[string]string}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/admin/login [post]
func (r *Routers) AdminLogin(c echo.Context) error {
	const op = "http.routers.AdminLogin"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid login request", slog.String("username", req.Username))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if req.Username != r.gate.Username ||
		bcrypt.CompareHashAndPassword([]byte(r.gate.PasswordHash), []byte(req.Password)) != nil {
		log.Warn("rejected admin login", slog.String("username", req.Username))
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	token, err := jwt.NewAdminToken(r.gate.Username, r.gate.SessionKey, r.gate.TokenTTL)
	if err != nil {
		log.Error("failed to issue token", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	sess, _ := session.Get("session", c)
	sess.Values["admin"] = true
	sess.Save(c.Request(), c.Response())

	log.Info("admin session opened")

	return c.JSON(http.StatusOK, response.Response{
		Status: "success",
		Data:   map[string]string{"access_token": token},
	})
}
