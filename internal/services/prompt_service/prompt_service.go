package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"prompt_galeri/internal/domain/models"
	"prompt_galeri/internal/lib/logger/sl"
	"prompt_galeri/internal/repository"
	"prompt_galeri/internal/storage"

	"github.com/google/uuid"
)

// PromptService is the server side of the item collection endpoint: CRUD over
// the prompts table with a read-through list cache.
type PromptService struct {
	log     *slog.Logger
	repo    repository.PromptRepository
	cache   repository.ListCache
	listTTL time.Duration
}

func NewPromptService(log *slog.Logger, repo repository.PromptRepository, cache repository.ListCache, listTTL time.Duration) *PromptService {
	return &PromptService{
		log:     log,
		repo:    repo,
		cache:   cache,
		listTTL: listTTL,
	}
}

// ListPrompts возвращает все записи, сначала новые
func (s *PromptService) ListPrompts(ctx context.Context) ([]models.PromptItem, error) {
	const op = "prompt_service.ListPrompts"

	log := s.log.With(slog.String("op", op))

	if s.cache != nil {
		items, ok, err := s.cache.GetList(ctx)
		if err != nil {
			// cache trouble must not take the gallery down
			log.Warn("list cache unavailable", sl.Err(err))
		} else if ok {
			return items, nil
		}
	}

	items, err := s.repo.GetPrompts(ctx)
	if err != nil {
		log.Error("failed to list prompts", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, items, s.listTTL); err != nil {
			log.Warn("failed to fill list cache", sl.Err(err))
		}
	}

	return items, nil
}

// CreatePrompt persists a new gallery entry. The id is server-assigned; any
// temporary client id is replaced.
func (s *PromptService) CreatePrompt(ctx context.Context, item models.PromptItem) (*models.PromptItem, error) {
	const op = "prompt_service.CreatePrompt"

	log := s.log.With(
		slog.String("op", op),
		slog.String("author", item.Author),
	)

	log.Info("creating prompt")

	item.ID = uuid.New().String()
	if len(item.Tags) == 0 {
		item.Tags = []string{models.FallbackTag}
	}
	if item.AspectRatio == "" {
		item.AspectRatio = models.AspectPortrait
	}

	if err := item.Validate(); err != nil {
		log.Error("prompt validation failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.repo.CreatePrompt(ctx, &item)
	if err != nil {
		log.Error("failed to create prompt", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, log)

	log.Info("prompt created", slog.String("id", created.ID))
	return created, nil
}

// UpdatePrompt replaces the stored fields of an existing entry, same id.
func (s *PromptService) UpdatePrompt(ctx context.Context, item models.PromptItem) (*models.PromptItem, error) {
	const op = "prompt_service.UpdatePrompt"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", item.ID),
	)

	log.Info("updating prompt")

	if len(item.Tags) == 0 {
		item.Tags = []string{models.FallbackTag}
	}

	if err := item.Validate(); err != nil {
		log.Error("prompt validation failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.repo.UpdatePrompt(ctx, &item)
	if err != nil {
		log.Error("failed to update prompt", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, log)

	log.Info("prompt updated")
	return updated, nil
}

// DeletePrompt removes an entry. Deleting an id that is already gone is not
// an error: the caller has usually removed it from view before asking.
func (s *PromptService) DeletePrompt(ctx context.Context, id string) error {
	const op = "prompt_service.DeletePrompt"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	log.Info("deleting prompt")

	err := s.repo.DeletePrompt(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrPromptNotFound) {
			log.Warn("prompt already absent")
			s.invalidate(ctx, log)
			return nil
		}
		log.Error("failed to delete prompt", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, log)

	log.Info("prompt deleted")
	return nil
}

func (s *PromptService) invalidate(ctx context.Context, log *slog.Logger) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn("failed to invalidate list cache", sl.Err(err))
	}
}
