package repository

import (
	"context"
	"time"

	"prompt_galeri/internal/domain/models"
)

type PromptRepository interface {
	CreatePrompt(ctx context.Context, item *models.PromptItem) (*models.PromptItem, error)
	UpdatePrompt(ctx context.Context, item *models.PromptItem) (*models.PromptItem, error)
	DeletePrompt(ctx context.Context, id string) error
	GetPromptByID(ctx context.Context, id string) (*models.PromptItem, error)
	GetPrompts(ctx context.Context) ([]models.PromptItem, error)
}

// ListCache caches the rendered prompt list between mutations.
type ListCache interface {
	GetList(ctx context.Context) ([]models.PromptItem, bool, error)
	SetList(ctx context.Context, items []models.PromptItem, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
