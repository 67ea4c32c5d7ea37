package dto

import (
	"time"

	"prompt_galeri/internal/domain/models"
)

// PromptRequest is the wire form of a gallery entry on create and update.
// Field casing follows the storage convention, not the in-memory one.
type PromptRequest struct {
	ImageURL    string   `json:"image_url" validate:"required"`
	PromptText  string   `json:"prompt_text" validate:"required"`
	ModelName   string   `json:"model_name"`
	Author      string   `json:"author" validate:"required"`
	Tags        []string `json:"tags"`
	AspectRatio string   `json:"aspect_ratio" validate:"omitempty,oneof=square portrait landscape"`
}

// ToModel converts the request into a domain item. id is empty on create and
// the path parameter on update.
func (r PromptRequest) ToModel(id string) models.PromptItem {
	ratio := models.AspectRatio(r.AspectRatio)
	if r.AspectRatio == "" {
		ratio = models.AspectPortrait
	}

	return models.PromptItem{
		ID:          id,
		ImageURL:    r.ImageURL,
		PromptText:  r.PromptText,
		ModelName:   r.ModelName,
		Author:      r.Author,
		Tags:        r.Tags,
		AspectRatio: ratio,
	}
}

type PromptResponse struct {
	ID          string    `json:"id"`
	ImageURL    string    `json:"image_url"`
	PromptText  string    `json:"prompt_text"`
	ModelName   string    `json:"model_name"`
	Author      string    `json:"author"`
	Tags        []string  `json:"tags"`
	AspectRatio string    `json:"aspect_ratio"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewPromptResponse(item models.PromptItem) PromptResponse {
	return PromptResponse{
		ID:          item.ID,
		ImageURL:    item.ImageURL,
		PromptText:  item.PromptText,
		ModelName:   item.ModelName,
		Author:      item.Author,
		Tags:        item.Tags,
		AspectRatio: string(item.AspectRatio),
		CreatedAt:   item.CreatedAt,
	}
}

func NewPromptListResponse(items []models.PromptItem) []PromptResponse {
	out := make([]PromptResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewPromptResponse(item))
	}
	return out
}

// OptimizeRequest carries a prompt draft to the text-generation proxy. UserID
// is the identity claimed by the payload; the server cross-checks it against
// the authenticated identity.
type OptimizeRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Prompt string `json:"prompt" validate:"required"`
}

type OptimizeResponse struct {
	Text string `json:"text"`
}

// UploadResponse returns the public reference of a stored binary asset.
type UploadResponse struct {
	URL  string `json:"url"`
	Size int64  `json:"size"`
}
