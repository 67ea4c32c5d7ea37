package gateway

import (
	"time"

	"prompt_galeri/internal/domain/models"
)

// promptPayload is the wire shape of an item record. Field casing on the wire
// differs from the in-memory model; the gateway owns the two-way mapping.
type promptPayload struct {
	ID          string    `json:"id,omitempty"`
	ImageURL    string    `json:"image_url"`
	PromptText  string    `json:"prompt_text"`
	ModelName   string    `json:"model_name"`
	Author      string    `json:"author"`
	Tags        []string  `json:"tags"`
	AspectRatio string    `json:"aspect_ratio"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

type errorPayload struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toWire(item models.PromptItem) promptPayload {
	return promptPayload{
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

func (p promptPayload) toDomain() models.PromptItem {
	return models.PromptItem{
		ID:          p.ID,
		ImageURL:    p.ImageURL,
		PromptText:  p.PromptText,
		ModelName:   p.ModelName,
		Author:      p.Author,
		Tags:        p.Tags,
		AspectRatio: models.AspectRatio(p.AspectRatio),
		CreatedAt:   p.CreatedAt,
	}
}
