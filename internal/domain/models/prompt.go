package models

import (
	"fmt"
	"strings"
	"time"
)

type AspectRatio string

const (
	AspectSquare    AspectRatio = "square"
	AspectPortrait  AspectRatio = "portrait"
	AspectLandscape AspectRatio = "landscape"
)

// PromptItem is a published gallery entry: one generated image together with
// the prompt that produced it.
type PromptItem struct {
	ID          string      `db:"id"`
	ImageURL    string      `db:"image_url"`
	PromptText  string      `db:"prompt_text"`
	ModelName   string      `db:"model_name"`
	Author      string      `db:"author"`
	Tags        []string    `db:"tags"`
	AspectRatio AspectRatio `db:"aspect_ratio"`
	CreatedAt   time.Time   `db:"created_at"`
}

// HasTag reports whether the item carries the exact tag label.
func (p *PromptItem) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Matches reports whether the free-text query matches the prompt text, the
// model name or any tag, case-insensitively. An empty query matches.
func (p *PromptItem) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(p.PromptText), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.ModelName), q) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// Validate проверяет обязательные поля перед публикацией
func (p *PromptItem) Validate() error {
	var validationErrors []string

	if p.ImageURL == "" {
		validationErrors = append(validationErrors, "image URL is required")
	}
	if p.PromptText == "" {
		validationErrors = append(validationErrors, "prompt text is required")
	}
	if p.Author == "" {
		validationErrors = append(validationErrors, "author is required")
	}
	if len(p.Tags) == 0 {
		validationErrors = append(validationErrors, "at least one tag is required")
	}

	switch p.AspectRatio {
	case AspectSquare, AspectPortrait, AspectLandscape:
	default:
		validTypes := []string{
			string(AspectSquare),
			string(AspectPortrait),
			string(AspectLandscape),
		}
		validationErrors = append(validationErrors,
			fmt.Sprintf("invalid aspect ratio '%s', must be one of: %v",
				p.AspectRatio, validTypes))
	}

	if len(validationErrors) > 0 {
		return &PromptValidationError{
			Errors: validationErrors,
		}
	}

	return nil
}

// PromptValidationError кастомный тип ошибки для валидации
type PromptValidationError struct {
	Errors []string
}

func (e *PromptValidationError) Error() string {
	return fmt.Sprintf("prompt validation failed: %s", strings.Join(e.Errors, "; "))
}
