package gateway

import (
	"context"
	"io"

	"prompt_galeri/internal/domain/models"
)

// Gateway abstracts the remote item store and the remote binary-asset store.
// All operations are independent; none cancels another in flight.
type Gateway interface {
	// ListItems returns the full collection, newest first.
	ListItems(ctx context.Context) ([]models.PromptItem, error)
	// CreateItem persists metadata and returns the server-confirmed item,
	// including the server-assigned id.
	CreateItem(ctx context.Context, item models.PromptItem) (*models.PromptItem, error)
	// UpdateItem replaces the stored fields of an existing item by id.
	UpdateItem(ctx context.Context, item models.PromptItem) (*models.PromptItem, error)
	// DeleteItem removes by id. Deleting an unknown id is not a failure.
	DeleteItem(ctx context.Context, id string) error
	// UploadAsset stores the binary and returns its public reference.
	UploadAsset(ctx context.Context, r io.Reader, suggestedName string) (string, error)
}
