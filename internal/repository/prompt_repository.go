package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prompt_galeri/internal/domain/models"
	"prompt_galeri/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type PromptRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPromptRepository(db *pgxpool.Pool) *PromptRepo {
	return &PromptRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var promptColumns = []string{
	"id",
	"image_url",
	"prompt_text",
	"model_name",
	"author",
	"tags",
	"aspect_ratio",
	"created_at",
}

func (r *PromptRepo) CreatePrompt(ctx context.Context, item *models.PromptItem) (*models.PromptItem, error) {
	const op = "repository.prompt_repository.CreatePrompt"

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.sb.Insert("prompts").
		Columns(promptColumns...).
		Values(
			item.ID,
			item.ImageURL,
			item.PromptText,
			item.ModelName,
			item.Author,
			item.Tags,
			item.AspectRatio,
			item.CreatedAt,
		).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	row := r.db.QueryRow(ctx, query, args...)

	created, err := scanPrompt(row)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create prompt: %w", op, err)
	}

	return created, nil
}

func (r *PromptRepo) UpdatePrompt(ctx context.Context, item *models.PromptItem) (*models.PromptItem, error) {
	const op = "repository.prompt_repository.UpdatePrompt"

	query, args, err := r.sb.Update("prompts").
		Set("image_url", item.ImageURL).
		Set("prompt_text", item.PromptText).
		Set("model_name", item.ModelName).
		Set("author", item.Author).
		Set("tags", item.Tags).
		Set("aspect_ratio", item.AspectRatio).
		Where(sq.Eq{"id": item.ID}).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	row := r.db.QueryRow(ctx, query, args...)

	updated, err := scanPrompt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrPromptNotFound)
		}
		return nil, fmt.Errorf("%s: failed to update prompt: %w", op, err)
	}

	return updated, nil
}

func (r *PromptRepo) DeletePrompt(ctx context.Context, id string) error {
	const op = "repository.prompt_repository.DeletePrompt"

	query, args, err := r.sb.Delete("prompts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to delete prompt: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPromptNotFound)
	}

	return nil
}

func (r *PromptRepo) GetPromptByID(ctx context.Context, id string) (*models.PromptItem, error) {
	const op = "repository.prompt_repository.GetPromptByID"

	query, args, err := r.sb.Select(promptColumns...).
		From("prompts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	row := r.db.QueryRow(ctx, query, args...)

	item, err := scanPrompt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrPromptNotFound)
		}
		return nil, fmt.Errorf("%s: failed to get prompt: %w", op, err)
	}

	return item, nil
}

// GetPrompts возвращает все записи галереи, сначала новые
func (r *PromptRepo) GetPrompts(ctx context.Context) ([]models.PromptItem, error) {
	const op = "repository.prompt_repository.GetPrompts"

	query, args, err := r.sb.Select(promptColumns...).
		From("prompts").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	defer rows.Close()

	var items []models.PromptItem
	for rows.Next() {
		item, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return items, nil
}

func columnList() string {
	list := ""
	for i, c := range promptColumns {
		if i > 0 {
			list += ", "
		}
		list += c
	}
	return list
}

func scanPrompt(row pgx.Row) (*models.PromptItem, error) {
	var item models.PromptItem
	err := row.Scan(
		&item.ID,
		&item.ImageURL,
		&item.PromptText,
		&item.ModelName,
		&item.Author,
		&item.Tags,
		&item.AspectRatio,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
