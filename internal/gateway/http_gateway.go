package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"prompt_galeri/internal/domain/models"
)

// HTTPGateway talks to the item collection endpoint and the binary asset
// endpoint over plain HTTP. Non-2xx responses map to the error taxonomy:
// 400/422 surface as a validation error, everything else as a transport
// failure.
type HTTPGateway struct {
	http    *http.Client
	baseURL string
}

func NewHTTPGateway(baseURL string, client *http.Client) *HTTPGateway {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPGateway{
		http:    client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (g *HTTPGateway) ListItems(ctx context.Context) ([]models.PromptItem, error) {
	const op = "gateway.ListItems"

	var payload []promptPayload
	if err := g.doJSON(ctx, op, http.MethodGet, g.baseURL+"/api/v1/prompts", nil, &payload); err != nil {
		return nil, err
	}

	items := make([]models.PromptItem, 0, len(payload))
	for _, p := range payload {
		items = append(items, p.toDomain())
	}

	return items, nil
}

func (g *HTTPGateway) CreateItem(ctx context.Context, item models.PromptItem) (*models.PromptItem, error) {
	const op = "gateway.CreateItem"

	body, err := json.Marshal(toWire(item))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var stored promptPayload
	if err := g.doJSON(ctx, op, http.MethodPost, g.baseURL+"/api/v1/prompts", bytes.NewReader(body), &stored); err != nil {
		return nil, err
	}

	confirmed := stored.toDomain()
	return &confirmed, nil
}

func (g *HTTPGateway) UpdateItem(ctx context.Context, item models.PromptItem) (*models.PromptItem, error) {
	const op = "gateway.UpdateItem"

	body, err := json.Marshal(toWire(item))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	endpoint := g.baseURL + "/api/v1/prompts/" + url.PathEscape(item.ID)

	var stored promptPayload
	if err := g.doJSON(ctx, op, http.MethodPut, endpoint, bytes.NewReader(body), &stored); err != nil {
		return nil, err
	}

	confirmed := stored.toDomain()
	return &confirmed, nil
}

func (g *HTTPGateway) DeleteItem(ctx context.Context, id string) error {
	const op = "gateway.DeleteItem"

	endpoint := g.baseURL + "/api/v1/prompts/" + url.PathEscape(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return &models.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	// already gone counts as deleted
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return g.classify(op, resp)
	}

	return nil
}

func (g *HTTPGateway) UploadAsset(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	const op = "gateway.UploadAsset"

	endpoint := g.baseURL + "/api/v1/upload?filename=" + url.QueryEscape(suggestedName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, r)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", &models.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", g.classify(op, resp)
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &models.TransportError{Op: op, Err: err}
	}

	if payload.URL == "" {
		return "", &models.TransportError{Op: op, Err: fmt.Errorf("empty asset reference")}
	}

	return payload.URL, nil
}

func (g *HTTPGateway) doJSON(ctx context.Context, op, method, endpoint string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return &models.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return g.classify(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &models.TransportError{Op: op, Err: err}
	}

	return nil
}

func (g *HTTPGateway) classify(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	detail := ""
	var payload errorPayload
	if err := json.Unmarshal(raw, &payload); err == nil {
		detail = payload.Details
		if detail == "" {
			detail = payload.Error
		}
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if detail == "" {
			detail = "request rejected by the server"
		}
		return &models.PromptValidationError{Errors: []string{detail}}
	default:
		if detail != "" {
			return &models.TransportError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, detail)}
		}
		return &models.TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
}
