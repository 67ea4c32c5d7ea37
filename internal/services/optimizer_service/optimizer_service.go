package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"prompt_galeri/internal/domain/models"
	"prompt_galeri/internal/lib/logger/sl"

	gocache "github.com/patrickmn/go-cache"
)

// systemInstruction is the prompt-engineer persona the proxy always applies.
const systemInstruction = "Sen HAKAN_Aİ_GALERİ için uzman bir Prompt Mühendisisin. " +
	"Kullanıcının basit fikirlerini zengin, betimleyici ve profesyonel görsel üretim komutlarına dönüştür."

var (
	// ErrIdentityMismatch: the payload claims another user's identity.
	ErrIdentityMismatch = errors.New("identity mismatch")
	ErrEmptyPrompt      = errors.New("empty prompt")
)

// TextGenerator is the generative backend behind the proxy.
type TextGenerator interface {
	Generate(ctx context.Context, model, systemInstruction, prompt string) (string, error)
}

type OptimizeInput struct {
	// AuthenticatedID is the identity the transport established, empty when
	// the caller is anonymous.
	AuthenticatedID string
	// UserID is the identity claimed inside the payload; must match.
	UserID string
	Prompt string
}

// OptimizerService proxies prompt drafts to the generative backend. Results
// are memoized per (identity, prompt) so repeated drafts do not burn quota.
type OptimizerService struct {
	log   *slog.Logger
	gen   TextGenerator
	model string
	cache *gocache.Cache
}

func NewOptimizerService(log *slog.Logger, gen TextGenerator, model string, cacheTTL time.Duration) *OptimizerService {
	return &OptimizerService{
		log:   log,
		gen:   gen,
		model: model,
		cache: gocache.New(cacheTTL, 2*cacheTTL),
	}
}

func (s *OptimizerService) Optimize(ctx context.Context, input OptimizeInput) (string, error) {
	const op = "optimizer_service.Optimize"

	log := s.log.With(slog.String("op", op))

	if input.AuthenticatedID == "" {
		return "", fmt.Errorf("%s: %w", op, models.ErrNotAuthorized)
	}

	if input.UserID != input.AuthenticatedID {
		log.Warn("identity mismatch",
			slog.String("authenticated", input.AuthenticatedID),
			slog.String("claimed", input.UserID),
		)
		return "", fmt.Errorf("%s: %w", op, ErrIdentityMismatch)
	}

	if input.Prompt == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyPrompt)
	}

	key := cacheKey(input.AuthenticatedID, input.Prompt)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(string), nil
	}

	result, err := s.gen.Generate(ctx, s.model, systemInstruction, input.Prompt)
	if err != nil {
		log.Error("generation failed", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.cache.SetDefault(key, result)

	return result, nil
}

func cacheKey(identity, prompt string) string {
	sum := sha256.Sum256([]byte(identity + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}
