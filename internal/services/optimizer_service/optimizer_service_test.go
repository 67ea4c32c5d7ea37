package services_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"prompt_galeri/internal/domain/models"
	services "prompt_galeri/internal/services/optimizer_service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, model, systemInstruction, prompt string) (string, error) {
	args := m.Called(ctx, model, systemInstruction, prompt)
	return args.String(0), args.Error(1)
}

func newOptimizer(gen *MockTextGenerator) *services.OptimizerService {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	return services.NewOptimizerService(log, gen, "gemini-3-flash-preview", time.Minute)
}

func TestOptimizerService_Optimize(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous caller rejected", func(t *testing.T) {
		gen := new(MockTextGenerator)
		svc := newOptimizer(gen)

		_, err := svc.Optimize(ctx, services.OptimizeInput{UserID: "u1", Prompt: "a cat"})
		assert.ErrorIs(t, err, models.ErrNotAuthorized)
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("claimed identity must match", func(t *testing.T) {
		gen := new(MockTextGenerator)
		svc := newOptimizer(gen)

		_, err := svc.Optimize(ctx, services.OptimizeInput{
			AuthenticatedID: "u1",
			UserID:          "u2",
			Prompt:          "a cat",
		})
		assert.ErrorIs(t, err, services.ErrIdentityMismatch)
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("result is memoized per identity and prompt", func(t *testing.T) {
		gen := new(MockTextGenerator)
		svc := newOptimizer(gen)

		gen.On("Generate", ctx, "gemini-3-flash-preview", mock.AnythingOfType("string"), "a cat").
			Return("a majestic cat, cinematic lighting", nil).Once()

		input := services.OptimizeInput{AuthenticatedID: "u1", UserID: "u1", Prompt: "a cat"}

		first, err := svc.Optimize(ctx, input)
		require.NoError(t, err)

		second, err := svc.Optimize(ctx, input)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		gen.AssertExpectations(t)
	})

	t.Run("empty prompt rejected", func(t *testing.T) {
		gen := new(MockTextGenerator)
		svc := newOptimizer(gen)

		_, err := svc.Optimize(ctx, services.OptimizeInput{AuthenticatedID: "u1", UserID: "u1"})
		assert.ErrorIs(t, err, services.ErrEmptyPrompt)
	})
}
