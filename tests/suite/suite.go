package suite

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"prompt_galeri/internal/config"
	"prompt_galeri/internal/domain/models"
	"prompt_galeri/internal/gallery"
	"prompt_galeri/internal/gateway"
	optimizer_service "prompt_galeri/internal/services/optimizer_service"
	"prompt_galeri/internal/storage"
	filestorage "prompt_galeri/internal/storage/filestorage"
	httprouters "prompt_galeri/internal/transport/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// Suite wires the full pipeline end to end: the client-side engine talks
// through the HTTP gateway to a real echo server backed by an in-memory
// prompt store and real on-disk blob storage.
type Suite struct {
	*testing.T
	Server   *httptest.Server
	Store    *MemoryPromptStore
	State    *gallery.State
	Workflow *gallery.Workflow
	Notifier *gallery.Notifier
	Taxonomy *gallery.TaxonomyStore
	BaseDir  string
}

const (
	AdminUser     = "admin"
	AdminPassword = "hakan123"
)

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	baseDir := t.TempDir()
	blobStorage, err := filestorage.NewLocalBlobStorage(baseDir, "http://test.local/uploads", 10<<20)
	require.NoError(t, err)

	store := NewMemoryPromptStore()

	hash, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	gate := config.AdminGateConfig{
		Username:     AdminUser,
		PasswordHash: string(hash),
		SessionKey:   "test",
		TokenTTL:     time.Hour,
	}

	optimizer := optimizer_service.NewOptimizerService(log, echoGenerator{}, "test-model", time.Minute)

	routers := httprouters.NewRouter(log, store, optimizer, blobStorage, gate)

	e := echo.New()
	e.Validator = &requestValidator{validate: validator.New()}
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(gate.SessionKey))))

	api := e.Group("/api/v1")
	api.GET("/prompts", routers.ListPrompts)
	api.POST("/prompts", routers.CreatePrompt)
	api.PUT("/prompts/:id", routers.UpdatePrompt)
	api.DELETE("/prompts/:id", routers.DeletePrompt)
	api.POST("/upload", routers.UploadImage)
	api.POST("/optimize", routers.Optimize)
	api.POST("/admin/login", routers.AdminLogin)

	server := httptest.NewServer(e)

	notifier := gallery.NewNotifierTTL(time.Minute)
	taxonomy := gallery.NewTaxonomyStore(models.InitialStyleGroups())
	gw := gateway.NewHTTPGateway(server.URL, server.Client())
	state := gallery.NewState(log, gw, taxonomy, notifier)
	workflow := gallery.NewWorkflow(log, gw, state, taxonomy, notifier, gate)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)

	t.Cleanup(func() {
		cancel()
		server.Close()
	})

	return ctx, &Suite{
		T:        t,
		Server:   server,
		Store:    store,
		State:    state,
		Workflow: workflow,
		Notifier: notifier,
		Taxonomy: taxonomy,
		BaseDir:  baseDir,
	}
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// echoGenerator is a TextGenerator that returns the prompt back, prefixed.
type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, _, _, prompt string) (string, error) {
	return "optimize edilmiş: " + prompt, nil
}

// MemoryPromptStore is the server-side item store used in place of postgres.
type MemoryPromptStore struct {
	mu    sync.Mutex
	items map[string]models.PromptItem
	// FailNext makes the next mutation return the given error once.
	FailNext error
}

func NewMemoryPromptStore() *MemoryPromptStore {
	return &MemoryPromptStore{items: make(map[string]models.PromptItem)}
}

func (m *MemoryPromptStore) takeFailure() error {
	err := m.FailNext
	m.FailNext = nil
	return err
}

func (m *MemoryPromptStore) ListPrompts(context.Context) ([]models.PromptItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.PromptItem, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (m *MemoryPromptStore) CreatePrompt(_ context.Context, item models.PromptItem) (*models.PromptItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return nil, err
	}

	item.ID = uuid.New().String()
	item.CreatedAt = time.Now()
	m.items[item.ID] = item

	return &item, nil
}

func (m *MemoryPromptStore) UpdatePrompt(_ context.Context, item models.PromptItem) (*models.PromptItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return nil, err
	}

	stored, ok := m.items[item.ID]
	if !ok {
		return nil, storage.ErrPromptNotFound
	}

	item.CreatedAt = stored.CreatedAt
	m.items[item.ID] = item

	return &item, nil
}

func (m *MemoryPromptStore) DeletePrompt(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return err
	}

	delete(m.items, id)
	return nil
}

func (m *MemoryPromptStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.items)
}

// Fail makes the next store mutation fail with a server error.
func (m *MemoryPromptStore) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FailNext = err
}

var _ httprouters.PromptService = (*MemoryPromptStore)(nil)
