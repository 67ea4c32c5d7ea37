package gallery

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/bcrypt"

	"prompt_galeri/internal/config"
	"prompt_galeri/internal/domain/models"
	"prompt_galeri/internal/lib/logger/sl"
)

// User-facing status messages, in the gallery's locale.
const (
	msgLoadFailed    = "Galeri yüklenemedi."
	msgLoginFailed   = "Hatalı kullanıcı adı veya şifre!"
	msgMissingFields = "Lütfen zorunlu alanları doldurun."
	msgUploadFailed  = "Görsel yüklenemedi."
	msgSaveFailed    = "Çalışma kaydedilemedi."
	msgPublished     = "Çalışma başarıyla yayınlandı."
	msgUpdated       = "Çalışma güncellendi."
	msgDeleted       = "Çalışma silindi."
	msgDeleteFailed  = "Çalışma silinemedi."
)

// LoginErrorFlash is how long the transient login-error flag stays raised
// after a rejected credential pair.
const LoginErrorFlash = 500 * time.Millisecond

// Draft is the curation form: a content item being composed, plus an optional
// not-yet-uploaded asset. TargetID is empty in create mode and holds an
// existing item's id in edit mode.
type Draft struct {
	TargetID    string
	ImageURL    string
	PromptText  string
	ModelName   string
	Author      string
	Tags        []string
	AspectRatio models.AspectRatio

	PendingAsset []byte
	PendingName  string
}

// Workflow orchestrates the admin curation flow: the shared-credential gate,
// the draft form, the two-phase publish (asset upload then metadata persist)
// and list reconciliation after each mutation.
//
// The gate is deliberately weak: one shared credential pair checked locally,
// no lockout, no rate limiting. Authorization does not survive a panel close.
type Workflow struct {
	log      *slog.Logger
	gw       stateGateway
	state    *State
	taxonomy *TaxonomyStore
	notifier *Notifier
	gate     config.AdminGateConfig

	mu         sync.Mutex
	authorized bool
	loginError bool
	draft      Draft

	// generation invalidates the resolutions of superseded publish calls.
	generation atomic.Uint64
}

// stateGateway is the slice of the persistence gateway the workflow mutates
// through.
type stateGateway interface {
	CreateItem(ctx context.Context, item models.PromptItem) (*models.PromptItem, error)
	UpdateItem(ctx context.Context, item models.PromptItem) (*models.PromptItem, error)
	DeleteItem(ctx context.Context, id string) error
	UploadAsset(ctx context.Context, r io.Reader, suggestedName string) (string, error)
}

func NewWorkflow(
	log *slog.Logger,
	gw stateGateway,
	state *State,
	taxonomy *TaxonomyStore,
	notifier *Notifier,
	gate config.AdminGateConfig,
) *Workflow {
	return &Workflow{
		log:      log,
		gw:       gw,
		state:    state,
		taxonomy: taxonomy,
		notifier: notifier,
		gate:     gate,
	}
}

// Login checks the shared credential pair. On a mismatch it raises the
// transient loginError flag, clears it after LoginErrorFlash, posts an error
// notification and returns models.ErrNotAuthorized.
func (w *Workflow) Login(username, password string) error {
	const op = "gallery.Workflow.Login"

	if username == w.gate.Username &&
		bcrypt.CompareHashAndPassword([]byte(w.gate.PasswordHash), []byte(password)) == nil {
		w.mu.Lock()
		w.authorized = true
		w.loginError = false
		w.mu.Unlock()
		return nil
	}

	w.log.Warn("rejected login attempt",
		slog.String("op", op),
		slog.String("username", username),
	)

	w.mu.Lock()
	w.loginError = true
	w.mu.Unlock()

	time.AfterFunc(LoginErrorFlash, func() {
		w.mu.Lock()
		w.loginError = false
		w.mu.Unlock()
	})

	w.notifier.Post(msgLoginFailed, models.SeverityError)

	return models.ErrNotAuthorized
}

// ClosePanel discards the session and the draft. An in-flight publish is not
// aborted, but its eventual resolution is ignored.
func (w *Workflow) ClosePanel() {
	w.generation.Add(1)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.authorized = false
	w.loginError = false
	w.draft = Draft{}
}

func (w *Workflow) Authorized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.authorized
}

func (w *Workflow) LoginError() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.loginError
}

// Draft returns a copy of the current form state.
func (w *Workflow) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()

	d := w.draft
	d.Tags = append([]string(nil), w.draft.Tags...)
	d.PendingAsset = append([]byte(nil), w.draft.PendingAsset...)
	return d
}

// SetDraft replaces the form's textual fields, leaving any pending asset
// selection in place.
func (w *Workflow) SetDraft(d Draft) {
	w.mu.Lock()
	defer w.mu.Unlock()

	pending, name := w.draft.PendingAsset, w.draft.PendingName
	w.draft = d
	if d.PendingAsset == nil {
		w.draft.PendingAsset, w.draft.PendingName = pending, name
	}
}

// SelectAsset stages a local file for the next publish.
func (w *Workflow) SelectAsset(data []byte, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.draft.PendingAsset = append([]byte(nil), data...)
	w.draft.PendingName = name
}

// StartCreating resets the form to an empty create-mode draft.
func (w *Workflow) StartCreating() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.draft = Draft{AspectRatio: models.AspectPortrait}
}

// StartEditing copies the target item's fields into the form verbatim and
// clears any pending asset selection; the stored image reference is reused
// unless a new file is staged.
func (w *Workflow) StartEditing(id string) bool {
	item, ok := w.state.find(id)
	if !ok {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.draft = Draft{
		TargetID:    item.ID,
		ImageURL:    item.ImageURL,
		PromptText:  item.PromptText,
		ModelName:   item.ModelName,
		Author:      item.Author,
		Tags:        append([]string(nil), item.Tags...),
		AspectRatio: item.AspectRatio,
	}

	return true
}

// AddStyle registers a new style label under a taxonomy group and returns the
// updated taxonomy for display refresh.
func (w *Workflow) AddStyle(groupLabel, styleLabel string) []models.StyleGroup {
	return w.taxonomy.AddStyle(groupLabel, styleLabel)
}

// Publish runs the two-phase pipeline: validate, upload the staged asset if
// any, then persist the metadata. On any failure the draft is preserved so
// the user can retry without re-entering text, and an error notification is
// posted. Only the newest invocation's resolution is applied; a superseded
// call's result is discarded.
func (w *Workflow) Publish(ctx context.Context) error {
	const op = "gallery.Workflow.Publish"

	log := w.log.With(slog.String("op", op))

	gen := w.generation.Add(1)

	w.mu.Lock()
	draft := w.draft
	w.mu.Unlock()

	if err := validateDraft(draft); err != nil {
		w.notifier.Post(msgMissingFields, models.SeverityError)
		return err
	}

	imageRef := draft.ImageURL
	uploaded := false
	if len(draft.PendingAsset) > 0 {
		ref, err := w.gw.UploadAsset(ctx, bytes.NewReader(draft.PendingAsset), draft.PendingName)
		if err != nil {
			log.Error("asset upload failed", sl.Err(err))
			w.notifier.Post(msgUploadFailed, models.SeverityError)
			return err
		}
		imageRef = ref
		uploaded = true
	}

	tags := draft.Tags
	if len(tags) == 0 {
		tags = []string{models.FallbackTag}
	}

	item := models.PromptItem{
		ID:          draft.TargetID,
		ImageURL:    imageRef,
		PromptText:  draft.PromptText,
		ModelName:   draft.ModelName,
		Author:      draft.Author,
		Tags:        tags,
		AspectRatio: draft.AspectRatio,
	}

	var (
		stored *models.PromptItem
		err    error
	)
	editing := draft.TargetID != ""
	if editing {
		stored, err = w.gw.UpdateItem(ctx, item)
	} else {
		stored, err = w.gw.CreateItem(ctx, item)
	}
	if err != nil {
		if uploaded {
			// The asset already landed; nothing references it now. Орфанный
			// файл остаётся, компенсирующего удаления нет.
			log.Warn("uploaded asset orphaned by failed persist",
				slog.String("asset", imageRef), sl.Err(err))
		}
		log.Error("metadata persist failed", sl.Err(err))
		w.notifier.Post(msgSaveFailed, models.SeverityError)
		return err
	}

	if w.generation.Load() != gen {
		log.Info("discarding stale publish resolution", slog.Uint64("generation", gen))
		return nil
	}

	if editing {
		w.state.replace(*stored)
		w.notifier.Post(msgUpdated, models.SeveritySuccess)
	} else {
		w.state.insert(*stored)
		w.notifier.Post(msgPublished, models.SeveritySuccess)
	}

	w.mu.Lock()
	w.draft = Draft{}
	w.mu.Unlock()

	log.Info("published", slog.String("id", stored.ID), slog.Bool("edit", editing))

	return nil
}

// Delete removes an item after explicit confirmation. Without confirmation it
// is a no-op. The item leaves local state only after the server acknowledges;
// there is no optimistic removal.
func (w *Workflow) Delete(ctx context.Context, id string, confirmed bool) error {
	const op = "gallery.Workflow.Delete"

	if !confirmed {
		return nil
	}

	if err := w.gw.DeleteItem(ctx, id); err != nil {
		w.log.Error("delete failed", slog.String("op", op), sl.Err(err))
		w.notifier.Post(msgDeleteFailed, models.SeverityError)
		return err
	}

	w.state.remove(id)
	w.notifier.Post(msgDeleted, models.SeveritySuccess)

	return nil
}

// validateDraft checks the pre-I/O requirements: an asset must exist (staged
// file or previously persisted reference), and prompt text and author must be
// non-empty.
func validateDraft(d Draft) error {
	var errs []string

	if len(d.PendingAsset) == 0 && d.ImageURL == "" {
		errs = append(errs, "image is required")
	}
	if d.PromptText == "" {
		errs = append(errs, "prompt text is required")
	}
	if d.Author == "" {
		errs = append(errs, "author is required")
	}

	if len(errs) > 0 {
		return &models.PromptValidationError{Errors: errs}
	}

	return nil
}
