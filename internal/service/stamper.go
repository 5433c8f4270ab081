package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stampapi/internal/document"
	"stampapi/internal/model"
	"stampapi/internal/overlay"
	"stampapi/internal/preview"
	"stampapi/internal/session"
	"stampapi/internal/storage"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrStampNotFound   = errors.New("stamp not found")
	ErrNoDocument      = errors.New("no document loaded")
	ErrPageOutOfRange  = errors.New("page out of range")
	ErrBadConfig       = errors.New("malformed stamp configuration")
	ErrArchiveDisabled = errors.New("archive storage not configured")
)

// ImportResult reports what an import restored.
type ImportResult struct {
	Stamps      int `json:"stamps_imported"`
	Regenerated int `json:"assets_regenerated"`
}

// StamperService is the session-scoped editing API: load a document, place
// and manipulate stamps on its pages, and render previews.
type StamperService interface {
	CreateSession(ctx context.Context) (*session.Session, error)
	DeleteSession(ctx context.Context, id string) error

	// LoadDocument parses the upload and attaches it to the session,
	// replacing any previous document. Existing placements are kept; they
	// reference pages by number.
	LoadDocument(ctx context.Context, sessionID string, data []byte, filename string) (*model.DocumentSummary, error)

	// Document summarizes the session's loaded document.
	Document(ctx context.Context, sessionID string) (*model.DocumentSummary, error)

	// AddStamp renders a stamp from the given params and places it on the
	// page at the normalized center position, returning the placement id.
	AddStamp(ctx context.Context, sessionID string, page int, gp model.GenerationParams, x, y float64, width, height int) (string, error)

	MoveStamp(ctx context.Context, sessionID, stampID string, x, y float64) error
	ResizeStamp(ctx context.Context, sessionID, stampID string, width, height int) error
	RotateStamp(ctx context.Context, sessionID, stampID string, degrees float64) error
	SetStampOpacity(ctx context.Context, sessionID, stampID string, opacity float64) error
	SetStampZIndex(ctx context.Context, sessionID, stampID string, z int) error
	RemoveStamp(ctx context.Context, sessionID, stampID string) error
	StampInfo(ctx context.Context, sessionID, stampID string) (overlay.Info, error)

	ClearPage(ctx context.Context, sessionID string, page int) (int, error)
	ClearAll(ctx context.Context, sessionID string) (int, error)
	Summary(ctx context.Context, sessionID string) (overlay.Summary, error)

	// RenderPreview composites one page with its placements.
	RenderPreview(ctx context.Context, sessionID string, page int, opts preview.Options) (*preview.Result, error)

	// ExportConfig serializes the session's placements as JSON.
	ExportConfig(ctx context.Context, sessionID string) ([]byte, error)

	// ImportConfig replaces the session's placements from an exported
	// snapshot and regenerates each asset from its recorded params.
	ImportConfig(ctx context.Context, sessionID string, data []byte) (*ImportResult, error)

	// Archive uploads the session's exported configuration to object storage
	// and returns a time-limited download URL.
	Archive(ctx context.Context, sessionID string) (string, error)
}

// stamperService is a concrete implementation of StamperService.
type stamperService struct {
	sessions  session.Store
	processor *document.Processor
	stamps    StampService
	renderer  *preview.Renderer
	archive   storage.Storage // nil when archiving is disabled
}

// NewStamperService wires the session store, document processor, stamp
// renderer and preview compositor together. store may be nil.
func NewStamperService(sessions session.Store, processor *document.Processor, stamps StampService, renderer *preview.Renderer, archive storage.Storage) StamperService {
	return &stamperService{
		sessions:  sessions,
		processor: processor,
		stamps:    stamps,
		renderer:  renderer,
		archive:   archive,
	}
}

func (s *stamperService) CreateSession(context.Context) (*session.Session, error) {
	return s.sessions.Create(), nil
}

func (s *stamperService) DeleteSession(_ context.Context, id string) error {
	if err := s.sessions.Delete(id); err != nil {
		return ErrSessionNotFound
	}
	return nil
}

// get resolves and locks a session; the caller must call unlock.
func (s *stamperService) get(id string) (*session.Session, func(), error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, nil, ErrSessionNotFound
	}
	sess.Lock()
	return sess, sess.Unlock, nil
}

func (s *stamperService) LoadDocument(_ context.Context, sessionID string, data []byte, filename string) (*model.DocumentSummary, error) {
	sess, unlock, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc, err := s.processor.Load(data, filename)
	if err != nil {
		return nil, err
	}
	sess.SetDocument(doc)
	summary := doc.Summary()
	return &summary, nil
}

func (s *stamperService) Document(_ context.Context, sessionID string) (*model.DocumentSummary, error) {
	sess, unlock, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc := sess.Document()
	if doc == nil {
		return nil, ErrNoDocument
	}
	summary := doc.Summary()
	return &summary, nil
}

func (s *stamperService) AddStamp(ctx context.Context, sessionID string, page int, gp model.GenerationParams, x, y float64, width, height int) (string, error) {
	sess, unlock, err := s.get(sessionID)
	if err != nil {
		return "", err
	}
	defer unlock()

	doc := sess.Document()
	if doc == nil {
		return "", ErrNoDocument
	}
	if page < 1 || page > doc.PageCount {
		return "", fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, doc.PageCount)
	}

	asset, err := s.stamps.Regenerate(ctx, gp)
	if err != nil {
		return "", err
	}
	return sess.Overlay().Add(page, asset, x, y, width, height), nil
}

// mutate runs one placement operation under the session lock, translating a
// false return into ErrStampNotFound.
func (s *stamperService) mutate(sessionID string, op func(*overlay.Store) bool) error {
	sess, unlock, err := s.get(sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if !op(sess.Overlay()) {
		return ErrStampNotFound
	}
	return nil
}

func (s *stamperService) MoveStamp(_ context.Context, sessionID, stampID string, x, y float64) error {
	return s.mutate(sessionID, func(o *overlay.Store) bool { return o.Move(stampID, x, y) })
}

func (s *stamperService) ResizeStamp(_ context.Context, sessionID, stampID string, width, height int) error {
	return s.mutate(sessionID, func(o *overlay.Store) bool { return o.Resize(stampID, width, height) })
}

func (s *stamperService) RotateStamp(_ context.Context, sessionID, stampID string, degrees float64) error {
	return s.mutate(sessionID, func(o *overlay.Store) bool { return o.Rotate(stampID, degrees) })
}

func (s *stamperService) SetStampOpacity(_ context.Context, sessionID, stampID string, opacity float64) error {
	return s.mutate(sessionID, func(o *overlay.Store) bool { return o.SetOpacity(stampID, opacity) })
}

func (s *stamperService) SetStampZIndex(_ context.Context, sessionID, stampID string, z int) error {
	return s.mutate(sessionID, func(o *overlay.Store) bool { return o.SetZIndex(stampID, z) })
}

func (s *stamperService) RemoveStamp(_ context.Context, sessionID, stampID string) error {
	return s.mutate(sessionID, func(o *overlay.Store) bool { return o.Remove(stampID) })
}

func (s *stamperService) StampInfo(_ context.Context, sessionID, stampID string) (overlay.Info, error) {
	sess, unlock, err := s.get(sessionID)
	if err != nil {
		return overlay.Info{}, err
	}
	defer unlock()

	info, ok := sess.Overlay().Lookup(stampID)
	if !ok {
		return overlay.Info{}, ErrStampNotFound
	}
	return info, nil
}

func (s *stamperService) ClearPage(_ context.Context, sessionID string, page int) (int, error) {
	sess, unlock, err := s.get(sessionID)
	if err != nil {
		return 0, err
	}
	defer unlock()
	return sess.Overlay().ClearPage(page), nil
}

func (s *stamperService) ClearAll(_ context.Context, sessionID string) (int, error) {
	sess, unlock, err := s.get(sessionID)
	if err != nil {
		return 0, err
	}
	defer unlock()
	return sess.Overlay().ClearAll(), nil
}

func (s *stamperService) Summary(_ context.Context, sessionID string) (overlay.Summary, error) {
	sess, unlock, err := s.get(sessionID)
	if err != nil {
		return overlay.Summary{}, err
	}
	defer unlock()
	return sess.Overlay().Summarize(), nil
}

func (s *stamperService) RenderPreview(_ context.Context, sessionID string, page int, opts preview.Options) (*preview.Result, error) {
	sess, unlock, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc := sess.Document()
	if doc == nil {
		return nil, ErrNoDocument
	}
	pg := doc.PageByNumber(page)
	if pg == nil {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, doc.PageCount)
	}

	o := sess.Overlay()
	return s.renderer.Render(pg, o.PageStamps(page), o.Asset, opts)
}

func (s *stamperService) ExportConfig(_ context.Context, sessionID string) ([]byte, error) {
	sess, unlock, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return sess.Overlay().Export()
}

func (s *stamperService) ImportConfig(ctx context.Context, sessionID string, data []byte) (*ImportResult, error) {
	sess, unlock, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	o := sess.Overlay()
	if !o.Import(data) {
		return nil, ErrBadConfig
	}

	// The snapshot carries no rasters; rebuild each asset from its recorded
	// generation params. Placements without params stay raster-less and are
	// skipped at preview time.
	res := &ImportResult{}
	sum := o.Summarize()
	for page := range sum.CountsByPage {
		for _, p := range o.PageStamps(page) {
			res.Stamps++
			gp, ok := o.Params(p.ID)
			if !ok {
				continue
			}
			asset, err := s.stamps.Regenerate(ctx, gp)
			if err != nil {
				continue
			}
			if o.AttachAsset(p.ID, asset) {
				res.Regenerated++
			}
		}
	}
	return res, nil
}

func (s *stamperService) Archive(ctx context.Context, sessionID string) (string, error) {
	if s.archive == nil {
		return "", ErrArchiveDisabled
	}

	data, err := s.ExportConfig(ctx, sessionID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("configs/%s/%s.json", sessionID, uuid.NewString())
	_, err = s.archive.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: "application/json",
		Metadata:    map[string]string{"session-id": sessionID},
	})
	if err != nil {
		return "", fmt.Errorf("archive config: %w", err)
	}
	return s.archive.PresignGet(ctx, key, 24*time.Hour)
}
