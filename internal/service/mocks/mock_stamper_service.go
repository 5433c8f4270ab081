package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stampapi/internal/model"
	"stampapi/internal/overlay"
	"stampapi/internal/preview"
	"stampapi/internal/service"
	"stampapi/internal/session"
)

type MockStamperService struct {
	mock.Mock
}

func (m *MockStamperService) CreateSession(ctx context.Context) (*session.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockStamperService) DeleteSession(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStamperService) LoadDocument(ctx context.Context, sessionID string, data []byte, filename string) (*model.DocumentSummary, error) {
	args := m.Called(ctx, sessionID, data, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentSummary), args.Error(1)
}

func (m *MockStamperService) Document(ctx context.Context, sessionID string) (*model.DocumentSummary, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentSummary), args.Error(1)
}

func (m *MockStamperService) AddStamp(ctx context.Context, sessionID string, page int, gp model.GenerationParams, x, y float64, width, height int) (string, error) {
	args := m.Called(ctx, sessionID, page, gp, x, y, width, height)
	return args.String(0), args.Error(1)
}

func (m *MockStamperService) MoveStamp(ctx context.Context, sessionID, stampID string, x, y float64) error {
	args := m.Called(ctx, sessionID, stampID, x, y)
	return args.Error(0)
}

func (m *MockStamperService) ResizeStamp(ctx context.Context, sessionID, stampID string, width, height int) error {
	args := m.Called(ctx, sessionID, stampID, width, height)
	return args.Error(0)
}

func (m *MockStamperService) RotateStamp(ctx context.Context, sessionID, stampID string, degrees float64) error {
	args := m.Called(ctx, sessionID, stampID, degrees)
	return args.Error(0)
}

func (m *MockStamperService) SetStampOpacity(ctx context.Context, sessionID, stampID string, opacity float64) error {
	args := m.Called(ctx, sessionID, stampID, opacity)
	return args.Error(0)
}

func (m *MockStamperService) SetStampZIndex(ctx context.Context, sessionID, stampID string, z int) error {
	args := m.Called(ctx, sessionID, stampID, z)
	return args.Error(0)
}

func (m *MockStamperService) RemoveStamp(ctx context.Context, sessionID, stampID string) error {
	args := m.Called(ctx, sessionID, stampID)
	return args.Error(0)
}

func (m *MockStamperService) StampInfo(ctx context.Context, sessionID, stampID string) (overlay.Info, error) {
	args := m.Called(ctx, sessionID, stampID)
	return args.Get(0).(overlay.Info), args.Error(1)
}

func (m *MockStamperService) ClearPage(ctx context.Context, sessionID string, page int) (int, error) {
	args := m.Called(ctx, sessionID, page)
	return args.Int(0), args.Error(1)
}

func (m *MockStamperService) ClearAll(ctx context.Context, sessionID string) (int, error) {
	args := m.Called(ctx, sessionID)
	return args.Int(0), args.Error(1)
}

func (m *MockStamperService) Summary(ctx context.Context, sessionID string) (overlay.Summary, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(overlay.Summary), args.Error(1)
}

func (m *MockStamperService) RenderPreview(ctx context.Context, sessionID string, page int, opts preview.Options) (*preview.Result, error) {
	args := m.Called(ctx, sessionID, page, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*preview.Result), args.Error(1)
}

func (m *MockStamperService) ExportConfig(ctx context.Context, sessionID string) ([]byte, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStamperService) ImportConfig(ctx context.Context, sessionID string, data []byte) (*service.ImportResult, error) {
	args := m.Called(ctx, sessionID, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}

func (m *MockStamperService) Archive(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}
