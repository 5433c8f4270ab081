package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stampapi/internal/model"
	"stampapi/internal/stamp"
)

type MockStampService struct {
	mock.Mock
}

func (m *MockStampService) GenerateHospital(ctx context.Context, p stamp.HospitalParams) (*model.StampAsset, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StampAsset), args.Error(1)
}

func (m *MockStampService) GenerateDoctor(ctx context.Context, p stamp.DoctorParams) (*model.StampAsset, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StampAsset), args.Error(1)
}

func (m *MockStampService) Regenerate(ctx context.Context, gp model.GenerationParams) (*model.StampAsset, error) {
	args := m.Called(ctx, gp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StampAsset), args.Error(1)
}
