package service

import (
	"context"
	"errors"
	"fmt"

	"stampapi/internal/model"
	"stampapi/internal/stamp"
)

var (
	ErrInvalidParams = errors.New("invalid stamp parameters")
	ErrUnknownType   = errors.New("unknown stamp type")
)

// StampService renders stamp assets from validated parameters.
type StampService interface {
	// GenerateHospital renders a circular hospital stamp.
	GenerateHospital(ctx context.Context, p stamp.HospitalParams) (*model.StampAsset, error)

	// GenerateDoctor renders a rectangular doctor stamp.
	GenerateDoctor(ctx context.Context, p stamp.DoctorParams) (*model.StampAsset, error)

	// Regenerate re-renders an asset from recorded generation params, as used
	// when importing a stamp configuration that carries no rasters.
	Regenerate(ctx context.Context, gp model.GenerationParams) (*model.StampAsset, error)
}

// stampService is a concrete implementation of StampService.
type stampService struct {
	gen *stamp.Generator
}

// NewStampService constructs a StampService around a generator.
func NewStampService(gen *stamp.Generator) StampService {
	return &stampService{gen: gen}
}

func (s *stampService) GenerateHospital(_ context.Context, p stamp.HospitalParams) (*model.StampAsset, error) {
	asset, err := s.gen.Hospital(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return asset, nil
}

func (s *stampService) GenerateDoctor(_ context.Context, p stamp.DoctorParams) (*model.StampAsset, error) {
	asset, err := s.gen.Doctor(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return asset, nil
}

// Regenerate dispatches on the recorded type and rebuilds the asset.
func (s *stampService) Regenerate(ctx context.Context, gp model.GenerationParams) (*model.StampAsset, error) {
	switch gp.Type {
	case model.StampTypeHospital:
		return s.GenerateHospital(ctx, stamp.HospitalParams{
			Name:        gp.HospitalName,
			Size:        gp.Size,
			FontSize:    gp.FontSize,
			Color:       gp.Color,
			Style:       gp.Style,
			Border:      gp.BorderStyle,
			IncludeDate: gp.IncludeDate,
			IncludeLogo: gp.IncludeLogo,
		})
	case model.StampTypeDoctor:
		return s.GenerateDoctor(ctx, stamp.DoctorParams{
			Name:         gp.DoctorName,
			Degree:       gp.Degree,
			Registration: gp.Registration,
			Width:        gp.Width,
			Height:       gp.Height,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, gp.Type)
	}
}
