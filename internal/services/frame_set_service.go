package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/frame-player/internal/loader"
	"github.com/SAP-F-2025/frame-player/internal/models"
	"github.com/SAP-F-2025/frame-player/internal/repositories"
	"github.com/SAP-F-2025/frame-player/internal/validator"
	"gorm.io/datatypes"
)

// FrameSetService manages frame definition lists stored in the database
type FrameSetService interface {
	Create(ctx context.Context, req *CreateFrameSetRequest) (*models.FrameSet, error)
	Get(ctx context.Context, id uint) (*models.FrameSet, error)
	List(ctx context.Context, filters repositories.FrameSetFilters) (*FrameSetListResponse, error)
	Delete(ctx context.Context, id uint) error
}

type CreateFrameSetRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description *string         `json:"description" validate:"omitempty,max=2000"`
	Definition  json.RawMessage `json:"definition" validate:"required"`
}

type FrameSetListResponse struct {
	FrameSets []*models.FrameSet `json:"frame_sets"`
	Total     int64              `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

type frameSetService struct {
	repo       repositories.FrameSetRepository
	normalizer *loader.Normalizer
	validator  *validator.Validator
	logger     *slog.Logger
	opLogger   *ServiceLogger
}

func NewFrameSetService(repo repositories.FrameSetRepository, normalizer *loader.Normalizer, v *validator.Validator, logger *slog.Logger) FrameSetService {
	return &frameSetService{
		repo:       repo,
		normalizer: normalizer,
		validator:  v,
		logger:     logger,
		opLogger:   NewServiceLogger(logger, LogConfig{Service: "frame-player", Component: "frame_sets"}),
	}
}

func (s *frameSetService) Create(ctx context.Context, req *CreateFrameSetRequest) (set *models.FrameSet, err error) {
	op := s.opLogger.WithOperation(ctx, "create_frame_set")
	defer func() {
		id := ""
		if set != nil {
			id = fmt.Sprint(set.ID)
		}
		op.LogResult(id, "frame_set", err)
	}()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, validator.ToValidationErrors(err))
	}

	// Images are resolved when a session starts; here only the shape is checked
	if _, err := s.normalizer.ParseFrames(req.Definition); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(ctx, nil, req.Name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check frame set name: %w", err)
	}
	if exists {
		return nil, ErrFrameSetDuplicateName
	}

	set = &models.FrameSet{
		Name:        req.Name,
		Description: req.Description,
		Definition:  datatypes.JSON(req.Definition),
	}
	if err := s.repo.Create(ctx, nil, set); err != nil {
		return nil, fmt.Errorf("failed to create frame set: %w", err)
	}
	return set, nil
}

func (s *frameSetService) Get(ctx context.Context, id uint) (*models.FrameSet, error) {
	set, err := s.repo.GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFrameSetNotFound
		}
		return nil, fmt.Errorf("failed to get frame set: %w", err)
	}
	return set, nil
}

func (s *frameSetService) List(ctx context.Context, filters repositories.FrameSetFilters) (*FrameSetListResponse, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	sets, total, err := s.repo.List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list frame sets: %w", err)
	}
	return &FrameSetListResponse{
		FrameSets: sets,
		Total:     total,
		Limit:     filters.Limit,
		Offset:    filters.Offset,
	}, nil
}

func (s *frameSetService) Delete(ctx context.Context, id uint) (err error) {
	op := s.opLogger.WithOperation(ctx, "delete_frame_set")
	defer func() { op.LogResult(fmt.Sprint(id), "frame_set", err) }()

	if err := s.repo.Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrFrameSetNotFound
		}
		return fmt.Errorf("failed to delete frame set: %w", err)
	}
	return nil
}
