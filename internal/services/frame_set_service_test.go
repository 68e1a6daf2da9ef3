package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/SAP-F-2025/frame-player/internal/loader"
	"github.com/SAP-F-2025/frame-player/internal/models"
	"github.com/SAP-F-2025/frame-player/internal/repositories"
	"github.com/SAP-F-2025/frame-player/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newFrameSetService(repo *MockFrameSetRepository) FrameSetService {
	v := validator.New()
	return NewFrameSetService(repo, loader.NewNormalizer(v, testLogger()), v, testLogger())
}

func TestFrameSetService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := &MockFrameSetRepository{}
		repo.On("ExistsByName", ctx, mock.Anything, "intro", (*uint)(nil)).Return(false, nil)
		repo.On("Create", ctx, mock.Anything, mock.AnythingOfType("*models.FrameSet")).
			Run(func(args mock.Arguments) { args.Get(2).(*models.FrameSet).ID = 7 }).
			Return(nil)

		set, err := newFrameSetService(repo).Create(ctx, &CreateFrameSetRequest{
			Name:       "intro",
			Definition: json.RawMessage(testFramesJSON),
		})
		require.NoError(t, err)
		assert.Equal(t, uint(7), set.ID)
		assert.JSONEq(t, testFramesJSON, string(set.Definition))
		repo.AssertExpectations(t)
	})

	t.Run("invalid definition never reaches the repository", func(t *testing.T) {
		repo := &MockFrameSetRepository{}

		_, err := newFrameSetService(repo).Create(ctx, &CreateFrameSetRequest{
			Name:       "broken",
			Definition: json.RawMessage(`[]`),
		})
		assert.True(t, IsDataFormat(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing name", func(t *testing.T) {
		repo := &MockFrameSetRepository{}
		_, err := newFrameSetService(repo).Create(ctx, &CreateFrameSetRequest{Definition: json.RawMessage(testFramesJSON)})
		assert.True(t, IsValidation(err))
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo := &MockFrameSetRepository{}
		repo.On("ExistsByName", ctx, mock.Anything, "intro", (*uint)(nil)).Return(true, nil)

		_, err := newFrameSetService(repo).Create(ctx, &CreateFrameSetRequest{
			Name:       "intro",
			Definition: json.RawMessage(testFramesJSON),
		})
		assert.ErrorIs(t, err, ErrFrameSetDuplicateName)
		assert.True(t, IsConflict(err))
	})
}

func TestFrameSetService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := &MockFrameSetRepository{}
	repo.On("GetByID", ctx, mock.Anything, uint(1)).Return(&models.FrameSet{ID: 1, Name: "intro"}, nil)
	repo.On("GetByID", ctx, mock.Anything, uint(2)).Return(nil, repositories.ErrNotFound)
	repo.On("Delete", ctx, mock.Anything, uint(2)).Return(repositories.ErrNotFound)
	repo.On("Delete", ctx, mock.Anything, uint(3)).Return(errors.New("connection reset"))

	svc := newFrameSetService(repo)

	set, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "intro", set.Name)

	_, err = svc.Get(ctx, 2)
	assert.ErrorIs(t, err, ErrFrameSetNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 2), ErrFrameSetNotFound)

	err = svc.Delete(ctx, 3)
	assert.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestFrameSetService_ListClampsPaging(t *testing.T) {
	ctx := context.Background()
	repo := &MockFrameSetRepository{}
	repo.On("List", ctx, mock.Anything, repositories.FrameSetFilters{Search: "in", Limit: 20}).
		Return([]*models.FrameSet{{ID: 1, Name: "intro"}}, int64(1), nil)

	out, err := newFrameSetService(repo).List(ctx, repositories.FrameSetFilters{Search: "in", Limit: 1000, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Equal(t, 20, out.Limit)
	assert.Len(t, out.FrameSets, 1)
}
