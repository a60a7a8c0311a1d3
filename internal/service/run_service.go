package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Mouly-K/ffe/internal/dto"
	"github.com/Mouly-K/ffe/internal/model"
	"github.com/Mouly-K/ffe/internal/repository"
)

type RunService struct {
	repo *repository.RunRepository
}

func NewRunService(repo *repository.RunRepository) *RunService {
	return &RunService{repo: repo}
}

func (s *RunService) Create(ctx context.Context, req *dto.CreateRunRequest) (*model.Run, error) {
	run := &model.Run{
		ID:                uuid.NewString(),
		Name:              req.Name,
		Timestamp:         time.Now(),
		Status:            model.RunPending,
		ConvertedCurrency: req.ConvertedCurrency,
	}
	if err := s.repo.Insert(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *RunService) Get(ctx context.Context, id string) (*model.Run, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RunService) List(ctx context.Context) ([]model.Run, error) {
	return s.repo.List(ctx)
}

func (s *RunService) UpdateStatus(ctx context.Context, id string, status model.RunStatus) (*model.Run, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
