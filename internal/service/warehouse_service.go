package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Mouly-K/ffe/internal/model"
	"github.com/Mouly-K/ffe/internal/repository"
)

type WarehouseService struct {
	repo *repository.WarehouseRepository
}

func NewWarehouseService(repo *repository.WarehouseRepository) *WarehouseService {
	return &WarehouseService{repo: repo}
}

func (s *WarehouseService) Create(ctx context.Context, name, countryName string) (*model.Warehouse, error) {
	if name == "" || countryName == "" {
		return nil, fmt.Errorf("warehouse name and country are required")
	}
	w := &model.Warehouse{
		ID:          uuid.NewString(),
		Name:        name,
		CountryName: countryName,
	}
	if err := s.repo.Insert(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WarehouseService) Get(ctx context.Context, id string) (*model.Warehouse, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *WarehouseService) List(ctx context.Context) ([]model.Warehouse, error) {
	return s.repo.List(ctx)
}

func (s *WarehouseService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
