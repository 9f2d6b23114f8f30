package services

import (
	"context"
	"strings"

	"bellaBack/internal/models"
	"bellaBack/internal/repositories"
)

type ServiceService struct {
	ServiceRepo *repositories.ServiceRepository
}

func (s *ServiceService) CreateService(ctx context.Context, service models.Service) (models.Service, error) {
	if strings.TrimSpace(service.Name) == "" {
		return models.Service{}, models.NewValidationError("name", "service name is required")
	}
	if service.Price < 0 {
		return models.Service{}, models.NewValidationError("price", "price cannot be negative")
	}
	if service.Duration <= 0 {
		return models.Service{}, models.NewValidationError("duration", "duration must be positive")
	}
	service.IsActive = true
	return s.ServiceRepo.CreateService(ctx, service)
}

func (s *ServiceService) GetServiceByID(ctx context.Context, id int) (models.Service, error) {
	return s.ServiceRepo.GetServiceByID(ctx, id)
}

func (s *ServiceService) GetServicesByProviderID(ctx context.Context, providerID int) ([]models.Service, error) {
	return s.ServiceRepo.GetServicesByProviderID(ctx, providerID)
}

func (s *ServiceService) UpdateService(ctx context.Context, service models.Service) (models.Service, error) {
	return s.ServiceRepo.UpdateService(ctx, service)
}

func (s *ServiceService) DeleteService(ctx context.Context, id int) error {
	return s.ServiceRepo.DeleteService(ctx, id)
}

type CategoryService struct {
	CategoryRepo *repositories.CategoryRepository
}

func (s *CategoryService) GetAllCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	return s.CategoryRepo.GetAllCategories(ctx)
}

func (s *CategoryService) GetCategoryByID(ctx context.Context, id int) (models.ServiceCategory, error) {
	return s.CategoryRepo.GetCategoryByID(ctx, id)
}
