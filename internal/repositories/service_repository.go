package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bellaBack/internal/models"
)

type ServiceRepository struct {
	DB *sql.DB
}

func (r *ServiceRepository) CreateService(ctx context.Context, s models.Service) (models.Service, error) {
	s.CreatedAt = time.Now()
	s.UpdatedAt = &s.CreatedAt

	query := `
        INSERT INTO services (provider_id, name, description, price, duration, category_id, image_url, is_active, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	result, err := r.DB.ExecContext(ctx, query,
		s.ProviderID, s.Name, s.Description, s.Price, s.Duration, s.CategoryID,
		s.ImageURL, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return models.Service{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Service{}, err
	}
	s.ID = int(id)
	return s, nil
}

func (r *ServiceRepository) GetServiceByID(ctx context.Context, id int) (models.Service, error) {
	var s models.Service
	var categoryName sql.NullString
	query := `
        SELECT s.id, s.provider_id, s.name, s.description, s.price, s.duration, s.category_id, c.name,
               s.image_url, s.is_active, s.created_at, s.updated_at
        FROM services s
        LEFT JOIN service_categories c ON s.category_id = c.id
        WHERE s.id = ?
    `
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.ProviderID, &s.Name, &s.Description, &s.Price, &s.Duration,
		&s.CategoryID, &categoryName, &s.ImageURL, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Service{}, models.ErrServiceNotFound
	}
	if err != nil {
		return models.Service{}, err
	}
	s.CategoryName = categoryName.String
	return s, nil
}

func (r *ServiceRepository) GetServicesByProviderID(ctx context.Context, providerID int) ([]models.Service, error) {
	query := `
        SELECT s.id, s.provider_id, s.name, s.description, s.price, s.duration, s.category_id, c.name,
               s.image_url, s.is_active, s.created_at, s.updated_at
        FROM services s
        LEFT JOIN service_categories c ON s.category_id = c.id
        WHERE s.provider_id = ?
        ORDER BY s.id
    `
	rows, err := r.DB.QueryContext(ctx, query, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var s models.Service
		var categoryName sql.NullString
		err := rows.Scan(
			&s.ID, &s.ProviderID, &s.Name, &s.Description, &s.Price, &s.Duration,
			&s.CategoryID, &categoryName, &s.ImageURL, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		s.CategoryName = categoryName.String
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *ServiceRepository) UpdateService(ctx context.Context, s models.Service) (models.Service, error) {
	query := `
        UPDATE services
        SET name = ?, description = ?, price = ?, duration = ?, category_id = ?, image_url = ?, is_active = ?, updated_at = ?
        WHERE id = ?
    `
	updatedAt := time.Now()
	s.UpdatedAt = &updatedAt
	result, err := r.DB.ExecContext(ctx, query,
		s.Name, s.Description, s.Price, s.Duration, s.CategoryID, s.ImageURL, s.IsActive,
		s.UpdatedAt, s.ID,
	)
	if err != nil {
		return models.Service{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return models.Service{}, err
	}
	if rowsAffected == 0 {
		return models.Service{}, models.ErrServiceNotFound
	}
	return r.GetServiceByID(ctx, s.ID)
}

func (r *ServiceRepository) DeleteService(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrServiceNotFound
	}
	return nil
}
