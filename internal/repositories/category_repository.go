package repositories

import (
	"context"
	"database/sql"
	"errors"

	"bellaBack/internal/models"
)

type CategoryRepository struct {
	DB *sql.DB
}

func (r *CategoryRepository) GetAllCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, image_url FROM service_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.ServiceCategory
	for rows.Next() {
		var c models.ServiceCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) GetCategoryByID(ctx context.Context, id int) (models.ServiceCategory, error) {
	var c models.ServiceCategory
	err := r.DB.QueryRowContext(ctx, `SELECT id, name, image_url FROM service_categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ServiceCategory{}, models.ErrCategoryNotFound
	}
	if err != nil {
		return models.ServiceCategory{}, err
	}
	return c, nil
}
