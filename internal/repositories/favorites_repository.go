package repositories

import (
	"context"
	"database/sql"

	"bellaBack/internal/models"
)

type FavoriteRepository struct {
	DB *sql.DB
}

// AddToFavorites inserts the association. The favorites table carries a unique
// (user_id, provider_id) key, so a concurrent duplicate insert collapses into
// the existing row instead of erroring.
func (r *FavoriteRepository) AddToFavorites(ctx context.Context, fav models.Favorite) error {
	query := `INSERT IGNORE INTO favorites (user_id, provider_id, category) VALUES (?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, query, fav.UserID, fav.ProviderID, fav.Category)
	return err
}

// RemoveFromFavorites deletes the association and reports whether a row was
// actually removed, which Toggle uses to decide between delete and insert.
func (r *FavoriteRepository) RemoveFromFavorites(ctx context.Context, userID, providerID int) (bool, error) {
	query := `DELETE FROM favorites WHERE user_id = ? AND provider_id = ?`
	result, err := r.DB.ExecContext(ctx, query, userID, providerID)
	if err != nil {
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func (r *FavoriteRepository) IsFavorite(ctx context.Context, userID, providerID int) (bool, error) {
	query := `SELECT COUNT(*) FROM favorites WHERE user_id = ? AND provider_id = ?`
	var count int
	err := r.DB.QueryRowContext(ctx, query, userID, providerID).Scan(&count)
	return count > 0, err
}

func (r *FavoriteRepository) CountForProvider(ctx context.Context, providerID int) (int, error) {
	query := `SELECT COUNT(*) FROM favorites WHERE provider_id = ?`
	var count int
	err := r.DB.QueryRowContext(ctx, query, providerID).Scan(&count)
	return count, err
}

func (r *FavoriteRepository) GetFavoritesByUser(ctx context.Context, userID int) ([]models.Favorite, error) {
	query := `SELECT f.id, f.user_id, f.provider_id, f.category,
                     u.id, u.first_name, u.last_name, u.avatar_url, u.city, u.is_premium,
                     f.created_at
              FROM favorites f
              JOIN users u ON f.provider_id = u.id
              WHERE f.user_id = ?
              ORDER BY f.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favs []models.Favorite
	for rows.Next() {
		var fav models.Favorite
		var category sql.NullString
		err := rows.Scan(&fav.ID, &fav.UserID, &fav.ProviderID, &category,
			&fav.Provider.ID, &fav.Provider.FirstName, &fav.Provider.LastName,
			&fav.Provider.AvatarURL, &fav.City, &fav.IsPremium,
			&fav.CreatedAt)
		if err != nil {
			return nil, err
		}
		fav.Category = category.String
		favs = append(favs, fav)
	}
	return favs, rows.Err()
}
