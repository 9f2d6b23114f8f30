package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"bellaBack/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

const userColumns = `id, email, password, first_name, last_name, phone, city, neighborhood, activity_zone,
	latitude, longitude, avatar_url, is_provider, is_verified, is_premium, subscription_tier,
	accepts_emergency, bio, skills, instagram, tiktok, years_of_exp, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (models.User, error) {
	var user models.User
	var skillsJSON sql.NullString
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName, &user.Phone,
		&user.City, &user.Neighborhood, &user.ActivityZone, &user.Latitude, &user.Longitude,
		&user.AvatarURL, &user.IsProvider, &user.IsVerified, &user.IsPremium, &user.SubscriptionTier,
		&user.AcceptsEmergency, &user.Bio, &skillsJSON, &user.Instagram, &user.TikTok,
		&user.YearsOfExp, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	if skillsJSON.Valid && skillsJSON.String != "" {
		if err := json.Unmarshal([]byte(skillsJSON.String), &user.Skills); err != nil {
			return models.User{}, err
		}
	}
	return user, nil
}

func marshalSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	skills, err := marshalSkills(user.Skills)
	if err != nil {
		return models.User{}, err
	}

	user.CreatedAt = time.Now()
	user.UpdatedAt = &user.CreatedAt

	query := `
        INSERT INTO users (email, password, first_name, last_name, phone, city, neighborhood, activity_zone,
            latitude, longitude, avatar_url, is_provider, is_verified, is_premium, subscription_tier,
            accepts_emergency, bio, skills, instagram, tiktok, years_of_exp, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	result, err := r.DB.ExecContext(ctx, query,
		user.Email, user.Password, user.FirstName, user.LastName, user.Phone, user.City,
		user.Neighborhood, user.ActivityZone, user.Latitude, user.Longitude, user.AvatarURL,
		user.IsProvider, user.IsVerified, user.IsPremium, user.SubscriptionTier,
		user.AcceptsEmergency, user.Bio, skills, user.Instagram, user.TikTok, user.YearsOfExp,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return models.User{}, models.ErrDuplicateEmail
		}
		return models.User{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(id)
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&count)
	return count > 0, err
}

// UpdateProfile writes only the fields set on the update request, so untouched
// columns keep their values.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int, update models.ProfileUpdate) (models.User, error) {
	var (
		assignments []string
		params      []interface{}
	)

	appendField := func(column string, value interface{}) {
		assignments = append(assignments, column+" = ?")
		params = append(params, value)
	}

	if update.FirstName != nil {
		appendField("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		appendField("last_name", *update.LastName)
	}
	if update.Phone != nil {
		appendField("phone", *update.Phone)
	}
	if update.City != nil {
		appendField("city", *update.City)
	}
	if update.Neighborhood != nil {
		appendField("neighborhood", *update.Neighborhood)
	}
	if update.ActivityZone != nil {
		appendField("activity_zone", *update.ActivityZone)
	}
	if update.Latitude != nil {
		appendField("latitude", *update.Latitude)
	}
	if update.Longitude != nil {
		appendField("longitude", *update.Longitude)
	}
	if update.Bio != nil {
		appendField("bio", *update.Bio)
	}
	if update.Skills != nil {
		skills, err := marshalSkills(*update.Skills)
		if err != nil {
			return models.User{}, err
		}
		appendField("skills", skills)
	}
	if update.Instagram != nil {
		appendField("instagram", *update.Instagram)
	}
	if update.TikTok != nil {
		appendField("tiktok", *update.TikTok)
	}
	if update.YearsOfExp != nil {
		appendField("years_of_exp", *update.YearsOfExp)
	}
	if update.AcceptsEmergency != nil {
		appendField("accepts_emergency", *update.AcceptsEmergency)
	}

	if len(assignments) == 0 {
		return r.GetUserByID(ctx, id)
	}

	appendField("updated_at", time.Now())
	params = append(params, id)

	query := "UPDATE users SET " + joinAssignments(assignments) + " WHERE id = ?"
	result, err := r.DB.ExecContext(ctx, query, params...)
	if err != nil {
		return models.User{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return models.User{}, err
	}
	if rowsAffected == 0 {
		// MySQL reports 0 affected rows for identical values too, so
		// distinguish a missing row from a no-op write.
		exists := 0
		if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, id).Scan(&exists); err != nil {
			return models.User{}, err
		}
		if exists == 0 {
			return models.User{}, models.ErrUserNotFound
		}
	}

	return r.GetUserByID(ctx, id)
}

func (r *UserRepository) UpdateAvatarURL(ctx context.Context, id int, avatarURL string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE users SET avatar_url = ?, updated_at = ? WHERE id = ?`, avatarURL, time.Now(), id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, hashedPassword string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET password = ?, updated_at = ? WHERE id = ?`, hashedPassword, time.Now(), id)
	return err
}

func (r *UserRepository) SetSession(ctx context.Context, userID int, session models.Session) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE users SET refresh_token = ?, expires_at = ? WHERE id = ?`,
		session.RefreshToken, session.ExpiresAt, userID,
	)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error) {
	var session models.Session
	var isProvider bool
	query := `SELECT id, is_provider, refresh_token, expires_at FROM users WHERE refresh_token = ?`
	err := r.DB.QueryRowContext(ctx, query, refreshToken).Scan(
		&session.UserID, &isProvider, &session.RefreshToken, &session.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, models.ErrNoRecord
	}
	if err != nil {
		return models.Session{}, err
	}
	session.Role = roleForProvider(isProvider)
	return session, nil
}

// ClearSession drops the refresh token. Clearing an already-cleared session is
// not an error, which keeps sign-out idempotent.
func (r *UserRepository) ClearSession(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET refresh_token = '' WHERE id = ?`, userID)
	return err
}

func (r *UserRepository) SaveDeviceToken(ctx context.Context, userID int, token string) error {
	query := `INSERT INTO device_tokens (user_id, token) VALUES (?, ?) ON DUPLICATE KEY UPDATE user_id = VALUES(user_id)`
	_, err := r.DB.ExecContext(ctx, query, userID, token)
	return err
}

func (r *UserRepository) GetDeviceTokens(ctx context.Context, userID int) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT token FROM device_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

func roleForProvider(isProvider bool) string {
	if isProvider {
		return "provider"
	}
	return "client"
}
