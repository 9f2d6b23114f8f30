package repositories

import (
	"context"
	"fmt"
	"strings"

	"bellaBack/internal/models"
)

const defaultProviderPageSize = 20

// GetProviders runs the filtered provider search. Skill filtering happens in
// two stages: a broad LIKE over the JSON column narrows the result server-side,
// then matchesSkillFilter re-checks the decoded set to avoid substring false
// positives ("Coloration" must not match "Décoloration").
func (r *UserRepository) GetProviders(ctx context.Context, filter models.ProviderFilter) ([]models.User, error) {
	var (
		params     []interface{}
		conditions []string
	)

	baseQuery := `SELECT ` + userColumns + ` FROM users`
	conditions = append(conditions, "is_provider = 1")

	if filter.City != "" {
		conditions = append(conditions, "city = ?")
		params = append(params, filter.City)
	}
	if filter.ActivityZone != "" {
		conditions = append(conditions, "LOWER(activity_zone) LIKE ?")
		params = append(params, "%"+strings.ToLower(filter.ActivityZone)+"%")
	}
	if len(filter.MainSkills) > 0 {
		var skillConds []string
		for _, skill := range filter.MainSkills {
			skillConds = append(skillConds, "LOWER(skills) LIKE ?")
			params = append(params, "%"+strings.ToLower(strings.TrimSpace(skill))+"%")
		}
		conditions = append(conditions, fmt.Sprintf("(%s)", strings.Join(skillConds, " OR ")))
	}
	if filter.IsPremium != nil {
		conditions = append(conditions, "is_premium = ?")
		params = append(params, *filter.IsPremium)
	}
	if filter.AcceptsEmergency != nil {
		conditions = append(conditions, "accepts_emergency = ?")
		params = append(params, *filter.AcceptsEmergency)
	}

	baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	baseQuery += " ORDER BY id"

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultProviderPageSize
	}
	baseQuery += " LIMIT ? OFFSET ?"
	params = append(params, limit, filter.Offset)

	rows, err := r.DB.QueryContext(ctx, baseQuery, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		if !matchesSkillFilter(filter.MainSkills, user.Skills) {
			continue
		}
		user.Password = ""
		providers = append(providers, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return providers, nil
}
