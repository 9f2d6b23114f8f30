package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"bellaBack/internal/models"
)

var userTestColumns = []string{
	"id", "email", "password", "first_name", "last_name", "phone", "city", "neighborhood",
	"activity_zone", "latitude", "longitude", "avatar_url", "is_provider", "is_verified",
	"is_premium", "subscription_tier", "accepts_emergency", "bio", "skills", "instagram",
	"tiktok", "years_of_exp", "created_at", "updated_at",
}

func providerRow(id int, firstName, city, skillsJSON string, isPremium bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userTestColumns).AddRow(
		id, "p@example.com", "hash", firstName, "Martin", "0600000000", city, "Montmartre",
		"18e arrondissement", "48.88", "2.34", "", true, true,
		isPremium, "", true, "", skillsJSON, "@"+firstName,
		"", 5, now, now,
	)
}

func newUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &UserRepository{DB: db}, mock
}

func strPtr(s string) *string { return &s }

func TestUpdateProfileWritesOnlySetFields(t *testing.T) {
	repo, mock := newUserRepo(t)

	// Only city and bio are set, so only those columns (plus updated_at) may
	// appear in the statement.
	mock.ExpectExec(`UPDATE users SET city = \?, bio = \?, updated_at = \? WHERE id = \?`).
		WithArgs("Lyon", "Coloriste", sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(7).
		WillReturnRows(providerRow(7, "Léa", "Lyon", `["coloration"]`, false))

	user, err := repo.UpdateProfile(context.Background(), 7, models.ProfileUpdate{
		City: strPtr("Lyon"),
		Bio:  strPtr("Coloriste"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if user.City != "Lyon" {
		t.Errorf("City = %q, want Lyon", user.City)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateProfileEmptyUpdateIsRead(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(7).
		WillReturnRows(providerRow(7, "Léa", "Paris", `[]`, false))

	if _, err := repo.UpdateProfile(context.Background(), 7, models.ProfileUpdate{}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateProfileMissingUser(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE id`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := repo.UpdateProfile(context.Background(), 99, models.ProfileUpdate{City: strPtr("Lyon")})
	if !errors.Is(err, models.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestGetSessionByTokenMapsRole(t *testing.T) {
	repo, mock := newUserRepo(t)

	expires := time.Now().Add(time.Hour)
	mock.ExpectQuery("SELECT id, is_provider, refresh_token, expires_at FROM users").
		WithArgs("tok-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_provider", "refresh_token", "expires_at"}).
			AddRow(7, true, "tok-1", expires))

	session, err := repo.GetSessionByToken(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("GetSessionByToken: %v", err)
	}
	if session.Role != "provider" {
		t.Errorf("Role = %q, want provider", session.Role)
	}
	if session.UserID != 7 {
		t.Errorf("UserID = %d, want 7", session.UserID)
	}
}

func TestGetProvidersBuildsFilterConditions(t *testing.T) {
	repo, mock := newUserRepo(t)

	premium := true
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE is_provider = 1 AND city = \? AND \(LOWER\(skills\) LIKE \?\) AND is_premium = \? ORDER BY id LIMIT \? OFFSET \?`).
		WithArgs("Paris", "%coloration%", true, 20, 0).
		WillReturnRows(providerRow(7, "Léa", "Paris", `["Coloration"]`, true))

	providers, err := repo.GetProviders(context.Background(), models.ProviderFilter{
		City:       "Paris",
		MainSkills: []string{"Coloration"},
		IsPremium:  &premium,
	})
	if err != nil {
		t.Fatalf("GetProviders: %v", err)
	}
	if len(providers) != 1 {
		t.Fatalf("got %d providers, want 1", len(providers))
	}
	if providers[0].Password != "" {
		t.Error("GetProviders leaked the password hash")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetProvidersSkillReCheckDropsSubstringMatches(t *testing.T) {
	repo, mock := newUserRepo(t)

	// The LIKE over the JSON column matches "Décoloration" when searching
	// "coloration"; the decoded re-check must drop that row.
	rows := providerRow(7, "Léa", "Paris", `["Coloration"]`, false)
	rows.AddRow(
		8, "d@example.com", "hash", "Dina", "Martin", "0600000001", "Paris", "",
		"", "", "", "", true, true,
		false, "", false, "", `["Décoloration"]`, "",
		"", 3, time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE is_provider = 1").
		WillReturnRows(rows)

	providers, err := repo.GetProviders(context.Background(), models.ProviderFilter{
		MainSkills: []string{"Coloration"},
	})
	if err != nil {
		t.Fatalf("GetProviders: %v", err)
	}
	if len(providers) != 1 || providers[0].ID != 7 {
		t.Fatalf("providers = %+v, want only id 7", providers)
	}
}
