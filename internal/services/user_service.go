package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"bellaBack/internal/cache"
	"bellaBack/internal/models"
	"bellaBack/internal/repositories"
	"bellaBack/utils"
)

const avatarFolder = "avatars"

type UserService struct {
	UserRepo   *repositories.UserRepository
	Storage    *utils.Storage
	ImageCache *cache.ImageCache
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (models.User, error) {
	user, err := s.UserRepo.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id int, update models.ProfileUpdate) (models.User, error) {
	user, err := s.UserRepo.UpdateProfile(ctx, id, update)
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) GetProviders(ctx context.Context, filter models.ProviderFilter) ([]models.User, error) {
	return s.UserRepo.GetProviders(ctx, filter)
}

// UploadAvatar stores the image in the avatars bucket and only then persists
// the public URL on the user row. When the row update fails the uploaded
// object is left orphaned; the store is non-transactional and orphans are
// harmless.
func (s *UserService) UploadAvatar(ctx context.Context, id int, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", models.NewValidationError("avatar", "empty file")
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	objectName := fmt.Sprintf("%d_%d%s", id, time.Now().Unix(), ext)

	avatarURL, err := s.Storage.UploadFile(data, objectName, avatarFolder)
	if err != nil {
		return "", err
	}

	if err := s.UserRepo.UpdateAvatarURL(ctx, id, avatarURL); err != nil {
		return "", err
	}

	if s.ImageCache != nil {
		// Warm the cache so the first render after upload is a hit. Failure
		// here is not an upload failure.
		_ = s.ImageCache.Preload(ctx, avatarURL)
	}
	return avatarURL, nil
}

// UploadAvatarFromURI fetches a remote image (e.g. a picker-produced URI) and
// runs the regular upload path.
func (s *UserService) UploadAvatarFromURI(ctx context.Context, id int, uri string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching avatar uri: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return s.UploadAvatar(ctx, id, data, path.Base(uri))
}
