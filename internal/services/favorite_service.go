package services

import (
	"context"
	"sync"

	"bellaBack/internal/models"
	"bellaBack/internal/repositories"
)

type FavoriteService struct {
	FavoriteRepo *repositories.FavoriteRepository

	mu    sync.Mutex
	locks map[favoriteKey]*sync.Mutex
}

type favoriteKey struct {
	userID     int
	providerID int
}

// lockFor serializes toggles per (user, provider) pair so two rapid toggles
// from the same client cannot interleave their read-modify-write.
func (s *FavoriteService) lockFor(userID, providerID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks == nil {
		s.locks = make(map[favoriteKey]*sync.Mutex)
	}
	key := favoriteKey{userID: userID, providerID: providerID}
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// Toggle removes the association when present, inserts it when absent, and
// reports the resulting membership. The insert is INSERT IGNORE against a
// unique key, so even a toggle racing an external writer cannot duplicate the
// row.
func (s *FavoriteService) Toggle(ctx context.Context, userID, providerID int, category string) (bool, error) {
	lock := s.lockFor(userID, providerID)
	lock.Lock()
	defer lock.Unlock()

	removed, err := s.FavoriteRepo.RemoveFromFavorites(ctx, userID, providerID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}

	err = s.FavoriteRepo.AddToFavorites(ctx, models.Favorite{
		UserID:     userID,
		ProviderID: providerID,
		Category:   category,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *FavoriteService) IsFavorite(ctx context.Context, userID, providerID int) (bool, error) {
	return s.FavoriteRepo.IsFavorite(ctx, userID, providerID)
}

func (s *FavoriteService) GetFavoritesByUser(ctx context.Context, userID int) ([]models.Favorite, error) {
	return s.FavoriteRepo.GetFavoritesByUser(ctx, userID)
}

func (s *FavoriteService) CountForProvider(ctx context.Context, providerID int) (int, error) {
	return s.FavoriteRepo.CountForProvider(ctx, providerID)
}
