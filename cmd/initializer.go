package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"bellaBack/internal/cache"
	"bellaBack/internal/config"
	"bellaBack/internal/handlers"
	"bellaBack/internal/repositories"
	"bellaBack/internal/services"
	"bellaBack/utils"

	"firebase.google.com/go/messaging"
)

type application struct {
	errorLog        *log.Logger
	infoLog         *log.Logger
	tokenManager    *utils.Manager
	userHandler     *handlers.UserHandler
	userRepo        *repositories.UserRepository
	bookingHandler  *handlers.BookingHandler
	bookingRepo     *repositories.BookingRepository
	favoriteHandler *handlers.FavoriteHandler
	favoriteRepo    *repositories.FavoriteRepository
	serviceHandler  *handlers.ServiceHandler
	serviceRepo     *repositories.ServiceRepository
	categoryHandler *handlers.CategoryHandler
	categoryRepo    *repositories.CategoryRepository
	eventHub        *BookingEventHub
	db              *sql.DB
}

func initializeApp(db *sql.DB, rdb *redis.Client, fcmClient *messaging.Client, cfg config.Config, errorLog, infoLog *log.Logger) (*application, error) {
	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	bookingRepo := repositories.BookingRepository{DB: db}
	favoriteRepo := repositories.FavoriteRepository{DB: db}
	serviceRepo := repositories.ServiceRepository{DB: db}
	categoryRepo := repositories.CategoryRepository{DB: db}

	tokenManager, err := utils.NewManager(cfg.Auth.SigningKey)
	if err != nil {
		return nil, err
	}
	storage := utils.NewStorage(cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.Region, cfg.Storage.Endpoint)
	resetCodes := cache.NewResetCodeStore(rdb)
	imageCache := cache.NewImageCache(prefetchImage)

	eventHub := NewBookingEventHub()

	// Services
	authService := &services.AuthService{
		UserRepo:     &userRepo,
		TokenManager: tokenManager,
		ResetCodes:   resetCodes,
	}
	userService := &services.UserService{UserRepo: &userRepo, Storage: storage, ImageCache: imageCache}
	notificationService := &services.NotificationService{Client: fcmClient, UserRepo: &userRepo}
	bookingService := &services.BookingService{
		BookingRepo:       &bookingRepo,
		StrictTransitions: cfg.Bookings.StrictTransitions,
		Events:            eventHub,
		Notifications:     notificationService,
	}
	favoriteService := &services.FavoriteService{FavoriteRepo: &favoriteRepo}
	serviceService := &services.ServiceService{ServiceRepo: &serviceRepo}
	categoryService := &services.CategoryService{CategoryRepo: &categoryRepo}

	// Handlers
	userHandler := &handlers.UserHandler{AuthService: authService, UserService: userService}
	bookingHandler := &handlers.BookingHandler{Service: bookingService}
	favoriteHandler := &handlers.FavoriteHandler{Service: favoriteService}
	serviceHandler := &handlers.ServiceHandler{Service: serviceService}
	categoryHandler := &handlers.CategoryHandler{Service: categoryService}

	return &application{
		errorLog:        errorLog,
		infoLog:         infoLog,
		tokenManager:    tokenManager,
		userHandler:     userHandler,
		userRepo:        &userRepo,
		bookingHandler:  bookingHandler,
		bookingRepo:     &bookingRepo,
		favoriteHandler: favoriteHandler,
		favoriteRepo:    &favoriteRepo,
		serviceHandler:  serviceHandler,
		serviceRepo:     &serviceRepo,
		categoryHandler: categoryHandler,
		categoryRepo:    &categoryRepo,
		eventHub:        eventHub,
		db:              db,
	}, nil
}

// prefetchImage warms a remote image by fetching and discarding the body.
func prefetchImage(ctx context.Context, uri string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("prefetch %s: status %d", uri, resp.StatusCode)
	}
	_, err = io.Copy(io.Discard, resp.Body)
	return err
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
