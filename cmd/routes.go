package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("client"))
	providerAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("provider"))

	mux := pat.New()

	// Auth
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Post("/user/sign_out", authMiddleware.ThenFunc(app.userHandler.SignOut))
	mux.Get("/user/me", standardMiddleware.ThenFunc(app.userHandler.GetCurrentUser))
	mux.Post("/user/request_reset", standardMiddleware.ThenFunc(app.userHandler.RequestPasswordReset))
	mux.Post("/user/verify_reset_code", standardMiddleware.ThenFunc(app.userHandler.VerifyResetCode))
	mux.Post("/user/reset_password", standardMiddleware.ThenFunc(app.userHandler.ResetPassword))
	mux.Post("/user/device_token", authMiddleware.ThenFunc(app.userHandler.RegisterDeviceToken))

	// Users and providers
	mux.Get("/user/:id", authMiddleware.ThenFunc(app.userHandler.GetUserByID))
	mux.Put("/user/:id", authMiddleware.ThenFunc(app.userHandler.UpdateProfile))
	mux.Post("/user/:id/avatar", authMiddleware.ThenFunc(app.userHandler.UploadAvatar))
	mux.Post("/providers/search", standardMiddleware.ThenFunc(app.userHandler.GetProviders))

	// Bookings
	mux.Post("/booking", authMiddleware.ThenFunc(app.bookingHandler.CreateBooking))
	mux.Get("/booking/:id", authMiddleware.ThenFunc(app.bookingHandler.GetBookingByID))
	mux.Put("/booking/:id/status", authMiddleware.ThenFunc(app.bookingHandler.UpdateBookingStatus))
	mux.Put("/booking/:id/schedule", authMiddleware.ThenFunc(app.bookingHandler.UpdateBookingDateTime))
	mux.Get("/bookings/provider/:provider_id", providerAuthMiddleware.ThenFunc(app.bookingHandler.GetProviderBookings))
	mux.Get("/bookings/client/:client_id", authMiddleware.ThenFunc(app.bookingHandler.GetClientBookings))

	// Favorites
	mux.Post("/favorites/toggle", authMiddleware.ThenFunc(app.favoriteHandler.Toggle))
	mux.Get("/favorites/check/user/:user_id/provider/:provider_id", authMiddleware.ThenFunc(app.favoriteHandler.IsFavorite))
	mux.Get("/favorites/:user_id", authMiddleware.ThenFunc(app.favoriteHandler.GetFavoritesByUser))
	mux.Get("/favorites/count/provider/:provider_id", authMiddleware.ThenFunc(app.favoriteHandler.CountForProvider))

	// Services
	mux.Post("/service", providerAuthMiddleware.ThenFunc(app.serviceHandler.CreateService))
	mux.Get("/service/:id", standardMiddleware.ThenFunc(app.serviceHandler.GetServiceByID))
	mux.Put("/service/:id", providerAuthMiddleware.ThenFunc(app.serviceHandler.UpdateService))
	mux.Del("/service/:id", providerAuthMiddleware.ThenFunc(app.serviceHandler.DeleteService))
	mux.Get("/service/provider/:provider_id", standardMiddleware.ThenFunc(app.serviceHandler.GetServicesByProviderID))

	// Categories
	mux.Get("/category", standardMiddleware.ThenFunc(app.categoryHandler.GetAllCategories))
	mux.Get("/category/:id", standardMiddleware.ThenFunc(app.categoryHandler.GetCategoryByID))

	// Booking events stream
	mux.Get("/ws/bookings", http.HandlerFunc(app.BookingEventsHandler))

	return standardMiddleware.Then(mux)
}
