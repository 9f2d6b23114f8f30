package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"bellaBack/internal/models"
	"bellaBack/internal/services"
)

type BookingHandler struct {
	Service *services.BookingService
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	booking, err := h.Service.CreateBooking(r.Context(), req)
	if err != nil {
		if msg := validationMessage(err); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		if isForeignKeyConstraintError(err) {
			http.Error(w, "Unknown client, provider or service", http.StatusBadRequest)
			return
		}
		log.Printf("CreateBooking error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(booking)
}

func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	booking, err := h.Service.GetBookingByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrBookingNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(booking)
}

func (h *BookingHandler) GetProviderBookings(w http.ResponseWriter, r *http.Request) {
	providerID, err := strconv.Atoi(r.URL.Query().Get(":provider_id"))
	if err != nil {
		http.Error(w, "Invalid provider ID", http.StatusBadRequest)
		return
	}

	bookings, err := h.Service.GetProviderBookings(r.Context(), providerID)
	if err != nil {
		log.Printf("GetProviderBookings error: %v", err)
		http.Error(w, "Failed to get bookings", http.StatusInternalServerError)
		return
	}

	if bookings == nil {
		bookings = []models.Booking{}
	}
	json.NewEncoder(w).Encode(bookings)
}

func (h *BookingHandler) GetClientBookings(w http.ResponseWriter, r *http.Request) {
	clientID, err := strconv.Atoi(r.URL.Query().Get(":client_id"))
	if err != nil {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}

	bookings, err := h.Service.GetClientBookings(r.Context(), clientID)
	if err != nil {
		log.Printf("GetClientBookings error: %v", err)
		http.Error(w, "Failed to get bookings", http.StatusInternalServerError)
		return
	}

	if bookings == nil {
		bookings = []models.Booking{}
	}
	json.NewEncoder(w).Encode(bookings)
}

func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	booking, err := h.Service.UpdateBookingStatus(r.Context(), id, req.Status, req.Reason)
	if err != nil {
		if msg := validationMessage(err); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		switch {
		case errors.Is(err, models.ErrBookingNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrInvalidStatusTransition):
			http.Error(w, "Illegal booking status transition", http.StatusUnprocessableEntity)
		case errors.Is(err, models.ErrBookingConflict):
			http.Error(w, "Booking was modified concurrently, refetch and retry", http.StatusConflict)
		default:
			log.Printf("UpdateBookingStatus error: %v", err)
			http.Error(w, "Server error", http.StatusInternalServerError)
		}
		return
	}

	json.NewEncoder(w).Encode(booking)
}

func (h *BookingHandler) UpdateBookingDateTime(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateBookingDateTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	booking, err := h.Service.UpdateBookingDateTime(r.Context(), id, req.Date, req.Time)
	if err != nil {
		if msg := validationMessage(err); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		if errors.Is(err, models.ErrBookingNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("UpdateBookingDateTime error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(booking)
}
