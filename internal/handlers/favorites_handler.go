package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"bellaBack/internal/models"
	"bellaBack/internal/services"
)

type FavoriteHandler struct {
	Service *services.FavoriteService
}

func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID     int    `json:"user_id"`
		ProviderID int    `json:"provider_id"`
		Category   string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	favorited, err := h.Service.Toggle(r.Context(), req.UserID, req.ProviderID, req.Category)
	if err != nil {
		if isForeignKeyConstraintError(err) {
			http.Error(w, "Unknown user or provider", http.StatusBadRequest)
			return
		}
		log.Printf("Toggle favorite error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]bool{"favorited": favorited})
}

func (h *FavoriteHandler) IsFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get(":user_id"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	providerID, err := strconv.Atoi(r.URL.Query().Get(":provider_id"))
	if err != nil {
		http.Error(w, "Invalid provider ID", http.StatusBadRequest)
		return
	}

	favorited, err := h.Service.IsFavorite(r.Context(), userID, providerID)
	if err != nil {
		log.Printf("IsFavorite error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]bool{"favorited": favorited})
}

func (h *FavoriteHandler) GetFavoritesByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get(":user_id"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	favs, err := h.Service.GetFavoritesByUser(r.Context(), userID)
	if err != nil {
		log.Printf("GetFavoritesByUser error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	if favs == nil {
		favs = []models.Favorite{}
	}
	json.NewEncoder(w).Encode(favs)
}

func (h *FavoriteHandler) CountForProvider(w http.ResponseWriter, r *http.Request) {
	providerID, err := strconv.Atoi(r.URL.Query().Get(":provider_id"))
	if err != nil {
		http.Error(w, "Invalid provider ID", http.StatusBadRequest)
		return
	}

	count, err := h.Service.CountForProvider(r.Context(), providerID)
	if err != nil {
		log.Printf("CountForProvider error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]int{"count": count})
}
