package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"bellaBack/internal/models"
	"bellaBack/internal/services"
)

const maxAvatarSize = 5 << 20 // 5 MiB

type UserHandler struct {
	AuthService *services.AuthService
	UserService *services.UserService
}

func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.AuthService.SignUp(r.Context(), req)
	if err != nil {
		if msg := validationMessage(err); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		if errors.Is(err, models.ErrDuplicateEmail) {
			http.Error(w, "email already used", http.StatusConflict)
			return
		}
		log.Printf("SignUp error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.AuthService.SignIn(r.Context(), req)
	if err != nil {
		if msg := validationMessage(err); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		if errors.Is(err, models.ErrEmailNotConfirmed) {
			http.Error(w, "Email not confirmed", http.StatusForbidden)
			return
		}
		if errors.Is(err, models.ErrInvalidCredentials) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Printf("SignIn error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(resp)
}

func (h *UserHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.AuthService.SignOut(r.Context(), userID); err != nil {
		log.Printf("SignOut error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetCurrentUser resolves the bearer token to a profile. No session is a
// valid outcome and answers 200 with an explicit unauthenticated payload.
func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	user, ok, err := h.AuthService.CurrentUser(r.Context(), token)
	if err != nil {
		log.Printf("CurrentUser error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	if !ok {
		json.NewEncoder(w).Encode(map[string]interface{}{"authenticated": false})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"authenticated": true, "user": user})
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get(":id")
	if idStr == "" {
		http.Error(w, "Missing user ID", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.UpdateProfile(r.Context(), id, update)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(user)
}

// UploadAvatar accepts either a multipart form with an "avatar" file part or
// a JSON body carrying a remote "uri" to fetch.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var avatarURL string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
			http.Error(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("avatar")
		if err != nil {
			http.Error(w, "Missing avatar file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize))
		if err != nil {
			http.Error(w, "Failed to read avatar file", http.StatusBadRequest)
			return
		}
		avatarURL, err = h.UserService.UploadAvatar(r.Context(), id, data, header.Filename)
		if err != nil {
			h.writeAvatarError(w, err)
			return
		}
	} else {
		var req struct {
			URI string `json:"uri"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URI == "" {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		avatarURL, err = h.UserService.UploadAvatarFromURI(r.Context(), id, req.URI)
		if err != nil {
			h.writeAvatarError(w, err)
			return
		}
	}

	json.NewEncoder(w).Encode(map[string]string{"avatar_url": avatarURL})
}

func (h *UserHandler) writeAvatarError(w http.ResponseWriter, err error) {
	if msg := validationMessage(err); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	if errors.Is(err, models.ErrUserNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	log.Printf("UploadAvatar error: %v", err)
	http.Error(w, "Server error", http.StatusInternalServerError)
}

// GetProviders runs the filtered provider search; filters arrive as a JSON
// body so skill lists do not have to be packed into query strings.
func (h *UserHandler) GetProviders(w http.ResponseWriter, r *http.Request) {
	var filter models.ProviderFilter
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	providers, err := h.UserService.GetProviders(r.Context(), filter)
	if err != nil {
		log.Printf("GetProviders error: %v", err)
		http.Error(w, "Failed to search providers", http.StatusInternalServerError)
		return
	}

	if providers == nil {
		providers = []models.User{}
	}
	json.NewEncoder(w).Encode(providers)
}

func (h *UserHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// The code goes to the out-of-band mailer, never into this response.
	if _, err := h.AuthService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if msg := validationMessage(err); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		log.Printf("RequestPasswordReset error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"If the address exists, a reset code has been sent"}`))
}

func (h *UserHandler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.AuthService.VerifyResetCode(r.Context(), req.Email, req.Code); err != nil {
		if errors.Is(err, models.ErrInvalidResetCode) {
			http.Error(w, "Invalid reset code", http.StatusUnauthorized)
			return
		}
		log.Printf("VerifyResetCode error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"Code verified"}`))
}

func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), req); err != nil {
		if msg := validationMessage(err); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		if errors.Is(err, models.ErrInvalidResetCode) {
			http.Error(w, "Invalid reset code", http.StatusUnauthorized)
			return
		}
		log.Printf("ResetPassword error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"Password updated"}`))
}

func (h *UserHandler) RegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.UserService.UserRepo.SaveDeviceToken(r.Context(), userID, req.Token); err != nil {
		log.Printf("RegisterDeviceToken error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
