package handler

import (
	"net/http"

	"github.com/maycoffee/maycoffee-api/internal/errors"
	"github.com/maycoffee/maycoffee-api/internal/middleware"
	"github.com/maycoffee/maycoffee-api/internal/utils"
)

type registerRequest struct {
	Name     string `validate:"required" json:"name"`
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required,min=8" json:"password"`
}

type registerResponse struct {
	User userView `json:"user"`
	// DevCode carries the raw verification code when no mail provider is
	// configured outside production, so local frontends can complete the
	// flow without an inbox.
	DevCode string `json:"devCode,omitempty"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	user, devCode, err := h.auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, registerResponse{User: viewUser(user), DevCode: devCode})
}

type verifyEmailRequest struct {
	Email string `validate:"required,email" json:"email"`
	Code  string `validate:"required" json:"code"`
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	user, err := h.auth.VerifyEmail(req.Email, req.Code)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	// verifying signs the user in
	if err := h.setSession(w, user); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, viewUser(user))
}

type resendCodeRequest struct {
	Email string `validate:"required,email" json:"email"`
}

type resendCodeResponse struct {
	Message string `json:"message"`
	DevCode string `json:"devCode,omitempty"`
}

func (h *Handler) ResendCode(w http.ResponseWriter, r *http.Request) {
	var req resendCodeRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	devCode, err := h.auth.ResendCode(req.Email, requestLocale(r))
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, resendCodeResponse{Message: "Verification code sent", DevCode: devCode})
}

type loginRequest struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required" json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	user, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.setSession(w, user); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, viewUser(user))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w)
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the caller resolved by the auth middleware.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		utils.WriteError(w, errors.Unauthorized("Please sign in to continue"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, viewUser(*user))
}
