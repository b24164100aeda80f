package handler

import (
	"net/http"
	"time"

	"github.com/maycoffee/maycoffee-api/internal/errors"
	"github.com/maycoffee/maycoffee-api/internal/middleware"
	"github.com/maycoffee/maycoffee-api/internal/service"
	"github.com/maycoffee/maycoffee-api/internal/utils"
)

type addAdminRequest struct {
	Email string `validate:"required,email" json:"email"`
}

type addAdminResponse struct {
	// Status is "promoted" when the email belongs to a registered user and
	// "invited" when a pending invitation was created instead.
	Status  string    `json:"status"`
	User    *userView `json:"user,omitempty"`
	Email   string    `json:"email,omitempty"`
	Message string    `json:"message"`
}

func (h *Handler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetUserFromContext(r)
	if admin == nil {
		utils.WriteError(w, errors.Unauthorized("Please sign in to continue"))
		return
	}

	var req addAdminRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	result, err := h.admin.Promote(admin.Id, req.Email)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if result.Invited != nil {
		utils.WriteJSON(w, http.StatusCreated, addAdminResponse{
			Status:  "invited",
			Email:   result.Invited.Email,
			Message: "Invitation created. The user becomes an admin after registering and verifying this email",
		})
		return
	}

	view := viewUser(*result.Promoted)
	utils.WriteJSON(w, http.StatusOK, addAdminResponse{
		Status:  "promoted",
		User:    &view,
		Message: "User promoted to admin",
	})
}

func (h *Handler) RevokeAdmin(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetUserFromContext(r)
	if admin == nil {
		utils.WriteError(w, errors.Unauthorized("Please sign in to continue"))
		return
	}

	targetId, err := idParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	updated, err := h.admin.Revoke(admin.Id, targetId)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, viewUser(updated))
}

type deleteUserRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetUserFromContext(r)
	if admin == nil {
		utils.WriteError(w, errors.Unauthorized("Please sign in to continue"))
		return
	}

	targetId, err := idParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	// reason is optional and so is the body
	var req deleteUserRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := utils.DecodeValidate(r.Body, &req); err != nil {
			utils.WriteError(w, err)
			return
		}
	}

	if err := h.admin.DeleteUser(admin.Id, targetId, req.Reason); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers()
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, viewUsers(users))
}

// UserFeedbackHistory lists everything a user submitted, approved or not.
func (h *Handler) UserFeedbackHistory(w http.ResponseWriter, r *http.Request) {
	userId, err := idParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	items, err := h.feedback.UserHistory(userId)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, viewFeedbackList(items))
}

// ListFeedbackAdmin supports ?status=approved|pending; unset returns all.
func (h *Handler) ListFeedbackAdmin(w http.ResponseWriter, r *http.Request) {
	items, err := h.feedback.ListForAdmin(r.URL.Query().Get("status"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, viewFeedbackList(items))
}

type setApprovalRequest struct {
	Approved *bool `validate:"required" json:"approved"`
}

func (h *Handler) SetFeedbackApproval(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetUserFromContext(r)
	if admin == nil {
		utils.WriteError(w, errors.Unauthorized("Please sign in to continue"))
		return
	}

	feedbackId, err := idParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var req setApprovalRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	updated, err := h.feedback.SetApproval(admin.Id, feedbackId, *req.Approved)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, viewFeedback(updated))
}

func (h *Handler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	feedbackId, err := idParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.feedback.Delete(feedbackId); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Feedback deleted"})
}

type createEventRequest struct {
	Title       string     `validate:"required" json:"title"`
	Description string     `validate:"required" json:"description"`
	Date        *time.Time `json:"date"`
	Location    string     `json:"location"`
	IsPublished bool       `json:"isPublished"`
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetUserFromContext(r)
	if admin == nil {
		utils.WriteError(w, errors.Unauthorized("Please sign in to continue"))
		return
	}

	var req createEventRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	created, err := h.events.Create(admin.Id, service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, viewEvent(created))
}

type updateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location"`
	IsPublished *bool      `json:"isPublished"`
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetUserFromContext(r)
	if admin == nil {
		utils.WriteError(w, errors.Unauthorized("Please sign in to continue"))
		return
	}

	eventId, err := idParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var req updateEventRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	updated, err := h.events.Update(admin.Id, eventId, service.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, viewEvent(updated))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetUserFromContext(r)
	if admin == nil {
		utils.WriteError(w, errors.Unauthorized("Please sign in to continue"))
		return
	}

	eventId, err := idParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.events.Delete(admin.Id, eventId); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Event deleted"})
}

func (h *Handler) ListEventsAdmin(w http.ResponseWriter, r *http.Request) {
	items, err := h.events.ListAll()
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, viewEvents(items))
}
