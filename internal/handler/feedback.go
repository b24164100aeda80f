package handler

import (
	"net/http"

	"github.com/maycoffee/maycoffee-api/internal/errors"
	"github.com/maycoffee/maycoffee-api/internal/middleware"
	"github.com/maycoffee/maycoffee-api/internal/utils"
)

type createFeedbackRequest struct {
	Rating  int    `validate:"required,min=1,max=5" json:"rating"`
	Comment string `validate:"required" json:"comment"`
}

func (h *Handler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		utils.WriteError(w, errors.Unauthorized("Please sign in to continue"))
		return
	}

	var req createFeedbackRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	created, err := h.feedback.Create(*user, req.Rating, req.Comment)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, viewFeedback(created))
}

// ListFeedback is the public wall: approved entries only.
func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	items, err := h.feedback.ListPublic()
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, viewFeedbackList(items))
}

func (h *Handler) FeedbackSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.feedback.RatingsSummary()
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) MyFeedback(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		utils.WriteError(w, errors.Unauthorized("Please sign in to continue"))
		return
	}

	items, err := h.feedback.UserHistory(user.Id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, viewFeedbackList(items))
}
