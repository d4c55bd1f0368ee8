package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/commentator/internal/auth"
	"github.com/sakif/commentator/internal/model"
	"github.com/sakif/commentator/internal/service"
)

// FeedbackHandler manages CRUD for feedback posts.
type FeedbackHandler struct {
	feedback *service.FeedbackService
	logger   *slog.Logger
}

// NewFeedbackHandler creates a FeedbackHandler.
func NewFeedbackHandler(feedback *service.FeedbackService, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, logger: logger}
}

// feedbackBody is the request payload for create and update.
type feedbackBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// feedbackResponse is the detail/update payload: the post plus whether the
// requesting identity may edit it. The frontend uses Editable to decide
// between the edit form and the read-only view.
type feedbackResponse struct {
	Feedback *model.Feedback `json:"feedback"`
	Editable bool            `json:"editable"`
}

// HandleCreate posts feedback on a user's profile.
//
// HTTP: POST /api/users/{username}/feedback
// Auth: required; the guard only lets the profile's owner through.
func (h *FeedbackHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.Identity(r.Context())
	owner := r.PathValue("username")

	var body feedbackBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warn("invalid feedback JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	fb, err := h.feedback.Create(r.Context(), identity, owner, body.Title, body.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, feedbackResponse{Feedback: fb, Editable: true})
}

// HandleGet returns a single feedback post.
//
// HTTP: GET /api/feedback/{id}
// Auth: optional — the content is public; only Editable varies by identity.
func (h *FeedbackHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.Identity(r.Context())

	id, err := parseFeedbackID(r)
	if err != nil {
		http.Error(w, "Invalid feedback ID", http.StatusBadRequest)
		return
	}

	fb, editable, err := h.feedback.Get(r.Context(), identity, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, feedbackResponse{Feedback: fb, Editable: editable})
}

// HandleUpdate edits a feedback post.
//
// HTTP: PUT /api/feedback/{id}
// Auth: required.
//
// A non-owner's request does NOT fail: per the edit rule, the mutation is
// suppressed and the response carries the unmodified post with
// editable=false — the same thing the non-owner would see on a GET.
func (h *FeedbackHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.Identity(r.Context())

	id, err := parseFeedbackID(r)
	if err != nil {
		http.Error(w, "Invalid feedback ID", http.StatusBadRequest)
		return
	}

	var body feedbackBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warn("invalid feedback JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	fb, editable, err := h.feedback.Update(r.Context(), identity, id, body.Title, body.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, feedbackResponse{Feedback: fb, Editable: editable})
}

// HandleDelete removes a feedback post.
//
// HTTP: DELETE /api/feedback/{id}
// Auth: required; only the owner passes the guard.
func (h *FeedbackHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.Identity(r.Context())

	id, err := parseFeedbackID(r)
	if err != nil {
		http.Error(w, "Invalid feedback ID", http.StatusBadRequest)
		return
	}

	if err := h.feedback.Delete(r.Context(), identity, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseFeedbackID extracts the integer id from the URL path.
func parseFeedbackID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
