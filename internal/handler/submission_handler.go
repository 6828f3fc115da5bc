package handler

import (
	"net/http"
	"net/url"

	"submission-service/internal/models"
	"submission-service/internal/ratelimit"
	"submission-service/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SubmissionHandler serves public submissions and their admin listings
type SubmissionHandler struct {
	submissions *service.SubmissionService
	logger      *zap.Logger
}

func NewSubmissionHandler(submissions *service.SubmissionService, logger *zap.Logger) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions, logger: logger}
}

func requestMeta(r *http.Request) models.RequestMeta {
	return models.RequestMeta{
		IPAddress: ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Timezone:  r.Header.Get("X-Timezone"),
	}
}

// SubmitContact handles POST /contact
func (h *SubmissionHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	const failMessage = "Failed to submit contact form"

	body, err := readBody(r)
	if err != nil {
		respondWithError(w, r, h.logger, err, msgInvalidData, failMessage)
		return
	}

	if err := h.submissions.SubmitContact(r.Context(), body, requestMeta(r)); err != nil {
		respondWithError(w, r, h.logger, err, msgInvalidData, failMessage)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, successResponse(nil, "Thank you for contacting us!"))
}

// ListContacts handles GET /contact
func (h *SubmissionHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.submissions.ListContacts(r.Context())
	if err != nil {
		respondWithError(w, r, h.logger, err, msgInvalidData, "Failed to fetch contacts")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(contacts, "Contacts fetched successfully"))
}

// SubmitPurchase handles POST /purchase
func (h *SubmissionHandler) SubmitPurchase(w http.ResponseWriter, r *http.Request) {
	const failMessage = "Failed to process purchase"

	body, err := readBody(r)
	if err != nil {
		respondWithError(w, r, h.logger, err, msgInvalidData, failMessage)
		return
	}

	conf, err := h.submissions.SubmitPurchase(r.Context(), body, requestMeta(r))
	if err != nil {
		respondWithError(w, r, h.logger, err, msgInvalidData, failMessage)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, successResponse(conf, "Course purchased successfully!"))
}

// ListPurchases handles GET /purchase
func (h *SubmissionHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.submissions.ListPurchases(r.Context())
	if err != nil {
		respondWithError(w, r, h.logger, err, msgInvalidData, "Failed to fetch purchases")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(purchases, "Purchases fetched successfully"))
}

// ListPurchasesByEmail handles GET /purchase/email/{email}
func (h *SubmissionHandler) ListPurchasesByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if unescaped, err := url.PathUnescape(email); err == nil {
		email = unescaped
	}

	purchases, err := h.submissions.ListPurchasesByEmail(r.Context(), email)
	if err != nil {
		respondWithError(w, r, h.logger, err, msgInvalidData, "Failed to fetch purchases")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(purchases, "Purchases fetched successfully"))
}
