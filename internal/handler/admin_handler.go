package handler

import (
	"net/http"

	"submission-service/internal/service"

	"go.uber.org/zap"
)

// AdminHandler serves admin bootstrap and login
type AdminHandler struct {
	admins *service.AdminService
	logger *zap.Logger
}

func NewAdminHandler(admins *service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{admins: admins, logger: logger}
}

// Register handles POST /admin/register
func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		respondWithError(w, r, h.logger, err, "Validation error", msgSomethingWrong)
		return
	}

	summary, err := h.admins.RegisterAdmin(r.Context(), body)
	if err != nil {
		respondWithError(w, r, h.logger, err, "Validation error", msgSomethingWrong)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, successResponse(summary, "Admin registered successfully"))
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		respondWithError(w, r, h.logger, err, msgInvalidData, msgSomethingWrong)
		return
	}

	session, err := h.admins.Login(r.Context(), body)
	if err != nil {
		respondWithError(w, r, h.logger, err, msgInvalidData, msgSomethingWrong)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, successResponse(session, "Login successful"))
}
