package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/personregistry/backend/internal/models"
	"go.uber.org/zap"
)

// AdminService is the interface that wraps account management for administrators
type AdminService interface {
	// Method DeleteUserByID deletes a user together with its profile and orphaned address.
	//
	// "userID" parameter is used to specify the user ID.
	//
	// Unknown users and deleting the last administrator are reported through the result.
	// If some other error occurs, the error will be returned together with nil.
	DeleteUserByID(ctx context.Context, userID int) (*models.OperationResult, error)
	// Method DeleteUserByPersonalNumber deletes the account owning the personal number.
	//
	// Please reference DeleteUserByID for the result semantics.
	DeleteUserByPersonalNumber(ctx context.Context, personalNumber string) (*models.OperationResult, error)
	// Method SetUserRole overwrites a user's role.
	//
	// A blank role or unknown user is reported through the result.
	SetUserRole(ctx context.Context, userID int, role string) (*models.OperationResult, error)
	// Method ChangeUserPassword replaces a user's password.
	//
	// A short password or unknown user is reported through the result.
	ChangeUserPassword(ctx context.Context, userID int, newPassword string) (*models.OperationResult, error)
}

// AdminHandler handles admin-related HTTP requests
type AdminHandler struct {
	BaseHandler
	adminService AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		adminService: adminService,
	}
}

// RegisterRoutes registers all admin handler routes.
// The router must already restrict access to administrators.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Delete("/{id}", h.DeleteUserByID)
		r.Delete("/personal-number/{personalNumber}", h.DeleteUserByPersonalNumber)
		r.Put("/{id}/role", h.SetUserRole)
		r.Put("/{id}/password", h.ChangeUserPassword)
	})
}

// parseUserID reads the {id} URL parameter or responds with 400
func (h *AdminHandler) parseUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || userID <= 0 {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return 0, false
	}
	return userID, true
}

// DeleteUserByID handles DELETE /admin/users/{id}
// @Summary Delete a user
// @Description Delete a user with its profile. The address is removed when nobody else lives there.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.OperationResult "User deleted successfully"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 404 {object} models.OperationResult "User not found"
// @Failure 409 {object} models.OperationResult "Cannot delete the last admin user"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUserByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.parseUserID(w, r)
	if !ok {
		return
	}

	result, err := h.adminService.DeleteUserByID(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondResult(w, result)
}

// DeleteUserByPersonalNumber handles DELETE /admin/users/personal-number/{personalNumber}
// @Summary Delete a user by personal number
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param personalNumber path string true "Personal number"
// @Success 200 {object} models.OperationResult "User deleted successfully"
// @Failure 404 {object} models.OperationResult "Person with given personal number not found"
// @Failure 409 {object} models.OperationResult "Cannot delete the last admin user"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/users/personal-number/{personalNumber} [delete]
func (h *AdminHandler) DeleteUserByPersonalNumber(w http.ResponseWriter, r *http.Request) {
	personalNumber := chi.URLParam(r, "personalNumber")

	result, err := h.adminService.DeleteUserByPersonalNumber(r.Context(), personalNumber)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondResult(w, result)
}

// SetUserRole handles PUT /admin/users/{id}/role
// @Summary Set a user's role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body models.SetRoleRequest true "New role"
// @Success 200 {object} models.OperationResult "Role changed"
// @Failure 400 {object} models.OperationResult "Role cannot be empty"
// @Failure 404 {object} models.OperationResult "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.parseUserID(w, r)
	if !ok {
		return
	}

	var req models.SetRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.adminService.SetUserRole(r.Context(), userID, req.Role)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondResult(w, result)
}

// ChangeUserPassword handles PUT /admin/users/{id}/password
// @Summary Change a user's password
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body models.ChangePasswordRequest true "New password"
// @Success 200 {object} models.OperationResult "Password changed"
// @Failure 400 {object} models.OperationResult "Password too short"
// @Failure 404 {object} models.OperationResult "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/users/{id}/password [put]
func (h *AdminHandler) ChangeUserPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.parseUserID(w, r)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.adminService.ChangeUserPassword(r.Context(), userID, req.NewPassword)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondResult(w, result)
}
