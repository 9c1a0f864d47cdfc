package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"mindnamo-admin.backend/internal/domain/entities"
	domainerrors "mindnamo-admin.backend/internal/domain/errors"
	"mindnamo-admin.backend/internal/interfaces/http/middleware"
	"mindnamo-admin.backend/internal/interfaces/http/response"
	"mindnamo-admin.backend/internal/usecases"
	"mindnamo-admin.backend/pkg/utils"
)

// UserHandler handles admin-side account management endpoints
type UserHandler struct {
	userUsecase *usecases.UserUsecase
}

// NewUserHandler creates a new user handler
func NewUserHandler(userUsecase *usecases.UserUsecase) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
	}
}

// List returns a filtered page of accounts
// GET /api/v1/users?role=&status=&stale=&search=&page=&limit=
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	params := utils.GetPaginationParams(page, limit)

	filter := entities.UserListFilter{
		Role:   entities.UserRole(c.Query("role")),
		Status: c.Query("status"),
		Stale:  c.Query("stale") == "true",
		Search: c.Query("search"),
		Page:   params.Page,
		Limit:  params.Limit,
	}
	if filter.Role != "" && !entities.ValidRole(filter.Role) {
		response.Error(c, domainerrors.BadRequest("Unknown role"))
		return
	}

	// The calling admin never appears in their own listing.
	if selfID, ok := middleware.GetUserID(c); ok {
		filter.ExcludeID = selfID
	}

	users, total, err := h.userUsecase.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"users":      users,
		"pagination": utils.CalculateMeta(total, filter.Page, filter.Limit),
	})
}

// Create provisions an account and returns its one-time credentials
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var input entities.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	creds, err := h.userUsecase.CreateUser(c.Request.Context(), &input)
	if err != nil {
		if err == domainerrors.ErrAlreadyExists {
			response.Error(c, domainerrors.Conflict("An account with this email and role already exists"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message":     "Account created",
		"credentials": creds,
	})
}

// SetBanned suspends or reinstates all accounts behind an email
// POST /api/v1/users/ban
func (h *UserHandler) SetBanned(c *gin.Context) {
	var input struct {
		Email  string `json:"email" binding:"required,email"`
		Banned bool   `json:"banned"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.userUsecase.SetBanned(c.Request.Context(), input.Email, input.Banned); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Account status updated",
	})
}

// BulkSetBanned applies the ban flag to a batch of emails
// POST /api/v1/users/bulk-ban
func (h *UserHandler) BulkSetBanned(c *gin.Context) {
	var input struct {
		Emails []string `json:"emails" binding:"required,min=1"`
		Banned bool     `json:"banned"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	affected, err := h.userUsecase.BulkSetBanned(c.Request.Context(), input.Emails, input.Banned)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":  "Account statuses updated",
		"affected": affected,
	})
}

// Delete removes a single unverified account
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	if err := h.userUsecase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Account deleted",
	})
}

// BulkDelete removes the unverified accounts among the given IDs
// POST /api/v1/users/bulk-delete
func (h *UserHandler) BulkDelete(c *gin.Context) {
	var input struct {
		IDs []string `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	ids := make([]uuid.UUID, 0, len(input.IDs))
	for _, raw := range input.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("Invalid user ID: "+raw))
			return
		}
		ids = append(ids, id)
	}

	deleted, err := h.userUsecase.BulkDelete(c.Request.Context(), ids)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Accounts deleted",
		"deleted": deleted,
	})
}
