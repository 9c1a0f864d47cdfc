package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"mindnamo-admin.backend/internal/domain/entities"
	domainerrors "mindnamo-admin.backend/internal/domain/errors"
	"mindnamo-admin.backend/internal/interfaces/http/middleware"
	"mindnamo-admin.backend/internal/interfaces/http/response"
	"mindnamo-admin.backend/internal/usecases"
	"mindnamo-admin.backend/pkg/redis"
)

// SetupHandler handles the first-login account setup endpoints. All of
// them act on the authenticated account only; no endpoint accepts a
// target account ID.
type SetupHandler struct {
	setupUsecase *usecases.SetupUsecase
	sessions     *redis.SessionStore
	sessionTTL   time.Duration
}

// NewSetupHandler creates a new setup handler
func NewSetupHandler(setupUsecase *usecases.SetupUsecase, sessions *redis.SessionStore, sessionTTL time.Duration) *SetupHandler {
	return &SetupHandler{
		setupUsecase: setupUsecase,
		sessions:     sessions,
		sessionTTL:   sessionTTL,
	}
}

// GetState returns the resumable setup projection
// GET /api/v1/setup
func (h *SetupHandler) GetState(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	state, err := h.setupUsecase.GetChallengeableState(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// IssueChallenge sends a fresh verification code to the account email
// POST /api/v1/setup/challenge
func (h *SetupHandler) IssueChallenge(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	if err := h.setupUsecase.IssueChallenge(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Verification code sent",
	})
}

// ValidateChallenge verifies a submitted code
// POST /api/v1/setup/verify
func (h *SetupHandler) ValidateChallenge(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	var input entities.ValidateChallengeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.setupUsecase.ValidateChallenge(c.Request.Context(), userID, input.Code); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Email verified",
	})
}

// UpdateProfile applies the optional profile step
// PATCH /api/v1/setup/profile
func (h *SetupHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	var input entities.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.setupUsecase.UpdateProfile(c.Request.Context(), userID, &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Profile updated",
	})
}

// FinalizeSetup stores the chosen password and unlocks the account.
// The session's stored token pair is replaced in place so the lifted
// lock claim takes effect without a new sign-in.
// POST /api/v1/setup/finalize
func (h *SetupHandler) FinalizeSetup(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	var input entities.FinalizeSetupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	pair, err := h.setupUsecase.FinalizeSetup(c.Request.Context(), userID, input.NewPassword)
	if err != nil {
		response.Error(c, err)
		return
	}

	if sessionID, cerr := c.Cookie(middleware.SessionCookieName); cerr == nil && sessionID != "" && h.sessions != nil {
		data := &redis.SessionData{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
		_ = h.sessions.RefreshSession(c.Request.Context(), sessionID, data, h.sessionTTL)
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":      "Account setup complete",
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}
