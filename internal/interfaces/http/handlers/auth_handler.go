package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"mindnamo-admin.backend/internal/domain/entities"
	domainerrors "mindnamo-admin.backend/internal/domain/errors"
	"mindnamo-admin.backend/internal/interfaces/http/middleware"
	"mindnamo-admin.backend/internal/interfaces/http/response"
	"mindnamo-admin.backend/internal/usecases"
	"mindnamo-admin.backend/pkg/jwt"
	"mindnamo-admin.backend/pkg/redis"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase *usecases.AuthUsecase
	sessions    *redis.SessionStore
	jwtService  *jwt.JWTService
	sessionTTL  int // seconds, also the cookie max age
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase *usecases.AuthUsecase, sessions *redis.SessionStore, jwtService *jwt.JWTService, sessionTTLSeconds int) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		sessions:    sessions,
		jwtService:  jwtService,
		sessionTTL:  sessionTTLSeconds,
	}
}

// Login handles admin sign-in
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	user, pair, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	body := gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"user": gin.H{
			"id":                  user.ID,
			"email":               user.Email,
			"name":                user.Name,
			"role":                user.Role,
			"forcePasswordChange": user.ForcePasswordChange,
		},
	}

	// Cookie-backed sessions keep tokens server side; the client only
	// ever holds an opaque ID.
	if input.UseSession && h.sessions != nil {
		sessionID := uuid.New().String()
		data := &redis.SessionData{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
		if err := h.sessions.CreateSession(c.Request.Context(), sessionID, data, h.sessionTTLDuration()); err != nil {
			response.Error(c, err)
			return
		}
		c.SetCookie(middleware.SessionCookieName, sessionID, h.sessionTTL, "/", "", false, true)
		delete(body, "accessToken")
		delete(body, "refreshToken")
	}

	response.Success(c, http.StatusOK, body)
}

// Logout drops the server-side session and clears the cookie
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(middleware.SessionCookieName); err == nil && sessionID != "" && h.sessions != nil {
		_ = h.sessions.DeleteSession(c.Request.Context(), sessionID)
	}
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)

	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// RefreshToken exchanges a refresh token for a new pair
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var refreshToken string

	if c.Request.ContentLength > 0 {
		var input struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&input); err == nil {
			refreshToken = input.RefreshToken
		}
	}

	// Session clients refresh against the stored pair.
	var sessionID string
	if refreshToken == "" && h.sessions != nil {
		if id, err := c.Cookie(middleware.SessionCookieName); err == nil && id != "" {
			if data, err := h.sessions.GetSession(c.Request.Context(), id); err == nil {
				refreshToken = data.RefreshToken
				sessionID = id
			}
		}
	}
	if refreshToken == "" {
		response.Error(c, domainerrors.BadRequest("Refresh token is required"))
		return
	}

	pair, err := h.authUsecase.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	if sessionID != "" {
		data := &redis.SessionData{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
		if err := h.sessions.RefreshSession(c.Request.Context(), sessionID, data, h.sessionTTLDuration()); err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"message": "Session refreshed"})
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// GetMe returns current authenticated user details
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	user, err := h.authUsecase.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": gin.H{
			"id":                  user.ID,
			"email":               user.Email,
			"name":                user.Name,
			"username":            user.Username,
			"role":                user.Role,
			"forcePasswordChange": user.ForcePasswordChange,
			"setupState":          user.SetupState,
		},
	})
}

// Gate evaluates the portal routing rules for a path on behalf of the
// frontend edge
// POST /api/v1/auth/gate
func (h *AuthHandler) Gate(c *gin.Context) {
	var input struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	in := middleware.GateInput{Path: input.Path}
	if claims, ok := h.resolveClaims(c); ok {
		in.HasSession = true
		in.Role = claims.Role
		in.ForcePasswordChange = claims.ForcePasswordChange
	}

	response.Success(c, http.StatusOK, middleware.Decide(in))
}

func (h *AuthHandler) resolveClaims(c *gin.Context) (*jwt.Claims, bool) {
	tokenString := ""
	if auth := c.GetHeader(middleware.AuthorizationHeader); len(auth) > len(middleware.BearerPrefix) && auth[:len(middleware.BearerPrefix)] == middleware.BearerPrefix {
		tokenString = auth[len(middleware.BearerPrefix):]
	}
	if tokenString == "" && h.sessions != nil {
		if sessionID, err := c.Cookie(middleware.SessionCookieName); err == nil && sessionID != "" {
			if data, err := h.sessions.GetSession(c.Request.Context(), sessionID); err == nil {
				tokenString = data.AccessToken
			}
		}
	}
	if tokenString == "" {
		return nil, false
	}
	claims, err := h.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func (h *AuthHandler) sessionTTLDuration() time.Duration {
	return time.Duration(h.sessionTTL) * time.Second
}
