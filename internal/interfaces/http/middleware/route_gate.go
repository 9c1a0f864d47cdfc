package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"mindnamo-admin.backend/pkg/jwt"
	"mindnamo-admin.backend/pkg/redis"
)

// Portal paths the gate routes between.
const (
	LoginPath     = "/login"
	SetupPath     = "/setup"
	DashboardPath = "/dashboard"
)

// GateInput is everything the routing decision depends on. Path is the
// portal path being requested, not an API route.
type GateInput struct {
	Path                string
	HasSession          bool
	Role                string
	ForcePasswordChange bool
}

// GateDecision is the outcome: either the request proceeds or the
// client is redirected to exactly one place.
type GateDecision struct {
	Allow    bool   `json:"allow"`
	Redirect string `json:"redirect,omitempty"`
}

// Decide applies the portal routing rules to one request. It is a pure
// function of its input so every rule is testable without a server.
//
// Guests may only reach the login page; anywhere else bounces to login
// with the original path preserved as a callback. A session without
// the admin role is treated as a guest. A locked session (password
// change still forced) is confined to the setup flow. An unlocked
// session has no business on login, setup or the root and is sent to
// the dashboard.
func Decide(in GateInput) GateDecision {
	onLogin := in.Path == LoginPath
	onSetup := in.Path == SetupPath || strings.HasPrefix(in.Path, SetupPath+"/")

	if !in.HasSession || in.Role != "admin" {
		if onLogin {
			return GateDecision{Allow: true}
		}
		redirect := LoginPath
		if in.Path != "" && in.Path != "/" {
			redirect += "?callbackUrl=" + url.QueryEscape(in.Path)
		}
		return GateDecision{Redirect: redirect}
	}

	if in.ForcePasswordChange {
		if onSetup {
			return GateDecision{Allow: true}
		}
		return GateDecision{Redirect: SetupPath}
	}

	if onLogin || onSetup || in.Path == "/" {
		return GateDecision{Redirect: DashboardPath}
	}
	return GateDecision{Allow: true}
}

// RouteGate resolves session claims without rejecting guests, applies
// Decide to the request path and issues the redirect when one is due.
// Invalid or expired credentials simply read as no session.
func RouteGate(jwtService *jwt.JWTService, sessions *redis.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := GateInput{Path: c.Request.URL.Path}

		tokenString := bearerToken(c)
		if tokenString == "" && sessions != nil {
			if sessionID, err := c.Cookie(SessionCookieName); err == nil && sessionID != "" {
				if data, err := sessions.GetSession(c.Request.Context(), sessionID); err == nil {
					tokenString = data.AccessToken
				}
			}
		}
		if tokenString != "" {
			if claims, err := jwtService.ValidateToken(tokenString); err == nil {
				in.HasSession = true
				in.Role = claims.Role
				in.ForcePasswordChange = claims.ForcePasswordChange
			}
		}

		decision := Decide(in)
		if !decision.Allow {
			c.Redirect(http.StatusTemporaryRedirect, decision.Redirect)
			c.Abort()
			return
		}
		c.Next()
	}
}
