package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"blogd/internal/auth"
	"blogd/internal/config"
	"blogd/internal/domain/user"
	"blogd/internal/http/middlewares"
	"blogd/internal/security"

	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        *auth.Manager
	cfg        config.Config
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwtManager *auth.Manager, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwtManager,
		cfg:        cfg,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx := ctx.Request.Context()

	if _, err := h.users.GetByEmail(cctx, req.Email); err == nil {
		RespondBadRequest(ctx, "Email is already in use")
		return
	} else if !errors.Is(err, user.ErrNotFound) {
		RespondInternal(ctx, "Could not create user")
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	// public signups never pick their role
	u, err := h.userWriter.Create(cctx, req.Name, req.Email, hash, "user")

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	if !h.issueSession(ctx, u) {
		return
	}

	ctx.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	foundUser, err := h.users.GetByEmail(ctx.Request.Context(), req.Email)

	if err != nil {
		RespondUnAuthorized(ctx, "Email or password is incorrect")
		return
	}

	if err := security.CheckPassword(foundUser.Password, req.Password); err != nil {
		RespondUnAuthorized(ctx, "Email or password is incorrect")
		return
	}

	if !h.issueSession(ctx, foundUser) {
		return
	}

	ctx.JSON(http.StatusOK, foundUser)
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearSessionCookie(ctx)
	ctx.Status(http.StatusNoContent)
}

// Me echoes the identity the gate resolved from the cookie.
func (h *AuthHandler) Me(ctx *gin.Context) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	email, _ := middlewares.EmailFromContext(ctx)
	role, _ := middlewares.RoleFromContext(ctx)

	ctx.JSON(http.StatusOK, gin.H{
		"id":    id,
		"email": email,
		"role":  role,
	})
}

func (h *AuthHandler) issueSession(ctx *gin.Context, u user.User) bool {
	token, err := h.jwt.GenerateSessionToken(u.ID, u.Email, u.Role)

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return false
	}

	h.setSessionCookie(ctx, token)
	return true
}

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, raw string) {
	secure := h.cfg.Env == "prod"
	maxAge := int(h.jwt.SessionTTL() / time.Second)

	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		middlewares.SessionCookieName,
		raw,
		maxAge,
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		middlewares.SessionCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
