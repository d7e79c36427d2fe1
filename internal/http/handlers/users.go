package handlers

import (
	"context"
	"errors"
	"net/http"

	"blogd/internal/domain/user"
	"blogd/internal/security"

	"github.com/gin-gonic/gin"
)

type UsersRepository interface {
	List(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	Page(ctx context.Context, page, limit int) ([]user.User, int, int, error)
	Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error)
	Update(ctx context.Context, id int64, req user.UpdateUserRequest) (user.User, error)
	Delete(ctx context.Context, id int64) (user.User, error)
}

type UsersHandler struct {
	repo UsersRepository
}

func NewUsersHandler(repo UsersRepository) *UsersHandler {
	return &UsersHandler{repo: repo}
}

// ListAll returns the entire collection unfiltered, stored password
// hashes included. Admin only (gated in the router).
func (h *UsersHandler) ListAll(ctx *gin.Context) {
	users, err := h.repo.List(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// GetByID answers any authenticated caller. A miss is a bare 404.
func (h *UsersHandler) GetByID(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		ctx.Status(http.StatusNotFound)
		return
	}

	u, err := h.repo.GetByID(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			ctx.Status(http.StatusNotFound)
			return
		}
		RespondInternal(ctx, "Could not fetch user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) Paginate(ctx *gin.Context) {
	page := queryInt(ctx, "page", 1)
	limit := queryInt(ctx, "limit", 10)

	items, totalItems, totalPages, err := h.repo.Page(ctx.Request.Context(), page, limit)

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	ctx.JSON(http.StatusOK, pageEnvelope{
		Items:      items,
		Page:       page,
		Limit:      limit,
		TotalItems: totalItems,
		TotalPages: totalPages,
	})
}

func (h *UsersHandler) Create(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if req.Name == "" || req.Email == "" {
		RespondBadRequest(ctx, "Name and Email are required")
		return
	}

	// Password is genuinely optional here: absent means no credential
	// stored, and the hasher is never fed an empty input.
	hash := ""

	if req.Password != "" {
		var err error
		hash, err = security.HashPassword(req.Password)

		if err != nil {
			RespondInternal(ctx, "Could not create user")
			return
		}
	}

	role := req.Role
	if role == "" {
		role = "user"
	}

	created, err := h.repo.Create(ctx.Request.Context(), req.Name, req.Email, hash, role)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *UsersHandler) Update(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		RespondNotFound(ctx, "User not found")
		return
	}

	var req user.UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// Re-hash only when a new plaintext is supplied; an empty string
	// keeps the stored hash, same as omitting the field.
	if req.Password != nil {
		if *req.Password == "" {
			req.Password = nil
		} else {
			hash, err := security.HashPassword(*req.Password)

			if err != nil {
				RespondInternal(ctx, "Could not update user")
				return
			}

			req.Password = &hash
		}
	}

	updated, err := h.repo.Update(ctx.Request.Context(), id, req)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not update user")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		RespondNotFound(ctx, "User not found")
		return
	}

	removed, err := h.repo.Delete(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not delete user")
		return
	}

	ctx.JSON(http.StatusOK, removed)
}
