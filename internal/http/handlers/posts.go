package handlers

import (
	"context"
	"errors"
	"net/http"

	"blogd/internal/domain/post"
	"blogd/internal/http/middlewares"

	"github.com/gin-gonic/gin"
)

type PostsRepository interface {
	Page(ctx context.Context, page, limit int) ([]post.Post, int, int, error)
	GetByID(ctx context.Context, id int64) (post.Post, error)
	Create(ctx context.Context, req post.CreatePostRequest, authorID int64) (post.Post, error)
	Update(ctx context.Context, id int64, req post.UpdatePostRequest) (post.Post, error)
	Delete(ctx context.Context, id int64) (post.Post, error)
}

type PostsHandler struct {
	repo PostsRepository
}

func NewPostsHandler(repo PostsRepository) *PostsHandler {
	return &PostsHandler{repo: repo}
}

func (h *PostsHandler) List(ctx *gin.Context) {
	page := queryInt(ctx, "page", 1)
	limit := queryInt(ctx, "limit", 10)

	items, totalItems, totalPages, err := h.repo.Page(ctx.Request.Context(), page, limit)

	if err != nil {
		RespondInternal(ctx, "Could not list posts")
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

func (h *PostsHandler) GetByID(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		ctx.Status(http.StatusNotFound)
		return
	}

	p, err := h.repo.GetByID(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			ctx.Status(http.StatusNotFound)
			return
		}
		RespondInternal(ctx, "Could not fetch post")
		return
	}

	ctx.JSON(http.StatusOK, p)
}

func (h *PostsHandler) Create(ctx *gin.Context) {
	var req post.CreatePostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	authorID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	created, err := h.repo.Create(ctx.Request.Context(), req, authorID)

	if err != nil {
		RespondInternal(ctx, "Could not create post")
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *PostsHandler) Update(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		RespondNotFound(ctx, "Post not found")
		return
	}

	var req post.UpdatePostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	existing, err := h.repo.GetByID(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			RespondNotFound(ctx, "Post not found")
			return
		}
		RespondInternal(ctx, "Could not update post")
		return
	}

	if !canModify(ctx, existing.AuthorID) {
		ctx.Status(http.StatusForbidden)
		return
	}

	updated, err := h.repo.Update(ctx.Request.Context(), id, req)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			RespondNotFound(ctx, "Post not found")
			return
		}
		RespondInternal(ctx, "Could not update post")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *PostsHandler) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		RespondNotFound(ctx, "Post not found")
		return
	}

	existing, err := h.repo.GetByID(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			RespondNotFound(ctx, "Post not found")
			return
		}
		RespondInternal(ctx, "Could not delete post")
		return
	}

	if !canModify(ctx, existing.AuthorID) {
		ctx.Status(http.StatusForbidden)
		return
	}

	removed, err := h.repo.Delete(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			RespondNotFound(ctx, "Post not found")
			return
		}
		RespondInternal(ctx, "Could not delete post")
		return
	}

	ctx.JSON(http.StatusOK, removed)
}

// canModify allows the resource author and admins.
func canModify(ctx *gin.Context, authorID int64) bool {
	if role, ok := middlewares.RoleFromContext(ctx); ok && role == "admin" {
		return true
	}

	id, ok := middlewares.UserIDFromContext(ctx)

	return ok && id == authorID
}
